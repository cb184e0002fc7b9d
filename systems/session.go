package systems

import (
	"log"

	"github.com/tinychicken/tanks-mp/shared/netconfig"
)

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -destination=./mocks/sender_mock.go -package=mocks . Sender

// Sender delivers a message to the relay server.
type Sender interface {
	SendMessage(msg any) error
}

// Session is the participant's view of the room that systems share: who we
// are, how to reach the server, and which tanks are in play.
type Session struct {
	Sender   Sender
	Local    netconfig.ParticipantID
	Registry *PlayerRegistry

	requestSeq uint32
	fireSeq    uint32

	// Spawn requests whose entity was destroyed before the server
	// acknowledged it.
	deferredDestroys map[uint32]bool
}

func NewSession(sender Sender, local netconfig.ParticipantID) *Session {
	return &Session{
		Sender:           sender,
		Local:            local,
		Registry:         NewPlayerRegistry(),
		deferredDestroys: make(map[uint32]bool),
	}
}

// NextRequestID returns a fresh spawn correlation id.
func (s *Session) NextRequestID() uint32 {
	s.requestSeq++
	return s.requestSeq
}

// NextFireSeq returns the sequence number for the next shot.
func (s *Session) NextFireSeq() uint32 {
	s.fireSeq++
	return s.fireSeq
}

// DeferDestroy records that the entity created by requestID must be destroyed
// as soon as its spawn is acknowledged.
func (s *Session) DeferDestroy(requestID uint32) {
	s.deferredDestroys[requestID] = true
}

// TakeDeferredDestroy reports and clears a deferred destroy for requestID.
func (s *Session) TakeDeferredDestroy(requestID uint32) bool {
	if !s.deferredDestroys[requestID] {
		return false
	}
	delete(s.deferredDestroys, requestID)
	return true
}

// Send delivers msg and logs a failure. The simulation keeps running when the
// connection drops; the scene notices the disconnect separately.
func (s *Session) Send(msg any) bool {
	if err := s.Sender.SendMessage(msg); err != nil {
		log.Printf("[sim] send %T: %v", msg, err)
		return false
	}
	return true
}
