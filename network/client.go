package network

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/tinychicken/tanks-mp/shared/messages"
	"github.com/tinychicken/tanks-mp/shared/netconfig"
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoinedGame
	StateError
)

var ErrNotConnected = errors.New("not connected")

// Client manages a WebSocket connection to the relay server.
// All shared fields are protected by mu (router callbacks run on necs goroutines).
type Client struct {
	mu sync.RWMutex

	state     ClientState
	lastError error
	join      messages.JoinAccepted
	conn      *websocket.Conn

	snapshotCh chan []RemoteEntity // size-1 buffered; latest wins
	joinedCh   chan struct{}
	joinOnce   sync.Once
	failedCh   chan struct{}
	failOnce   sync.Once

	// Spawn replies must not be dropped: an entity never acknowledged is
	// never replicated.
	spawnReplies []any

	fireCh chan messages.FireEvent
	hitCh  chan messages.HitEvent
}

func NewClient() *Client {
	return &Client{
		state:      StateDisconnected,
		snapshotCh: make(chan []RemoteEntity, 1),
		joinedCh:   make(chan struct{}),
		failedCh:   make(chan struct{}),
		fireCh:     make(chan messages.FireEvent, 16),
		hitCh:      make(chan messages.HitEvent, 8),
	}
}

// Connect dials the server in a background goroutine and initiates the join handshake.
func (c *Client) Connect(address, version, playerName string) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		log.Println("[client] connected to server")
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()

		err := c.SendMessage(messages.JoinRequest{
			Version:    version,
			PlayerName: playerName,
		})
		if err != nil {
			c.setError(fmt.Errorf("failed to send join request: %w", err))
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinAccepted) {
		log.Printf("[client] join accepted: participant=%d session=%s server=%s arena=%s",
			msg.ParticipantID, msg.SessionID, msg.ServerName, msg.Arena)
		c.mu.Lock()
		c.join = msg
		c.state = StateJoinedGame
		c.mu.Unlock()
		c.joinOnce.Do(func() { close(c.joinedCh) })
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinRejected) {
		log.Printf("[client] join rejected: %s", msg.Reason)
		c.setError(fmt.Errorf("join rejected: %s", msg.Reason))
	})

	router.On(func(_ *router.NetworkClient, snapshot esync.WorldSnapshot) {
		entities := DecodeSnapshot(snapshot)
		select { // drain stale, push latest
		case <-c.snapshotCh:
		default:
		}
		c.snapshotCh <- entities
	})

	router.On(func(_ *router.NetworkClient, msg messages.SpawnAccepted) {
		c.queueSpawnReply(msg)
	})

	router.On(func(_ *router.NetworkClient, msg messages.SpawnRejected) {
		c.queueSpawnReply(msg)
	})

	router.On(func(_ *router.NetworkClient, evt messages.FireEvent) {
		select {
		case c.fireCh <- evt:
		default:
		}
	})

	router.On(func(_ *router.NetworkClient, evt messages.HitEvent) {
		select {
		case c.hitCh <- evt:
		default:
			log.Printf("[client] dropped hit event for participant %d", evt.Victim)
		}
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] disconnected: %v", err)
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] error: %v", err)
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

// WaitJoined blocks until the server accepts the join, the join fails, or ctx
// is done.
func (c *Client) WaitJoined(ctx context.Context) (messages.JoinAccepted, error) {
	select {
	case <-c.joinedCh:
		return c.Join(), nil
	case <-c.failedCh:
		return messages.JoinAccepted{}, c.LastError()
	case <-ctx.Done():
		return messages.JoinAccepted{}, ctx.Err()
	}
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

// Join returns the server's join reply. It is zero until the join is accepted.
func (c *Client) Join() messages.JoinAccepted {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.join
}

func (c *Client) ParticipantID() netconfig.ParticipantID {
	return c.Join().ParticipantID
}

func (c *Client) SessionID() uuid.UUID {
	return c.Join().SessionID
}

// LatestSnapshot returns the most recent decoded world snapshot. Non-blocking.
func (c *Client) LatestSnapshot() ([]RemoteEntity, bool) {
	select {
	case snap := <-c.snapshotCh:
		return snap, true
	default:
		return nil, false
	}
}

func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
	c.failOnce.Do(func() { close(c.failedCh) })
}

func (c *Client) queueSpawnReply(msg any) {
	c.mu.Lock()
	c.spawnReplies = append(c.spawnReplies, msg)
	c.mu.Unlock()
}

// DrainSpawnReplies returns every pending SpawnAccepted and SpawnRejected in
// arrival order.
func (c *Client) DrainSpawnReplies() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.spawnReplies
	c.spawnReplies = nil
	return out
}

// DrainFireEvents returns all pending fire events, non-blocking.
func (c *Client) DrainFireEvents() []messages.FireEvent {
	return drainChan(c.fireCh)
}

// DrainHitEvents returns all pending hit events, non-blocking.
func (c *Client) DrainHitEvents() []messages.HitEvent {
	return drainChan(c.hitCh)
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
