package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"
)

type statusResponse struct {
	Status       string `json:"status"`
	Name         string `json:"name"`
	Arena        string `json:"arena"`
	Participants int    `json:"participants"`
	MaxPlayers   int    `json:"maxPlayers"`
	Version      string `json:"version"`
}

// ListParticipants serves the roster as JSON.
func ListParticipants(roster *Roster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		if err := json.NewEncoder(w).Encode(roster.List()); err != nil {
			log.Printf("[server] participants encode error: %v", err)
		}
	}
}

// Health reports the room's name and occupancy.
func Health(s *Server, maxPlayers int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		arena := ""
		if s.arena != nil {
			arena = s.arena.Name
		}
		_ = json.NewEncoder(w).Encode(statusResponse{
			Status:       "ok",
			Name:         s.name,
			Arena:        arena,
			Participants: s.ParticipantCount(),
			MaxPlayers:   maxPlayers,
			Version:      s.version,
		})
	}
}

// StatusHandler routes the status endpoints.
func StatusHandler(s *Server, maxPlayers int) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", Health(s, maxPlayers))
	mux.HandleFunc("GET /participants", ListParticipants(s.roster))
	return mux
}

// ServeStatus runs the status endpoints on addr until ctx is done.
func ServeStatus(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] status listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("status server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
