package toolserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"sslcoach/internal/tool"
	"sslcoach/internal/world"
)

// ToolMessage is one observer push. Type discriminates for future message
// kinds; today only world snapshots go out.
type ToolMessage struct {
	Type        string       `json:"type"`
	World       *world.World `json:"world,omitempty"`
	Annotations *tool.Data   `json:"annotations,omitempty"`
}

// Server is the tool stage: it owns the observer socket and pushes one
// snapshot per tick. Not on the critical path; a slow observer only loses
// frames.
type Server struct {
	hub      *Hub
	renderer *FieldRenderer
	http     *http.Server

	closeOnce sync.Once
}

// NewServer binds the observer endpoint on localhost. Binding failures
// are fatal at startup.
func NewServer(port int) (*Server, error) {
	hub := NewHub()
	renderer := NewFieldRenderer()

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET"},
	}))
	r.Get("/ws", hub.HandleWebSocket)
	r.Get("/debug/field.png", renderer.ServeHTTP)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("tool server: bind %s: %w", addr, err)
	}

	srv := &Server{
		hub:      hub,
		renderer: renderer,
		http:     &http.Server{Handler: r},
	}
	go hub.Run()
	go func() {
		if err := srv.http.Serve(listener); err != nil && err != http.ErrServerClosed {
			// The loop keeps running without its observer.
		}
	}()
	return srv, nil
}

// Step ships this tick's snapshot to the observers. The caller hands in a
// deep copy; nothing here may alias loop-owned state.
func (s *Server) Step(snapshot *world.World, tools *tool.Data) {
	s.renderer.Update(snapshot)
	if s.hub.ClientCount() == 0 {
		return
	}
	s.hub.Broadcast(ToolMessage{Type: "world", World: snapshot, Annotations: tools})
}

// Close stops accepting observers. Idempotent.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.http.Shutdown(ctx)
	})
}
