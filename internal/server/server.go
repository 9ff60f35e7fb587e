package server

import (
	"context"
	"io/fs"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/soar/analogdpad/internal/dpad"
	"github.com/soar/analogdpad/internal/hub"
)

// Source is the controller reader as seen by the HTTP side.
type Source interface {
	hub.PlayerSwitcher
	ClassifierConfig() dpad.Config
}

type Server struct {
	hub         *hub.Hub
	broadcaster *hub.Broadcaster
	source      Source
	frontendFS  fs.FS
	addr        string
	httpServer  *http.Server
}

func New(h *hub.Hub, b *hub.Broadcaster, src Source, frontendFS fs.FS, addr string) *Server {
	return &Server{
		hub:         h,
		broadcaster: b,
		source:      src,
		frontendFS:  frontendFS,
		addr:        addr,
	}
}

// Handler builds the routes: the WebSocket feed, the classifier settings and
// the minified overlay.
func (s *Server) Handler() (http.Handler, error) {
	static, err := newAssets(s.frontendFS)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", handleWebSocket(s.hub, s.broadcaster, s.source))
	mux.HandleFunc("/api/config", handleConfig(s.source))
	mux.Handle("/", static)
	return mux, nil
}

func (s *Server) ListenAndServe() error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: handler,
	}

	log.WithField("addr", s.addr).Info("HTTP server listening")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		log.Info("Shutting down HTTP server...")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
