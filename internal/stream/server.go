// Package stream serves running scenes over websocket. Every connection
// gets its own scene, stepped on a ticker and sent as JSON frames.
package stream

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/mechsim/internal/config"
	"github.com/san-kum/mechsim/internal/control"
	"github.com/san-kum/mechsim/internal/scenario"
	"github.com/san-kum/mechsim/internal/screen"
)

const DefaultFrameInterval = time.Second / 60

// Message types sent to clients.
const (
	TypeHello = "hello"
	TypeFrame = "frame"
	TypeError = "error"
)

// Message is the envelope of everything the server writes.
type Message struct {
	Type     string              `json:"type"`
	Scenario string              `json:"scenario,omitempty"`
	Width    float64             `json:"width,omitempty"`
	Height   float64             `json:"height,omitempty"`
	Dt       float64             `json:"dt,omitempty"`
	Frame    *screen.Frame       `json:"frame,omitempty"`
	Arrows   []scenario.Arrow    `json:"arrows,omitempty"`
	Status   []string            `json:"status,omitempty"`
	Input    *control.InputState `json:"input,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// Command is what clients send: one key press, named as control.Keys
// names them.
type Command struct {
	Key string `json:"key"`
}

type Server struct {
	upgrader websocket.Upgrader
	base     *config.Config
	interval time.Duration
	logger   *slog.Logger
	origins  map[string]bool
}

// NewServer streams base unless a client asks for another scenario with
// ?scenario=name&preset=name.
func NewServer(base *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		base:     base,
		interval: DefaultFrameInterval,
		logger:   logger,
		origins:  make(map[string]bool),
	}
	s.upgrader.CheckOrigin = s.checkOrigin
	return s
}

// AllowOrigins lets browsers on other origins (e.g. "http://localhost:3000")
// open the websocket. Without it only same-origin pages and non-browser
// clients, which send no Origin header, are accepted.
func (s *Server) AllowOrigins(origins ...string) {
	for _, o := range origins {
		s.origins[strings.ToLower(strings.TrimSuffix(o, "/"))] = true
	}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if s.origins["*"] || s.origins[strings.ToLower(origin)] {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// SetFrameInterval changes the wall-clock time between frames. The
// simulated dt stays the scene's own.
func (s *Server) SetFrameInterval(d time.Duration) {
	if d > 0 {
		s.interval = d
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// ListenAndServe serves until ctx ends.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()
	s.logger.Info("stream listening", "addr", addr, "scenario", s.base.Scenario)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) sceneFor(r *http.Request) (*scenario.Scene, error) {
	cfg := s.base.Clone()
	q := r.URL.Query()
	if name := q.Get("scenario"); name != "" {
		if _, err := scenario.ParseKind(name); err != nil {
			return nil, err
		}
		preset := q.Get("preset")
		if preset == "" {
			preset = "default"
		}
		if cfg = config.GetPreset(name, preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset %q for scenario %s", preset, name)
		}
	}
	return scenario.New(cfg)
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	scene, err := s.sceneFor(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	writer := NewSafeWriter(conn)
	defer writer.Close()

	log := s.logger.With("remote", conn.RemoteAddr().String(), "scenario", scene.Kind().String())
	log.Info("client connected")

	space := scene.Space()
	hello := Message{Type: TypeHello, Scenario: scene.Kind().String(), Width: space.Width, Height: space.Height, Dt: scene.Dt()}
	if err := writer.WriteJSON(hello); err != nil {
		log.Warn("hello failed", "err", err)
		return
	}

	keys := make(chan string, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var cmd Command
			if err := writer.ReadJSON(&cmd); err != nil {
				return
			}
			select {
			case keys <- cmd.Key:
			default:
				log.Debug("dropping key, queue full", "key", cmd.Key)
			}
		}
	}()

	s.run(r.Context(), scene, writer, keys, done, log)
	log.Info("client disconnected", "steps", scene.World().StepCount())
}

// run owns scene: it is stepped, reset and read only here.
func (s *Server) run(ctx context.Context, scene *scenario.Scene, w *SafeWriter, keys <-chan string, done <-chan struct{}, log *slog.Logger) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var in control.InputState
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case key := <-keys:
			switch in.HandleKey(key) {
			case control.ActionQuit:
				_ = w.WriteClose(websocket.CloseNormalClosure, "quit")
				return
			case control.ActionReset:
				if err := scene.Reset(); err != nil {
					_ = w.WriteJSON(Message{Type: TypeError, Error: err.Error()})
					return
				}
			}
		case <-ticker.C:
			scene.Update(in, scene.Dt())
			f := scene.Frame()
			input := in
			msg := Message{
				Type:   TypeFrame,
				Frame:  &f,
				Arrows: scene.Arrows(f, in),
				Status: scene.Status(in),
				Input:  &input,
			}
			if err := w.WriteJSON(msg); err != nil {
				log.Debug("write failed", "err", err)
				return
			}
		}
	}
}
