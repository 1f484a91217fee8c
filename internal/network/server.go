package network

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/leengari/primitive-db/internal/command"
)

// Request is one command sent by a client as a JSON object
type Request struct {
	Command string `json:"command"`
	// Confirm answers the confirmation prompt of destructive commands
	Confirm bool `json:"confirm,omitempty"`
}

// Response mirrors command.Result on the wire
type Response struct {
	Success              bool                   `json:"success"`
	Message              string                 `json:"message"`
	Data                 map[string]interface{} `json:"data,omitempty"`
	DurationMS           float64                `json:"duration_ms"`
	RequiresConfirmation bool                   `json:"requires_confirmation,omitempty"`
}

// Executor runs one line of the command language
type Executor interface {
	Execute(line string) command.Result
	SetConfirmer(c command.Confirmer)
}

// Server serves newline-delimited JSON requests over TCP. Commands from all
// connections run one at a time against the same executor.
type Server struct {
	exec Executor
	mu   sync.Mutex
	wg   sync.WaitGroup
}

func NewServer(exec Executor) *Server {
	return &Server{exec: exec}
}

// ListenAndServe binds addr and serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		slog.Error("Failed to bind address", "addr", addr, "error", err)
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled, then waits
// for open connections to finish.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	slog.Info("Listening", "addr", listener.Addr().String())

	stop := context.AfterFunc(ctx, func() { _ = listener.Close() })
	defer stop()

	var conns sync.Map
	defer func() {
		conns.Range(func(key, _ interface{}) bool {
			_ = key.(net.Conn).Close()
			return true
		})
		s.wg.Wait()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			slog.Error("Failed to accept connection", "error", err)
			continue
		}

		conns.Store(conn, struct{}{})
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer conns.Delete(conn)
			s.handleConnection(conn)
		}()
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	for {
		var req Request
		if err := decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return
			}
			slog.Warn("decode error", "remote", conn.RemoteAddr().String(), "error", err)
			_ = encoder.Encode(Response{Message: "invalid request format: " + err.Error()})
			return
		}

		res := s.execute(req)
		if err := encoder.Encode(toResponse(res)); err != nil {
			slog.Error("encode error", "error", err)
			return
		}

		if exit, _ := res.Data["exit"].(bool); exit {
			return
		}
	}
}

func (s *Server) execute(req Request) command.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	confirm := req.Confirm
	s.exec.SetConfirmer(command.ConfirmFunc(func(string) bool { return confirm }))
	return s.exec.Execute(req.Command)
}

func toResponse(res command.Result) Response {
	return Response{
		Success:              res.Success,
		Message:              res.Message,
		Data:                 res.Data,
		DurationMS:           float64(res.Duration.Microseconds()) / 1000,
		RequiresConfirmation: res.RequiresConfirmation,
	}
}
