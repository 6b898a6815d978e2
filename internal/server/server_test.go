package server

import (
	"bufio"
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/harborlabs/berthd/internal/protocol"
)

// Runs fn against one end of an in-memory connection and returns the
// response envelope read from the other end.
func exchange(t *testing.T, fn func(conn net.Conn)) (protocol.Envelope, []byte) {
	t.Helper()

	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	go fn(server)

	line, err := bufio.NewReader(client).ReadBytes('\n')
	if err != nil {
		t.Fatalf("reading response: %v", err)
	}

	env, payload, err := protocol.Decode(line)
	if err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return env, payload
}

func TestDispatchUnknownCommand(t *testing.T) {
	s := &Server{done: make(chan struct{})}

	env, payload := exchange(t, func(conn net.Conn) {
		s.dispatch(context.Background(), conn, protocol.Command("bogus"), nil)
	})

	if env.Command != protocol.CmdError {
		t.Fatalf("response command = %q, want %q", env.Command, protocol.CmdError)
	}

	result, err := protocol.DecodePayload[protocol.ErrorResult](payload)
	if err != nil {
		t.Fatalf("decoding error payload: %v", err)
	}
	if result.Message != `unknown command: bogus` {
		t.Fatalf("error message = %q", result.Message)
	}
}

func TestDispatchBuildBadPayload(t *testing.T) {
	s := &Server{done: make(chan struct{})}

	env, _ := exchange(t, func(conn net.Conn) {
		s.dispatch(context.Background(), conn, protocol.CmdBuild, []byte("{"))
	})

	if env.Command != protocol.CmdError {
		t.Fatalf("response command = %q, want %q", env.Command, protocol.CmdError)
	}
}

func TestHandleStatus(t *testing.T) {
	s := &Server{
		done:      make(chan struct{}),
		startedAt: time.Now().Add(-3 * time.Second),
		builds:    2,
		launches:  1,
	}

	env, payload := exchange(t, func(conn net.Conn) {
		s.handleStatus(conn)
	})

	if env.Command != protocol.CmdOK {
		t.Fatalf("response command = %q, want %q", env.Command, protocol.CmdOK)
	}

	result, err := protocol.DecodePayload[protocol.StatusResult](payload)
	if err != nil {
		t.Fatalf("decoding status payload: %v", err)
	}
	if !result.Running {
		t.Fatal("Running = false, want true")
	}
	if result.Builds != 2 || result.Launches != 1 {
		t.Fatalf("counters = %d/%d, want 2/1", result.Builds, result.Launches)
	}
	if result.Uptime == "" {
		t.Fatal("Uptime is empty")
	}
}

func TestContextWithDisconnect(t *testing.T) {
	r, w := io.Pipe()

	ctx, cancel := contextWithDisconnect(context.Background(), r)
	defer cancel()

	select {
	case <-ctx.Done():
		t.Fatal("context cancelled before disconnect")
	default:
	}

	w.Close()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled after disconnect")
	}
}
