package client

import (
	"bufio"
	"errors"
	"net"
	"path/filepath"
	"testing"

	"github.com/harborlabs/berthd/internal/protocol"
)

// Serves a single connection on a Unix socket, verifying the received
// command and replying with the given response envelope.
func serveOnce(t *testing.T, want protocol.Command, reply protocol.Command, payload any) string {
	t.Helper()

	socketPath := filepath.Join(t.TempDir(), "berthd.sock")
	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { listener.Close() })

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		line, err := bufio.NewReader(conn).ReadBytes('\n')
		if err != nil {
			return
		}

		env, _, err := protocol.Decode(line)
		if err != nil || env.Command != want {
			data, _ := protocol.Encode(protocol.CmdError, &protocol.ErrorResult{
				Message: "unexpected command",
			})
			conn.Write(append(data, '\n'))
			return
		}

		data, _ := protocol.Encode(reply, payload)
		conn.Write(append(data, '\n'))
	}()

	return socketPath
}

func TestStatus(t *testing.T) {
	socketPath := serveOnce(t, protocol.CmdStatus, protocol.CmdOK, &protocol.StatusResult{
		Running: true,
		Version: "1.2.3",
		Pid:     42,
	})

	c := New(socketPath)
	result, err := c.Status()
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if !result.Running {
		t.Fatal("Status().Running = false, want true")
	}
	if result.Version != "1.2.3" {
		t.Fatalf("Status().Version = %q, want %q", result.Version, "1.2.3")
	}
}

func TestBuild(t *testing.T) {
	socketPath := serveOnce(t, protocol.CmdBuild, protocol.CmdOK, &protocol.BuildResult{
		Output: "/var/lib/berthd/images/dashboard",
	})

	c := New(socketPath)
	result, err := c.Build("/etc/berthd/dashboard.yaml", "")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.Output != "/var/lib/berthd/images/dashboard" {
		t.Fatalf("Build().Output = %q, want %q", result.Output, "/var/lib/berthd/images/dashboard")
	}
}

func TestHaltDaemonError(t *testing.T) {
	socketPath := serveOnce(t, protocol.CmdHalt, protocol.CmdError, &protocol.ErrorResult{
		Message: "no such container",
	})

	c := New(socketPath)
	err := c.Halt("dashboard-missing")
	if !errors.Is(err, ErrDaemon) {
		t.Fatalf("Halt() error = %v, want ErrDaemon", err)
	}
}

func TestDialFailure(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "absent.sock"))

	_, err := c.Status()
	if !errors.Is(err, ErrClient) {
		t.Fatalf("Status() error = %v, want ErrClient", err)
	}
}
