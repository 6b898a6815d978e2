package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"os/user"
	"strconv"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/harborlabs/berthd/internal/logger"
	"github.com/harborlabs/berthd/internal/paths"
	"github.com/harborlabs/berthd/internal/protocol"
	"github.com/harborlabs/berthd/internal/runtime"
	"github.com/harborlabs/berthd/internal/settings"
)

const (

	// Group name used to grant socket access. Members of this group can
	// connect to the daemon socket without owning the process.
	socketGroup = "berthd"

	// File mode applied to the Unix socket. Owner and group get read-write
	// (required for connect); others get no access.
	socketMode = 0660
)

// Holds server configuration.
type Config struct {
	SocketPath          string // Override for the Unix socket path. Empty uses the default.
	ContainerdAddress   string // Containerd socket address. Empty uses the settings default.
	ContainerdNamespace string // Containerd namespace for images and containers. Empty uses the settings default.
}

// Listens on a Unix domain socket and dispatches commands.
type Server struct {
	socketPath string           // Path to the Unix socket file.
	runtime    *runtime.Runtime // Containerd-backed container runtime.
	listener   net.Listener     // Listener for incoming connections.
	pidLock    *flock.Flock     // Advisory lock guarding the pid file.
	startedAt  time.Time        // Timestamp when the server started.
	builds     int              // Total number of build commands processed.
	launches   int              // Total number of launch commands processed.
	done       chan struct{}    // Channel to signal server shutdown.
	stopOnce   sync.Once        // Guards Stop against the shutdown command and a signal racing.
	mu         sync.Mutex       // Mutex to protect shared state.
}

// Creates a new server instance.
//
// The socket is not opened until [Start] is called.
func New(cfg Config) (*Server, error) {
	defaults := settings.Default()

	socketPath := cfg.SocketPath
	if socketPath == "" {
		socketPath = defaults.Socket
	}

	containerdAddress := cfg.ContainerdAddress
	if containerdAddress == "" {
		containerdAddress = defaults.Containerd.Address
	}

	containerdNamespace := cfg.ContainerdNamespace
	if containerdNamespace == "" {
		containerdNamespace = defaults.Containerd.Namespace
	}

	rt, err := runtime.New(containerdAddress, containerdNamespace)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServer, err)
	}

	return &Server{
		socketPath: socketPath,
		runtime:    rt,
		done:       make(chan struct{}),
	}, nil
}

// Opens the Unix socket and begins accepting connections.
//
// The pid file is locked for the lifetime of the daemon so a second
// instance fails fast instead of stealing the socket.
func (s *Server) Start() error {
	if err := s.lockPID(); err != nil {
		return err
	}

	listener, err := listen(s.socketPath)
	if err != nil {
		s.unlockPID()
		return err
	}

	s.listener = listener
	s.startedAt = time.Now()

	logger.Log.Info().Str("path", s.socketPath).Msg("server listening on socket")

	go s.accept()
	return nil
}

// Acquires the pid file lock and writes the daemon PID.
//
// The lock is advisory. Holding it for the process lifetime lets the CLI
// and a second daemon instance detect that the daemon is already running.
func (s *Server) lockPID() error {
	if err := os.MkdirAll(paths.Runtime(), paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrServer, err)
	}

	lock := flock.New(paths.PIDFile())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("%w: locking pid file: %w", ErrServer, err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrAlreadyRunning, paths.PIDFile())
	}

	s.pidLock = lock

	if err := os.WriteFile(paths.PIDFile(), []byte(strconv.Itoa(os.Getpid())), paths.DefaultFileMode); err != nil {
		logger.Log.Warn().Err(err).Msg("failed to write PID file")
	}

	return nil
}

// Releases the pid file lock and removes the file.
func (s *Server) unlockPID() {
	if s.pidLock != nil {
		s.pidLock.Unlock()
		s.pidLock = nil
	}
	os.Remove(paths.PIDFile())
}

// Creates the Unix socket listener, removes any stale socket from a
// previous run, and applies permissions.
func listen(socketPath string) (net.Listener, error) {
	os.Remove(socketPath)

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to listen on %s: %w", ErrServer, socketPath, err)
	}

	if err := setSocketPermissions(socketPath); err != nil {
		listener.Close()
		return nil, err
	}

	return listener, nil
}

// Restricts socket access to owner and group. The daemon does not run as
// root; any user in the berthd group can also connect.
func setSocketPermissions(socketPath string) error {
	if err := os.Chmod(socketPath, socketMode); err != nil {
		return fmt.Errorf("%w: failed to chmod socket %s: %w", ErrServer, socketPath, err)
	}

	if g, err := user.LookupGroup(socketGroup); err == nil {
		if gid, err := strconv.Atoi(g.Gid); err == nil {
			if err := os.Chown(socketPath, -1, gid); err != nil {
				logger.Log.Warn().Str("group", socketGroup).Err(err).Msg("failed to chgrp socket")
			}
		}
	} else {
		logger.Log.Warn().Str("group", socketGroup).Msg("socket group not found, socket accessible to owner only")
	}

	return nil
}

// Shuts down the server and cleans up resources. Safe to call more than
// once.
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		close(s.done)

		if s.listener != nil {
			s.listener.Close()
		}

		if s.runtime != nil {
			s.runtime.Close()
		}

		os.Remove(s.socketPath)
		s.unlockPID()
	})

	return nil
}

// Returns a channel that is closed when the server stops.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Accepts connections in a loop until the server shuts down.
func (s *Server) accept() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				logger.Log.Error().Err(err).Msg("accept error")
				continue
			}
		}

		go s.handle(conn)
	}
}

// Processes a single connection.
//
// Reads one newline-delimited JSON message, dispatches the command, and
// writes the response. The connection is closed after one exchange.
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	line, err := reader.ReadBytes('\n')
	if err != nil {
		logger.Log.Error().Err(err).Msg("read error")
		return
	}

	env, payload, err := protocol.Decode(line)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	logger.Log.Info().Str("command", string(env.Command)).Msg("command received")

	ctx, cancel := contextWithDisconnect(context.Background(), reader)
	defer cancel()

	s.dispatch(ctx, conn, env.Command, payload)
}

// Routes a command to the appropriate handler.
func (s *Server) dispatch(ctx context.Context, conn net.Conn, cmd protocol.Command, payload json.RawMessage) {
	switch cmd {
	case protocol.CmdBuild:
		s.handleBuild(ctx, conn, payload)
	case protocol.CmdLaunch:
		s.handleLaunch(ctx, conn, payload)
	case protocol.CmdHalt:
		s.handleHalt(ctx, conn, payload)
	case protocol.CmdAppStatus:
		s.handleAppStatus(ctx, conn, payload)
	case protocol.CmdStatus:
		s.handleStatus(conn)
	case protocol.CmdShutdown:
		s.handleShutdown(conn)
	default:
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{
			Message: fmt.Sprintf("unknown command: %s", cmd),
		})
	}
}

// Writes a JSON envelope response to the connection.
func (s *Server) respond(conn net.Conn, cmd protocol.Command, payload any) {
	data, err := protocol.Encode(cmd, payload)
	if err != nil {
		logger.Log.Error().Err(err).Msg("encode response failed")
		return
	}
	data = append(data, '\n')
	conn.Write(data)
}

// Returns a derived context that is cancelled when the remote end of the
// connection closes.
//
// Detection works by reading from r in a background goroutine. The read
// blocks until the peer closes the connection, at which point it returns an
// error and the derived context is cancelled. The caller must ensure that
// no further data is expected on r for the lifetime of the returned
// context. If data arrives unexpectedly, it will be discarded and the
// context will be cancelled prematurely. The returned [context.CancelFunc]
// must always be called to release resources, even if the connection closes
// on its own.
func contextWithDisconnect(parent context.Context, r io.Reader) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		buf := make([]byte, 1)
		r.Read(buf)
		cancel()
	}()

	return ctx, cancel
}
