package server

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"time"

	"github.com/harborlabs/berthd/internal"
	"github.com/harborlabs/berthd/internal/build"
	"github.com/harborlabs/berthd/internal/launch"
	"github.com/harborlabs/berthd/internal/logger"
	"github.com/harborlabs/berthd/internal/manifest"
	"github.com/harborlabs/berthd/internal/paths"
	"github.com/harborlabs/berthd/internal/protocol"
)

// Handles a build command.
//
// Loads the referenced manifest and executes the bootstrap pipeline against
// the container runtime. The output directory defaults to the per-app image
// directory when the request does not name one.
func (s *Server) handleBuild(ctx context.Context, conn net.Conn, payload json.RawMessage) {
	req, err := protocol.DecodePayload[protocol.BuildRequest](payload)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	m, err := manifest.Load(req.Manifest)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	output := req.Output
	if output == "" {
		output = paths.Images(m.App)
	}

	result, err := build.Run(ctx, s.runtime, build.Options{
		Manifest: m,
		Output:   output,
	})
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	s.mu.Lock()
	s.builds++
	s.mu.Unlock()

	s.respond(conn, protocol.CmdOK, &protocol.BuildResult{Output: result.Output})
}

// Handles a launch command.
//
// Imports the built image and starts it as the application container.
func (s *Server) handleLaunch(ctx context.Context, conn net.Conn, payload json.RawMessage) {
	req, err := protocol.DecodePayload[protocol.LaunchRequest](payload)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	result, err := launch.Start(ctx, s.runtime, launch.Options{
		App:   req.App,
		Image: req.Image,
		Env:   req.Env,
		Port:  req.Port,
	})
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	s.mu.Lock()
	s.launches++
	s.mu.Unlock()

	s.respond(conn, protocol.CmdOK, &protocol.LaunchResult{ID: result.ID, Port: result.Port})
}

// Handles a halt command.
//
// Stops the named app container's task. The container metadata is kept so
// its state can still be queried afterwards.
func (s *Server) handleHalt(ctx context.Context, conn net.Conn, payload json.RawMessage) {
	req, err := protocol.DecodePayload[protocol.ContainerRequest](payload)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	if err := s.runtime.Container(req.ID).Stop(ctx); err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	s.respond(conn, protocol.CmdOK, nil)
}

// Handles an app-status command.
func (s *Server) handleAppStatus(ctx context.Context, conn net.Conn, payload json.RawMessage) {
	req, err := protocol.DecodePayload[protocol.ContainerRequest](payload)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	state, err := s.runtime.Container(req.ID).Status(ctx)
	if err != nil {
		s.respond(conn, protocol.CmdError, &protocol.ErrorResult{Message: err.Error()})
		return
	}

	s.respond(conn, protocol.CmdOK, &protocol.AppStatusResult{ID: req.ID, State: state})
}

// Handles a status command.
func (s *Server) handleStatus(conn net.Conn) {
	s.mu.Lock()
	builds := s.builds
	launches := s.launches
	s.mu.Unlock()

	uptime := time.Since(s.startedAt).Truncate(time.Second)

	s.respond(conn, protocol.CmdOK, &protocol.StatusResult{
		Running:  true,
		Version:  internal.VersionString(),
		Pid:      os.Getpid(),
		Uptime:   uptime.String(),
		Builds:   builds,
		Launches: launches,
	})
}

// Handles a shutdown command.
func (s *Server) handleShutdown(conn net.Conn) {
	s.respond(conn, protocol.CmdOK, nil)
	logger.Log.Info().Msg("shutdown requested")

	go func() {
		s.Stop()
	}()
}
