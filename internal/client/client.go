package client

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/harborlabs/berthd/internal/paths"
	"github.com/harborlabs/berthd/internal/protocol"
)

// Returned for failures in the client itself: dialing, framing, decoding.
var ErrClient = errors.New("client error")

// Returned when the daemon answers with an error response.
var ErrDaemon = errors.New("daemon error")

// Timeout applied to dialing the daemon socket. Requests themselves are
// not bounded here; a build can legitimately run for minutes.
const dialTimeout = 5 * time.Second

// Talks to a berthd daemon over its Unix socket.
type Client struct {
	socketPath string
}

// Creates a client for the daemon at the given socket path. An empty path
// uses the default runtime socket.
func New(socketPath string) *Client {
	if socketPath == "" {
		socketPath = paths.Socket()
	}
	return &Client{socketPath: socketPath}
}

// Requests a bootstrap build from the manifest at the given path. An empty
// output lets the daemon pick the per-app image directory.
func (c *Client) Build(manifestPath, output string) (*protocol.BuildResult, error) {
	payload, err := c.roundTrip(protocol.CmdBuild, &protocol.BuildRequest{
		Manifest: manifestPath,
		Output:   output,
	})
	if err != nil {
		return nil, err
	}
	return protocol.DecodePayload[protocol.BuildResult](payload)
}

// Starts an app container from a built image.
func (c *Client) Launch(req *protocol.LaunchRequest) (*protocol.LaunchResult, error) {
	payload, err := c.roundTrip(protocol.CmdLaunch, req)
	if err != nil {
		return nil, err
	}
	return protocol.DecodePayload[protocol.LaunchResult](payload)
}

// Stops a running app container.
func (c *Client) Halt(id string) error {
	_, err := c.roundTrip(protocol.CmdHalt, &protocol.ContainerRequest{ID: id})
	return err
}

// Queries the state of an app container.
func (c *Client) AppStatus(id string) (*protocol.AppStatusResult, error) {
	payload, err := c.roundTrip(protocol.CmdAppStatus, &protocol.ContainerRequest{ID: id})
	if err != nil {
		return nil, err
	}
	return protocol.DecodePayload[protocol.AppStatusResult](payload)
}

// Queries daemon status.
func (c *Client) Status() (*protocol.StatusResult, error) {
	payload, err := c.roundTrip(protocol.CmdStatus, nil)
	if err != nil {
		return nil, err
	}
	return protocol.DecodePayload[protocol.StatusResult](payload)
}

// Asks the daemon to shut down.
func (c *Client) Shutdown() error {
	_, err := c.roundTrip(protocol.CmdShutdown, nil)
	return err
}

// Performs one request/response exchange with the daemon.
//
// On a CmdOK response the raw payload is returned. A CmdError response is
// converted into an error wrapping [ErrDaemon].
func (c *Client) roundTrip(cmd protocol.Command, request any) ([]byte, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: dialing %s: %w", ErrClient, c.socketPath, err)
	}
	defer conn.Close()

	msg, err := protocol.Encode(cmd, request)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClient, err)
	}
	msg = append(msg, '\n')

	if _, err := conn.Write(msg); err != nil {
		return nil, fmt.Errorf("%w: sending %s: %w", ErrClient, cmd, err)
	}

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrClient, err)
	}

	env, payload, err := protocol.Decode(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClient, err)
	}

	switch env.Command {
	case protocol.CmdOK:
		return payload, nil
	case protocol.CmdError:
		result, err := protocol.DecodePayload[protocol.ErrorResult](payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrClient, err)
		}
		return nil, fmt.Errorf("%w: %s", ErrDaemon, result.Message)
	default:
		return nil, fmt.Errorf("%w: unexpected response command %q", ErrClient, env.Command)
	}
}
