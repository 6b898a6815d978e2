package protocol

import (
	"encoding/json"
	"fmt"
)

// A command name carried in an envelope.
type Command string

// Commands understood by the daemon, plus the two response commands.
const (
	CmdBuild     Command = "build"      // Execute a bootstrap build from a manifest.
	CmdLaunch    Command = "launch"     // Import a built image and start the app container.
	CmdHalt      Command = "halt"       // Stop a running app container.
	CmdAppStatus Command = "app-status" // Query the state of an app container.
	CmdStatus    Command = "status"     // Query daemon status.
	CmdShutdown  Command = "shutdown"   // Request daemon shutdown.

	CmdOK    Command = "ok"    // Successful response.
	CmdError Command = "error" // Error response.
)

// Lifecycle states reported for app containers.
type ContainerState string

const (
	ContainerRunning    ContainerState = "running"
	ContainerStopped    ContainerState = "stopped"
	ContainerNotCreated ContainerState = "not-created"
)

// The wire framing for one message: a command and its payload.
//
// Messages are single-line JSON; the transport delimits them with newlines.
type Envelope struct {
	Command Command         `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Serializes a command and payload into an envelope.
func Encode(cmd Command, payload any) ([]byte, error) {
	env := Envelope{Command: cmd}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding %s payload: %w", cmd, err)
		}
		env.Payload = data
	}

	return json.Marshal(env)
}

// Parses an envelope from a single message line.
//
// The payload is returned raw; callers decode it with [DecodePayload] once
// the command is known.
func Decode(line []byte) (Envelope, json.RawMessage, error) {
	var env Envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return Envelope{}, nil, fmt.Errorf("decoding envelope: %w", err)
	}
	if env.Command == "" {
		return Envelope{}, nil, fmt.Errorf("envelope missing command")
	}
	return env, env.Payload, nil
}

// Decodes a raw payload into the request or result type for a command.
func DecodePayload[T any](payload json.RawMessage) (*T, error) {
	var v T
	if len(payload) == 0 {
		return nil, fmt.Errorf("missing payload")
	}
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}
	return &v, nil
}

// Asks the daemon to execute a bootstrap build.
type BuildRequest struct {
	Manifest string `json:"manifest"`         // Path to the launch manifest file.
	Output   string `json:"output,omitempty"` // Output directory override. Empty uses the per-app default.
}

// Reports where the built image was written.
type BuildResult struct {
	Output string `json:"output"` // Directory containing image.tar.
}

// Asks the daemon to start an app container from a built image.
type LaunchRequest struct {
	App   string            `json:"app"`            // Application name, used to derive the image tag and container ID.
	Image string            `json:"image"`          // Path to the built OCI archive.
	Env   map[string]string `json:"env,omitempty"`  // Environment overrides on top of the baked image config.
	Port  string            `json:"port,omitempty"` // Port spec the app serves on, recorded in the result.
}

// Reports the started app container.
type LaunchResult struct {
	ID   string `json:"id"`             // Container ID of the running app.
	Port string `json:"port,omitempty"` // Port spec the app serves on.
}

// Names an app container for halt and status commands.
type ContainerRequest struct {
	ID string `json:"id"`
}

// Reports the state of an app container.
type AppStatusResult struct {
	ID    string         `json:"id"`
	State ContainerState `json:"state"`
}

// Reports daemon status.
type StatusResult struct {
	Running  bool   `json:"running"`
	Version  string `json:"version"`
	Pid      int    `json:"pid"`
	Uptime   string `json:"uptime"`
	Builds   int    `json:"builds"`   // Build commands processed since start.
	Launches int    `json:"launches"` // Launch commands processed since start.
}

// Carries an error message back to the client.
type ErrorResult struct {
	Message string `json:"message"`
}
