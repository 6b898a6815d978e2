// Package server implements the berthd daemon.
//
// The daemon listens on a Unix domain socket for JSON-encoded commands from
// the berthd CLI. Each connection carries a single request-response
// exchange: the client sends a newline-delimited JSON envelope, the server
// dispatches the command, and writes the result back before closing the
// connection.
//
// Supported commands cover the bootstrap lifecycle: building an image from
// a launch manifest, launching it as the application container, halting it,
// and querying container and daemon status. Builds are delegated to the
// build package and launches to the launch package, both of which use the
// runtime package for container operations against containerd.
//
// Example usage:
//
//	srv, err := server.New(server.Config{
//	    ContainerdAddress:   "/run/containerd/containerd.sock",
//	    ContainerdNamespace: "berthd",
//	})
//	if err != nil {
//	    return err
//	}
//
//	if err := srv.Start(); err != nil {
//	    return err
//	}
//	defer srv.Stop()
//
//	<-srv.Done()
package server
