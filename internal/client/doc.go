// Dials the berthd Unix socket and exchanges protocol messages.
//
// Each call opens a fresh connection, sends one newline-delimited JSON
// envelope, and reads the single response. Error responses from the daemon
// are surfaced as Go errors wrapping [ErrDaemon].
package client
