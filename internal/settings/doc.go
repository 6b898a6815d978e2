// Loads daemon settings from the user's config directory.
//
// Settings cover the containerd connection and the daemon socket path. The
// file is optional; defaults are used when it does not exist. CLI flags take
// precedence over file values.
package settings
