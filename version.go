// Package nest scaffolds Rust workspaces.
package nest

// Version is the nest release, overridden at build time with
// -ldflags "-X github.com/simonhull/nest.Version=...".
var Version = "0.1.0"
