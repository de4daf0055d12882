// Package cli implements the ocesync command line.
//
// Commands resolve their dependencies through appFactory, which reads the
// configuration file, applies flag overrides and wires the selected storage
// backends. Tests replace appFactory with in-memory wiring.
package cli
