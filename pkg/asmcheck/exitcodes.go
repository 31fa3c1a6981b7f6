// Package asmcheck provides public constants for scripts and CI jobs that
// invoke the asmcheck harness.
package asmcheck

// Exit codes returned by the asmcheck CLI.
const (
	// ExitSuccess indicates every fixture passed.
	ExitSuccess = 0

	// ExitFailure indicates a fixture failed, could not be executed, or was
	// incomplete under the "fail" policy.
	ExitFailure = 1

	// ExitConfigError indicates a usage or configuration error.
	ExitConfigError = 2

	// ExitDiscoveryError indicates the test-case directory could not be read.
	ExitDiscoveryError = 3
)
