// Package gitx provides the version-control operations the release
// workflow needs.
//
// The package wraps the git CLI (via os/exec) rather than a Go git
// library: the workflow performs checkouts, commits and merges on a real
// working tree and needs full git compatibility, including merge strategy
// options and the user's layered configuration scopes.
//
// Repository is the capability interface injected into the workflow; Git
// is the CLI-backed implementation and Fake is a scripted in-memory
// implementation for tests.
package gitx
