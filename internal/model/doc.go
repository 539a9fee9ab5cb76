// Package model defines the domain types and value objects for the
// relprep CLI.
//
// This package contains pure data structures with no external dependencies:
// the closed release-preparation error taxonomy (ErrorKind, PrepError), the
// process exit codes each kind maps to, the version segment enumeration
// (Segment) used for both increment policy and version-height position, and
// the report types (BranchInfo, ReleaseInfo) produced by a successful
// preparation run.
//
// All values here are transient — constructed per invocation, never cached
// or shared between runs.
package model
