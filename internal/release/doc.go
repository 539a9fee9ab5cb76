// Package release implements the release-preparation workflow.
//
// Workflow.Prepare decides, from the current branch and the versioning
// policy, whether to advance an existing release branch in place or fork a
// new one; computes the release version and the next development version;
// persists them through the policy store; commits; and, when forking,
// merges the release branch back into the original branch.
//
// The workflow is fully synchronous and assumes exclusive access to the
// working tree for its whole duration. Failures are terminal: a one-line
// diagnostic goes to the error sink, a typed *model.PrepError is returned,
// and branches or commits already created are left in place — there is no
// rollback.
package release
