package gitx

import "fmt"

// Fake implements Repository with predetermined values for testing. Mutating
// operations are recorded in Calls so tests can assert that a failing
// workflow never touched a branch.
type Fake struct {
	// RootDir is returned by Root.
	RootDir string

	// Dirty, Detached and Signature script the corresponding checks.
	Dirty     bool
	Detached  bool
	Signature bool

	// Branch is the current branch name; Head is the current tip id.
	Branch string
	Head   string

	// Branches is the set of existing local branch names.
	Branches map[string]bool

	// Err, when set, is returned by every fallible operation.
	Err error

	// Calls records mutating operations in order, e.g. "create v1.2",
	// "checkout main", "commit Set version to '1.2'".
	Calls []string
}

// NewFake creates a Fake positioned on the given branch.
func NewFake(branch string) *Fake {
	return &Fake{
		RootDir:   "/fake/repo",
		Signature: true,
		Branch:    branch,
		Head:      "0000000000000000000000000000000000000000",
		Branches:  map[string]bool{branch: true},
	}
}

// Root returns the predetermined root directory.
func (f *Fake) Root() string { return f.RootDir }

// IsDirty returns the scripted dirty state.
func (f *Fake) IsDirty() (bool, error) { return f.Dirty, f.Err }

// CurrentBranch returns the scripted branch name, or "HEAD" when detached.
func (f *Fake) CurrentBranch() (string, error) {
	if f.Detached {
		return "HEAD", f.Err
	}
	return f.Branch, f.Err
}

// IsDetached returns the scripted detached state.
func (f *Fake) IsDetached() (bool, error) { return f.Detached, f.Err }

// HeadCommit returns the scripted tip id.
func (f *Fake) HeadCommit() (string, error) { return f.Head, f.Err }

// BranchExists consults the scripted branch set.
func (f *Fake) BranchExists(name string) bool { return f.Branches[name] }

// CreateBranch records the call and adds the branch to the set.
func (f *Fake) CreateBranch(name string) error {
	f.Calls = append(f.Calls, "create "+name)
	if f.Err != nil {
		return f.Err
	}
	if f.Branches == nil {
		f.Branches = map[string]bool{}
	}
	f.Branches[name] = true
	return nil
}

// Checkout records the call and moves the current branch.
func (f *Fake) Checkout(name string) error {
	f.Calls = append(f.Calls, "checkout "+name)
	if f.Err != nil {
		return f.Err
	}
	f.Branch = name
	return nil
}

// Stage records the call.
func (f *Fake) Stage(path string) error {
	f.Calls = append(f.Calls, "stage "+path)
	return f.Err
}

// Commit records the call and pretends a commit was created.
func (f *Fake) Commit(message string) (bool, error) {
	f.Calls = append(f.Calls, "commit "+message)
	if f.Err != nil {
		return false, f.Err
	}
	return true, nil
}

// MergeFavorOurs records the call.
func (f *Fake) MergeFavorOurs(branch string) error {
	f.Calls = append(f.Calls, fmt.Sprintf("merge %s", branch))
	return f.Err
}

// HasSignature returns the scripted signature availability.
func (f *Fake) HasSignature() (bool, error) { return f.Signature, f.Err }
