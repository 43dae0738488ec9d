package git

import (
	"fmt"

	gogit "github.com/go-git/go-git/v5"
)

// Overview summarizes the state of the repository enclosing a watched
// directory. It feeds the TUI status bar and the headless summary; nothing
// in this package ever writes to the repository.
type Overview struct {
	IsRepo    bool   `json:"is_repo"`
	Branch    string `json:"branch"`
	Staged    int    `json:"staged"`
	Unstaged  int    `json:"unstaged"`
	Untracked int    `json:"untracked"`
	IsClean   bool   `json:"is_clean"`
}

// Summary renders the overview as a short status-bar fragment.
func (o Overview) Summary() string {
	if !o.IsRepo {
		return "not a repository"
	}
	branch := o.Branch
	if branch == "" {
		branch = "(no commits)"
	}
	if o.IsClean {
		return branch + " clean"
	}

	out := branch
	if o.Staged > 0 {
		out += fmt.Sprintf(" %d staged", o.Staged)
	}
	if o.Unstaged > 0 {
		out += fmt.Sprintf(" %d modified", o.Unstaged)
	}
	if o.Untracked > 0 {
		out += fmt.Sprintf(" %d untracked", o.Untracked)
	}
	return out
}

// Status inspects the repository at root. A directory that is not a
// repository yields a zero Overview with IsRepo false rather than an error;
// callers that get one just show nothing.
func Status(root string) Overview {
	repo, err := gogit.PlainOpen(root)
	if err != nil {
		return Overview{}
	}

	o := Overview{IsRepo: true}

	if head, err := repo.Head(); err == nil {
		if head.Name().IsBranch() {
			o.Branch = head.Name().Short()
		} else {
			// detached HEAD, show the short hash instead
			o.Branch = head.Hash().String()[:7]
		}
	}

	wt, err := repo.Worktree()
	if err != nil {
		o.IsClean = true
		return o
	}
	status, err := wt.Status()
	if err != nil {
		o.IsClean = true
		return o
	}

	for _, fs := range status {
		if fs.Worktree == gogit.Untracked {
			o.Untracked++
			continue
		}
		if fs.Staging != gogit.Unmodified {
			o.Staged++
		}
		if fs.Worktree != gogit.Unmodified {
			o.Unstaged++
		}
	}
	o.IsClean = status.IsClean()
	return o
}
