package workspace

import (
	"sort"

	"github.com/firefly-engineering/agentspaces/internal/errors"
)

// Sort keys accepted by Sort.
const (
	SortByName    = "name"
	SortByCreated = "created"
	SortByBranch  = "branch"
)

// SortKeys lists the accepted sort keys.
var SortKeys = []string{SortByName, SortByCreated, SortByBranch}

// Sort orders list in place. Workspaces without a creation time sort
// last when ordering by creation; ties fall back to the name.
func Sort(list []Workspace, by string) error {
	var less func(a, b Workspace) bool
	switch by {
	case "", SortByName:
		less = func(a, b Workspace) bool { return a.Name < b.Name }
	case SortByBranch:
		less = func(a, b Workspace) bool {
			if a.Branch != b.Branch {
				return a.Branch < b.Branch
			}
			return a.Name < b.Name
		}
	case SortByCreated:
		less = func(a, b Workspace) bool {
			switch {
			case a.CreatedAt == nil && b.CreatedAt == nil:
				return a.Name < b.Name
			case a.CreatedAt == nil:
				return false
			case b.CreatedAt == nil:
				return true
			case !a.CreatedAt.Equal(*b.CreatedAt):
				return a.CreatedAt.Before(*b.CreatedAt)
			}
			return a.Name < b.Name
		}
	default:
		return errors.ValidationErrorf("invalid sort key %q (valid: name, created, branch)", by)
	}
	sort.SliceStable(list, func(i, j int) bool { return less(list[i], list[j]) })
	return nil
}
