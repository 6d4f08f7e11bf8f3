package domain

import (
	"fmt"
	"strings"
)

// ScopeKind identifies who owns a menu.
type ScopeKind string

const (
	ScopeKindCompany  ScopeKind = "company"
	ScopeKindBranch   ScopeKind = "branch"
	ScopeKindUnscoped ScopeKind = "unscoped"
)

// Scope is either Company(id), Branch(id) or the legacy Unscoped variant.
// The zero value means "no scope" and never matches a stored menu.
type Scope struct {
	kind ScopeKind
	id   string
}

func CompanyScope(id string) Scope {
	return Scope{kind: ScopeKindCompany, id: strings.TrimSpace(id)}
}

func BranchScope(id string) Scope {
	return Scope{kind: ScopeKindBranch, id: strings.TrimSpace(id)}
}

// UnscopedScope is used only by the legacy date-range-only resolution.
func UnscopedScope() Scope {
	return Scope{kind: ScopeKindUnscoped}
}

// ScopeFor picks the branch when present and the company otherwise.
// Passing both silently drops the company.
func ScopeFor(companyID, branchID string) Scope {
	if branch := strings.TrimSpace(branchID); branch != "" {
		return BranchScope(branch)
	}
	if company := strings.TrimSpace(companyID); company != "" {
		return CompanyScope(company)
	}
	return Scope{}
}

// RestoreScope rebuilds a Scope from its persisted parts.
func RestoreScope(kind, id string) (Scope, error) {
	switch ScopeKind(kind) {
	case ScopeKindCompany:
		if strings.TrimSpace(id) == "" {
			return Scope{}, fmt.Errorf("company scope without id")
		}
		return CompanyScope(id), nil
	case ScopeKindBranch:
		if strings.TrimSpace(id) == "" {
			return Scope{}, fmt.Errorf("branch scope without id")
		}
		return BranchScope(id), nil
	case ScopeKindUnscoped:
		return UnscopedScope(), nil
	default:
		return Scope{}, fmt.Errorf("unknown scope kind: %q", kind)
	}
}

func (s Scope) Kind() ScopeKind { return s.kind }

func (s Scope) ID() string { return s.id }

func (s Scope) IsZero() bool { return s.kind == "" }

// CompanyID returns the company id when the scope is company-wide.
func (s Scope) CompanyID() string {
	if s.kind == ScopeKindCompany {
		return s.id
	}
	return ""
}

// BranchID returns the branch id when the scope is a branch.
func (s Scope) BranchID() string {
	if s.kind == ScopeKindBranch {
		return s.id
	}
	return ""
}

func (s Scope) String() string {
	switch s.kind {
	case "":
		return "none"
	case ScopeKindUnscoped:
		return string(s.kind)
	default:
		return string(s.kind) + ":" + s.id
	}
}
