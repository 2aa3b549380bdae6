package policy

import (
	"testing"

	"github.com/civicgrid/civic-report-api/internal/core/domain"
)

func TestDecide_Matrix(t *testing.T) {
	tests := []struct {
		name    string
		role    domain.Role
		action  Action
		owner   string
		caller  string
		allowed bool
	}{
		{"user creates issue", domain.RoleUser, ActionCreateIssue, "", "", true},
		{"user lists own issues", domain.RoleUser, ActionListOwnIssues, "", "", true},
		{"user lists all issues", domain.RoleUser, ActionListAllIssues, "", "", false},
		{"user sets status on own issue", domain.RoleUser, ActionSetIssueStatus, "u1", "u1", true},
		{"user sets status on foreign issue", domain.RoleUser, ActionSetIssueStatus, "u1", "u2", false},
		{"user creates feedback", domain.RoleUser, ActionCreateFeedback, "", "", true},
		{"user lists own feedback", domain.RoleUser, ActionListOwnFeedback, "", "", true},
		{"user lists all feedback", domain.RoleUser, ActionListAllFeedback, "", "", false},
		{"user creates admin", domain.RoleUser, ActionCreateAdmin, "", "", false},

		{"admin lists all issues", domain.RoleAdmin, ActionListAllIssues, "", "", true},
		{"admin sets status on any issue", domain.RoleAdmin, ActionSetIssueStatus, "u1", "a1", true},
		{"admin lists all feedback", domain.RoleAdmin, ActionListAllFeedback, "", "", true},
		{"admin creates issue", domain.RoleAdmin, ActionCreateIssue, "", "", false},
		{"admin creates admin", domain.RoleAdmin, ActionCreateAdmin, "", "", false},
		{"admin lists accounts", domain.RoleAdmin, ActionListAccounts, "", "", false},
		{"admin reads role counts", domain.RoleAdmin, ActionRoleCounts, "", "", false},

		{"superadmin creates admin", domain.RoleSuperadmin, ActionCreateAdmin, "", "", true},
		{"superadmin lists accounts", domain.RoleSuperadmin, ActionListAccounts, "", "", true},
		{"superadmin reads role counts", domain.RoleSuperadmin, ActionRoleCounts, "", "", true},
		{"superadmin lists all feedback", domain.RoleSuperadmin, ActionListAllFeedback, "", "", true},
		{"superadmin lists all issues", domain.RoleSuperadmin, ActionListAllIssues, "", "", false},
		{"superadmin sets issue status", domain.RoleSuperadmin, ActionSetIssueStatus, "u1", "s1", false},

		{"unknown role denied", domain.RoleUnknown, ActionListOwnIssues, "", "", false},
		{"unparsed role denied", domain.Role("moderator"), ActionListAllIssues, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.role, tt.action, tt.owner, tt.caller)
			if d.Allowed != tt.allowed {
				t.Fatalf("Decide(%s, %s) = %v, want %v (reason: %q)", tt.role, tt.action, d.Allowed, tt.allowed, d.Reason)
			}
			if !d.Allowed && d.Reason == "" {
				t.Fatalf("denied decision must carry a reason")
			}
		})
	}
}

func TestStatusVocabulary(t *testing.T) {
	admin := StatusVocabulary(domain.RoleAdmin)
	for _, s := range []domain.Status{domain.StatusPending, domain.StatusOnProcess, domain.StatusSolved} {
		if !admin.Contains(s) {
			t.Fatalf("admin vocabulary missing %q", s)
		}
	}
	if admin.Contains(domain.StatusIssueResolved) {
		t.Fatalf("admin vocabulary must not contain %q", domain.StatusIssueResolved)
	}

	user := StatusVocabulary(domain.RoleUser)
	if !user.Contains(domain.StatusPending) || !user.Contains(domain.StatusIssueResolved) {
		t.Fatalf("user vocabulary incomplete")
	}
	if user.Contains(domain.StatusSolved) || user.Contains(domain.StatusOnProcess) {
		t.Fatalf("user vocabulary must not contain triage statuses")
	}

	if StatusVocabulary(domain.RoleSuperadmin).Contains(domain.StatusPending) {
		t.Fatalf("superadmin has no status vocabulary")
	}
	if StatusVocabulary(domain.RoleUnknown) != nil {
		t.Fatalf("unknown role must get an empty vocabulary")
	}
}
