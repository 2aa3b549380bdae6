// Package policy is the single authorization decision point. It is a pure
// function over (role, action, ownership); handlers and services never
// compare roles directly.
package policy

import "github.com/civicgrid/civic-report-api/internal/core/domain"

// Action enumerates everything a caller can ask the system to do.
type Action string

const (
	ActionCreateIssue     Action = "create_issue"
	ActionListAllIssues   Action = "list_all_issues"
	ActionListOwnIssues   Action = "list_own_issues"
	ActionSetIssueStatus  Action = "set_issue_status"
	ActionCreateFeedback  Action = "create_feedback"
	ActionListAllFeedback Action = "list_all_feedback"
	ActionListOwnFeedback Action = "list_own_feedback"
	ActionCreateAdmin     Action = "create_admin"
	ActionListAccounts    Action = "list_accounts"
	ActionRoleCounts      Action = "role_counts"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

var allowed = Decision{Allowed: true}

func denied(reason string) Decision {
	return Decision{Reason: reason}
}

// rules maps each role to the actions it may perform unconditionally or,
// where ownIf is set, only against resources it owns. Any combination not
// present here is denied, so an unknown role fails closed.
var rules = map[domain.Role]map[Action]bool{
	domain.RoleUser: {
		ActionCreateIssue:     false,
		ActionListOwnIssues:   false,
		ActionSetIssueStatus:  true, // ownership required
		ActionCreateFeedback:  false,
		ActionListOwnFeedback: false,
	},
	domain.RoleAdmin: {
		ActionListAllIssues:   false,
		ActionSetIssueStatus:  false,
		ActionListAllFeedback: false,
	},
	domain.RoleSuperadmin: {
		ActionListAllFeedback: false,
		ActionCreateAdmin:     false,
		ActionListAccounts:    false,
		ActionRoleCounts:      false,
	},
}

// Decide evaluates the policy table. resourceOwner and caller are only
// consulted for actions whose table entry requires ownership; for everything
// else they are ignored.
func Decide(role domain.Role, action Action, resourceOwner, caller string) Decision {
	actions, ok := rules[role]
	if !ok {
		return denied("unknown role")
	}
	ownershipRequired, ok := actions[action]
	if !ok {
		return denied("action not permitted for role")
	}
	if ownershipRequired && resourceOwner != caller {
		return denied("caller does not own the resource")
	}
	return allowed
}

// StatusVocabulary returns the set of status values the role may write.
// Admins drive the triage path on any issue; users drive the resolution path
// on their own issues. Every other role gets an empty vocabulary.
func StatusVocabulary(role domain.Role) domain.Vocabulary {
	switch role {
	case domain.RoleAdmin:
		return domain.TriageVocabulary
	case domain.RoleUser:
		return domain.ResolutionVocabulary
	default:
		return nil
	}
}
