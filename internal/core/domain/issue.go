package domain

import "time"

// Status is the lifecycle state of an issue. Two distinct vocabularies write
// into this one field: the admin-driven triage path and the owner-driven
// resolution path. They are kept separate on purpose; every write goes through
// a Vocabulary check so a caller can never store a value outside its own set.
type Status string

const (
	StatusPending       Status = "pending"
	StatusOnProcess     Status = "on process"
	StatusSolved        Status = "solved"
	StatusIssueResolved Status = "issue resolved"
)

// Vocabulary is a closed set of status values a caller may write.
type Vocabulary map[Status]struct{}

// TriageVocabulary is what admins may set, on any issue.
var TriageVocabulary = Vocabulary{
	StatusPending:   {},
	StatusOnProcess: {},
	StatusSolved:    {},
}

// ResolutionVocabulary is what reporters may set, on their own issues only.
var ResolutionVocabulary = Vocabulary{
	StatusPending:       {},
	StatusIssueResolved: {},
}

// Contains reports whether s is a member of the vocabulary.
func (v Vocabulary) Contains(s Status) bool {
	_, ok := v[s]
	return ok
}

// Issue is a citizen-submitted report. All fields except Status are immutable
// after creation; issues are never deleted.
type Issue struct {
	ID          string    `json:"issue_id" bson:"_id,omitempty"`
	OwnerUID    string    `json:"uid" bson:"uid"`
	Name        string    `json:"issue_name" bson:"issue_name"`
	Location    string    `json:"location" bson:"location"`
	Description string    `json:"description" bson:"description"`
	CreatedAt   time.Time `json:"date" bson:"date"`
	Status      Status    `json:"status" bson:"status"`
	// Image holds the stored reference as written at creation time. Reads
	// rewrite it into an absolute URL without mutating the stored value.
	Image string `json:"image,omitempty" bson:"image,omitempty"`
}
