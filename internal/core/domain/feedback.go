package domain

import "time"

// Feedback is a citizen rating of a civic sector. Records are append-only:
// there is no update or delete operation anywhere in the system.
type Feedback struct {
	ID          string    `json:"feedback_id" bson:"_id,omitempty"`
	OwnerUID    string    `json:"uid" bson:"uid"`
	Location    string    `json:"location" bson:"location"`
	Rating      int       `json:"rating" bson:"rating"`
	Sector      string    `json:"sector" bson:"sector"`
	Description string    `json:"description" bson:"description"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
