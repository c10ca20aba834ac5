package todo

import "time"

// Todo is the persisted todo document. OwnerID is set once at creation from
// the authenticated session and never changed afterwards. DueDate is kept as
// the submitted text, unvalidated.
type Todo struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Details   string    `bson:"details" json:"details"`
	DueDate   string    `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	OwnerID   string    `bson:"user" json:"user"`
	CreatedAt time.Time `bson:"creationDate" json:"creationDate"`
}
