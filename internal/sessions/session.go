package sessions

import (
	"time"

	"github.com/gotodo/gotodo/internal/flash"
)

// Session is the server-side state behind the session cookie. Besides the
// authenticated user it carries the pending flash messages, which survive
// exactly one redirect before being drained.
type Session struct {
	Token     string         `bson:"_id,omitempty" json:"token"`
	UserID    string         `bson:"userId,omitempty" json:"userId,omitempty"`
	Flash     flash.Messages `bson:"flash,omitempty" json:"flash,omitempty"`
	ExpiresAt time.Time      `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time      `bson:"createdAt" json:"createdAt"`
}
