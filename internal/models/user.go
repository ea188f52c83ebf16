package models

import "time"

// User is a participant identified by an opaque id. The name is self-asserted;
// there is no authentication. PregnancyWord is the personal word assigned for
// the reveal, unique per user within the party.
type User struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	SessionID     string    `gorm:"size:36;index" json:"sessionId,omitempty"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Points        int       `gorm:"not null;default:0" json:"points"`
	PregnancyWord string    `gorm:"size:40" json:"pregnancyWord,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
