package models

import "time"

// Session is one run of the game. Phase and the current-question marker are
// always updated together (see store.UpdateSessionState).
type Session struct {
	ID                string       `gorm:"primaryKey;size:36" json:"id"`
	Phase             string       `gorm:"size:32;not null;default:'WAITING_FOR_PLAYERS'" json:"phase"`
	CurrentQuestionID string       `gorm:"size:36" json:"currentQuestionId"`
	Questions         []Question   `gorm:"foreignKey:SessionID" json:"questions,omitempty"`
	Users             []User       `gorm:"foreignKey:SessionID" json:"users,omitempty"`
	Answers           []UserAnswer `gorm:"foreignKey:SessionID" json:"answers,omitempty"`
	CreatedAt         time.Time    `json:"createdAt"`
}
