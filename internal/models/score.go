package models

import "time"

// Score is the per-phase point total recorded at the end of each mini-game.
// The unique index keeps one row per (user, session, phase) even when
// end-game posts race; the store resolves the losing create into an update.
type Score struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_score_unique" json:"userId"`
	SessionID string    `gorm:"size:36;not null;uniqueIndex:idx_score_unique" json:"sessionId"`
	Phase     string    `gorm:"size:16;not null;uniqueIndex:idx_score_unique" json:"phase"`
	Points    int       `gorm:"not null;default:0" json:"points"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	ScorePhaseQuiz  = "QUIZ"
	ScorePhaseTermo = "TERMO"
)
