package models

import "time"

// UserAnswer is one accepted submission. QuestionID is nil for termo rounds,
// where SelectedIndex carries the word index instead of an option index.
// Two unique indexes enforce at most one accepted answer per (user, question)
// for quiz rows and per (user, word index) for termo rows; postgres treats
// NULL question ids as distinct, so the quiz index alone would not cover
// termo and the partial index closes that gap.
type UserAnswer struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	UserID        string    `gorm:"size:36;not null;uniqueIndex:idx_user_answer_unique;uniqueIndex:idx_termo_answer_unique" json:"userId"`
	SessionID     string    `gorm:"size:36;not null;uniqueIndex:idx_user_answer_unique;uniqueIndex:idx_termo_answer_unique" json:"sessionId"`
	QuestionID    *string   `gorm:"size:36;uniqueIndex:idx_user_answer_unique" json:"questionId,omitempty"`
	SelectedIndex *int      `gorm:"uniqueIndex:idx_termo_answer_unique,where:question_id IS NULL" json:"selectedIndex,omitempty"`
	IsCorrect     bool      `gorm:"not null" json:"isCorrect"`
	TimeTaken     float64   `gorm:"not null;default:0" json:"timeTaken"`
	Points        int       `gorm:"not null;default:0" json:"points"`
	AnsweredAt    time.Time `json:"answeredAt"`
}
