// Package store is the persistence boundary for sessions, users, answers and
// scores. The game core only talks to the Store interface; the gorm-backed
// implementation is used in production and the in-memory one in tests.
package store

import (
	"context"
	"errors"

	"github.com/cireneuguilhermeteixeira/gender-reveal-party-project/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type Store interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	// UpdateSessionState persists the session's phase together with its
	// current-question marker; the two are never written separately.
	UpdateSessionState(ctx context.Context, session *models.Session) error

	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	FindUserByName(ctx context.Context, name string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	ListUsersBySession(ctx context.Context, sessionID string) ([]models.User, error)
	ListAssignedWords(ctx context.Context) ([]string, error)

	GetQuestion(ctx context.Context, id string) (*models.Question, error)

	HasQuizAnswer(ctx context.Context, userID, sessionID, questionID string) (bool, error)
	HasTermoAnswer(ctx context.Context, userID, sessionID string, wordIndex int) (bool, error)
	// AcceptAnswer records the submission and adds its points to the
	// user's running total in a single transaction; either both effects
	// apply or neither does. Returns the user with the updated total.
	// A submission that duplicates an accepted one (same question, or same
	// word index for word rounds) fails with ErrDuplicate and changes
	// nothing, even when two duplicates race.
	AcceptAnswer(ctx context.Context, answer *models.UserAnswer, points int) (*models.User, error)

	UpsertScore(ctx context.Context, userID, sessionID, phase string, points int) (*models.Score, error)
}
