package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cireneuguilhermeteixeira/gender-reveal-party-project/internal/models"
)

// GormStore is the postgres-backed store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// translate maps gorm's error space onto the store sentinels. Duplicated-key
// detection relies on TranslateError being enabled on the connection.
func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

func (s *GormStore) CreateSession(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(session).Error
}

func (s *GormStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		Preload("Users").
		Preload("Answers").
		First(&session, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (s *GormStore) UpdateSessionState(ctx context.Context, session *models.Session) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Session{}).
			Where("id = ?", session.ID).
			Updates(map[string]interface{}{
				"phase":               session.Phase,
				"current_question_id": session.CurrentQuestionID,
			}).Error
		if err != nil {
			return err
		}
		for _, q := range session.Questions {
			if err := tx.Model(&models.Question{}).
				Where("id = ?", q.ID).
				Update("current", q.Current).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *GormStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) FindUserByName(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "name = ?", name).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) UpdateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Save(user).Error
}

func (s *GormStore) ListUsersBySession(ctx context.Context, sessionID string) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("points DESC").
		Find(&users).Error
	return users, err
}

func (s *GormStore) ListAssignedWords(ctx context.Context) ([]string, error) {
	var words []string
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("pregnancy_word <> ''").
		Pluck("pregnancy_word", &words).Error
	return words, err
}

func (s *GormStore) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	var question models.Question
	if err := s.db.WithContext(ctx).First(&question, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &question, nil
}

func (s *GormStore) HasQuizAnswer(ctx context.Context, userID, sessionID, questionID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.UserAnswer{}).
		Where("user_id = ? AND session_id = ? AND question_id = ?", userID, sessionID, questionID).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) HasTermoAnswer(ctx context.Context, userID, sessionID string, wordIndex int) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.UserAnswer{}).
		Where("user_id = ? AND session_id = ? AND question_id IS NULL AND selected_index = ?",
			userID, sessionID, wordIndex).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) AcceptAnswer(ctx context.Context, answer *models.UserAnswer, points int) (*models.User, error) {
	if answer.ID == "" {
		answer.ID = uuid.NewString()
	}
	if answer.AnsweredAt.IsZero() {
		answer.AnsweredAt = time.Now()
	}
	answer.Points = points

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(answer).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).
			Where("id = ?", answer.UserID).
			Update("points", gorm.Expr("points + ?", points)).Error; err != nil {
			return err
		}
		return tx.First(&user, "id = ?", answer.UserID).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) UpsertScore(ctx context.Context, userID, sessionID, phase string, points int) (*models.Score, error) {
	for {
		var score models.Score
		err := s.db.WithContext(ctx).
			First(&score, "user_id = ? AND session_id = ? AND phase = ?", userID, sessionID, phase).Error
		switch {
		case err == nil:
			score.Points = points
			if err := s.db.WithContext(ctx).Save(&score).Error; err != nil {
				return nil, err
			}
			return &score, nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			score = models.Score{
				ID:        uuid.NewString(),
				UserID:    userID,
				SessionID: sessionID,
				Phase:     phase,
				Points:    points,
			}
			err := s.db.WithContext(ctx).Create(&score).Error
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// lost a create race: the row exists now, take the
				// update path
				continue
			}
			if err != nil {
				return nil, err
			}
			return &score, nil
		default:
			return nil, err
		}
	}
}
