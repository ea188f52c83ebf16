package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cireneuguilhermeteixeira/gender-reveal-party-project/internal/models"
)

// MemoryStore keeps everything in process memory. It backs the service tests
// and honours the same contracts as the gorm store, including the atomicity
// of AcceptAnswer.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
	users    map[string]*models.User
	answers  []models.UserAnswer
	scores   []models.Score
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.Session),
		users:    make(map[string]*models.User),
	}
}

func cloneSession(s *models.Session) *models.Session {
	out := *s
	out.Questions = append([]models.Question(nil), s.Questions...)
	out.Users = append([]models.User(nil), s.Users...)
	out.Answers = append([]models.UserAnswer(nil), s.Answers...)
	return &out
}

func (s *MemoryStore) CreateSession(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	s.sessions[session.ID] = cloneSession(session)
	return nil
}

func (s *MemoryStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneSession(session)
	out.Users = nil
	out.Answers = nil
	for _, u := range s.users {
		if u.SessionID == id {
			out.Users = append(out.Users, *u)
		}
	}
	for _, a := range s.answers {
		if a.SessionID == id {
			out.Answers = append(out.Answers, a)
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateSessionState(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.sessions[session.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Phase = session.Phase
	stored.CurrentQuestionID = session.CurrentQuestionID
	stored.Questions = append([]models.Question(nil), session.Questions...)
	return nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *MemoryStore) FindUserByName(ctx context.Context, name string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Name == name {
			clone := *user
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return ErrNotFound
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *MemoryStore) ListUsersBySession(ctx context.Context, sessionID string) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var users []models.User
	for _, user := range s.users {
		if user.SessionID == sessionID {
			users = append(users, *user)
		}
	}
	for i := 1; i < len(users); i++ {
		for j := i; j > 0 && users[j].Points > users[j-1].Points; j-- {
			users[j], users[j-1] = users[j-1], users[j]
		}
	}
	return users, nil
}

func (s *MemoryStore) ListAssignedWords(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var words []string
	for _, user := range s.users {
		if user.PregnancyWord != "" {
			words = append(words, user.PregnancyWord)
		}
	}
	return words, nil
}

func (s *MemoryStore) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, session := range s.sessions {
		for _, q := range session.Questions {
			if q.ID == id {
				clone := q
				return &clone, nil
			}
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) HasQuizAnswer(ctx context.Context, userID, sessionID, questionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.answers {
		if a.UserID == userID && a.SessionID == sessionID &&
			a.QuestionID != nil && *a.QuestionID == questionID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) HasTermoAnswer(ctx context.Context, userID, sessionID string, wordIndex int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.answers {
		if a.UserID == userID && a.SessionID == sessionID &&
			a.QuestionID == nil && a.SelectedIndex != nil && *a.SelectedIndex == wordIndex {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) AcceptAnswer(ctx context.Context, answer *models.UserAnswer, points int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[answer.UserID]
	if !ok {
		return nil, ErrNotFound
	}
	for _, a := range s.answers {
		if a.UserID != answer.UserID || a.SessionID != answer.SessionID {
			continue
		}
		if a.QuestionID != nil && answer.QuestionID != nil && *a.QuestionID == *answer.QuestionID {
			return nil, ErrDuplicate
		}
		if a.QuestionID == nil && answer.QuestionID == nil &&
			a.SelectedIndex != nil && answer.SelectedIndex != nil &&
			*a.SelectedIndex == *answer.SelectedIndex {
			return nil, ErrDuplicate
		}
	}
	if answer.ID == "" {
		answer.ID = uuid.NewString()
	}
	if answer.AnsweredAt.IsZero() {
		answer.AnsweredAt = time.Now()
	}
	answer.Points = points
	s.answers = append(s.answers, *answer)
	user.Points += points
	clone := *user
	return &clone, nil
}

func (s *MemoryStore) UpsertScore(ctx context.Context, userID, sessionID, phase string, points int) (*models.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.scores {
		sc := &s.scores[i]
		if sc.UserID == userID && sc.SessionID == sessionID && sc.Phase == phase {
			sc.Points = points
			clone := *sc
			return &clone, nil
		}
	}
	score := models.Score{
		ID:        uuid.NewString(),
		UserID:    userID,
		SessionID: sessionID,
		Phase:     phase,
		Points:    points,
	}
	s.scores = append(s.scores, score)
	clone := score
	return &clone, nil
}
