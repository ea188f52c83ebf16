package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cireneuguilhermeteixeira/gender-reveal-party-project/internal/models"
	"github.com/cireneuguilhermeteixeira/gender-reveal-party-project/internal/phase"
	"github.com/cireneuguilhermeteixeira/gender-reveal-party-project/internal/scoring"
	"github.com/cireneuguilhermeteixeira/gender-reveal-party-project/internal/store"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrNotCurrentQuestion = errors.New("question is not the current one for this session")
	ErrAnswerConflict     = errors.New("answer already submitted")
)

// PhaseNotifier is told about committed phase transitions. It is invoked
// while the session's advance lock is still held, so notifications arrive in
// the exact order transitions were persisted.
type PhaseNotifier interface {
	NotifyPhase(sessionID, phase, byUserID string)
}

// SessionService orchestrates the game: it owns phase advancement and answer
// acceptance, delegating the transition math to the phase package, points to
// the scoring package and persistence to the store. notifier may be nil when
// nobody listens for phase changes.
type SessionService struct {
	store    store.Store
	notifier PhaseNotifier

	mu        sync.Mutex
	advancing map[string]*sync.Mutex
}

func NewSessionService(st store.Store, notifier PhaseNotifier) *SessionService {
	return &SessionService{
		store:     st,
		notifier:  notifier,
		advancing: make(map[string]*sync.Mutex),
	}
}

func (s *SessionService) advanceLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.advancing[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.advancing[sessionID] = l
	}
	return l
}

// CreateSession starts a new game in the waiting phase with a fresh copy of
// the question set.
func (s *SessionService) CreateSession(ctx context.Context) (*models.Session, error) {
	session := &models.Session{
		ID:        uuid.NewString(),
		Phase:     string(phase.WaitingForPlayers),
		CreatedAt: time.Now(),
	}
	for i, q := range defaultQuestions() {
		q.ID = uuid.NewString()
		q.SessionID = session.ID
		q.OrderNum = i + 1
		session.Questions = append(session.Questions, q)
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Login self-asserts a host identity by name, reusing the user if the name
// is already known, and opens a fresh session for it.
func (s *SessionService) Login(ctx context.Context, name string) (*models.User, *models.Session, error) {
	user, err := s.store.FindUserByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		user = &models.User{ID: uuid.NewString(), Name: name, CreatedAt: time.Now()}
		err = s.store.CreateUser(ctx, user)
	}
	if err != nil {
		return nil, nil, err
	}

	session, err := s.CreateSession(ctx)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// RegisterUser creates a player in an existing session.
func (s *SessionService) RegisterUser(ctx context.Context, name, sessionID string) (*models.User, error) {
	if _, err := s.store.GetSession(ctx, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	user := &models.User{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *SessionService) GetSession(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.store.GetSession(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	return session, err
}

// AdvancePhase computes the session's next phase server-side from its stored
// state and persists phase and question marker atomically. The phase value a
// client sent along is only checked against the computed one; transition
// authority stays with the server, so two host tabs advancing at once cannot
// skip a stage. The whole compute-persist-notify sequence runs under a
// per-session lock, so concurrent advances commit and announce one at a time
// and listeners see phases in the order they actually happened.
func (s *SessionService) AdvancePhase(ctx context.Context, sessionID, requestedPhase, byUserID string) (*models.Session, error) {
	lock := s.advanceLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	state := phase.State{
		Phase:             phase.Phase(session.Phase),
		Questions:         toPhaseQuestions(session.Questions),
		CurrentQuestionID: session.CurrentQuestionID,
	}
	next := phase.Advance(state)

	if requestedPhase != "" && requestedPhase != string(next.Phase) {
		log.Printf("session: %s requested phase %s for session %s, server computed %s",
			byUserID, requestedPhase, sessionID, next.Phase)
	}

	if next.Phase == state.Phase {
		// terminal or unknown phase: nothing to persist
		return session, nil
	}

	session.Phase = string(next.Phase)
	session.CurrentQuestionID = next.CurrentQuestionID
	for i := range session.Questions {
		session.Questions[i].Current = next.Questions[i].Current
	}
	if err := s.store.UpdateSessionState(ctx, session); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.NotifyPhase(sessionID, session.Phase, byUserID)
	}
	return session, nil
}

// QuizAnswer is a player's submission for the active quiz question.
type QuizAnswer struct {
	UserID        string  `json:"userId" binding:"required"`
	SessionID     string  `json:"sessionId" binding:"required"`
	QuestionID    string  `json:"questionId" binding:"required"`
	SelectedIndex *int    `json:"selectedIndex" binding:"required"`
	TimeTaken     float64 `json:"timeTaken"`
}

// TermoAnswer is a player's result for one word round.
type TermoAnswer struct {
	UserID         string  `json:"userId" binding:"required"`
	SessionID      string  `json:"sessionId" binding:"required"`
	WordIndex      *int    `json:"termoWordIndex" binding:"required"`
	Solved         bool    `json:"justWon"`
	FailedAttempts int     `json:"failedAttempts"`
	TimeTaken      float64 `json:"timeTaken"`
}

// AnswerResult reports one accepted submission back to its submitter.
type AnswerResult struct {
	Answer          models.UserAnswer `json:"answer"`
	IsCorrect       bool              `json:"isCorrect"`
	PointsEarned    int               `json:"pointsEarned"`
	UserTotalPoints int               `json:"userTotalPoints"`
}

// SubmitQuizAnswer validates and scores a quiz submission. Stale submissions
// (question no longer current) and duplicates are rejected as conflicts and
// leave all state untouched.
func (s *SessionService) SubmitQuizAnswer(ctx context.Context, req QuizAnswer) (*AnswerResult, error) {
	if _, err := s.store.GetUser(ctx, req.UserID); err != nil {
		return nil, userErr(err)
	}
	session, err := s.store.GetSession(ctx, req.SessionID)
	if err != nil {
		return nil, sessionErr(err)
	}
	question, err := s.store.GetQuestion(ctx, req.QuestionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	if session.CurrentQuestionID != question.ID {
		return nil, ErrNotCurrentQuestion
	}
	exists, err := s.store.HasQuizAnswer(ctx, req.UserID, req.SessionID, req.QuestionID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAnswerConflict
	}

	selected := *req.SelectedIndex
	correct := selected == question.CorrectIndex
	limit := question.TimeLimit
	if limit <= 0 {
		limit = 15
	}
	points := scoring.Quiz(correct, req.TimeTaken, float64(limit))
	if question.Multiplier > 1 {
		points *= question.Multiplier
	}

	questionID := question.ID
	answer := &models.UserAnswer{
		UserID:        req.UserID,
		SessionID:     req.SessionID,
		QuestionID:    &questionID,
		SelectedIndex: &selected,
		IsCorrect:     correct,
		TimeTaken:     clampTime(req.TimeTaken, float64(limit)),
	}
	user, err := s.store.AcceptAnswer(ctx, answer, points)
	if errors.Is(err, store.ErrDuplicate) {
		// lost a race with a concurrent duplicate that slipped past the
		// pre-check; the store's uniqueness guarantee is authoritative
		return nil, ErrAnswerConflict
	}
	if err != nil {
		return nil, err
	}
	return &AnswerResult{
		Answer:          *answer,
		IsCorrect:       correct,
		PointsEarned:    points,
		UserTotalPoints: user.Points,
	}, nil
}

// SubmitTermoAnswer validates and scores a word-round submission. The word
// index plays the role of the question reference for deduplication.
func (s *SessionService) SubmitTermoAnswer(ctx context.Context, req TermoAnswer) (*AnswerResult, error) {
	if _, err := s.store.GetUser(ctx, req.UserID); err != nil {
		return nil, userErr(err)
	}
	if _, err := s.store.GetSession(ctx, req.SessionID); err != nil {
		return nil, sessionErr(err)
	}

	wordIndex := *req.WordIndex
	exists, err := s.store.HasTermoAnswer(ctx, req.UserID, req.SessionID, wordIndex)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAnswerConflict
	}

	points := scoring.Termo(req.Solved, req.TimeTaken, req.FailedAttempts)
	answer := &models.UserAnswer{
		UserID:        req.UserID,
		SessionID:     req.SessionID,
		SelectedIndex: &wordIndex,
		IsCorrect:     req.Solved,
		TimeTaken:     scoring.TermoEffectiveTime(req.TimeTaken, req.FailedAttempts),
	}
	user, err := s.store.AcceptAnswer(ctx, answer, points)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, ErrAnswerConflict
	}
	if err != nil {
		return nil, err
	}
	return &AnswerResult{
		Answer:          *answer,
		IsCorrect:       req.Solved,
		PointsEarned:    points,
		UserTotalPoints: user.Points,
	}, nil
}

// LeaderboardEntry is one scoreboard row, best first.
type LeaderboardEntry struct {
	Position int    `json:"position"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Points   int    `json:"points"`
}

func (s *SessionService) GetLeaderboard(ctx context.Context, sessionID string) ([]LeaderboardEntry, error) {
	if _, err := s.store.GetSession(ctx, sessionID); err != nil {
		return nil, sessionErr(err)
	}
	users, err := s.store.ListUsersBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = LeaderboardEntry{
			Position: i + 1,
			UserID:   u.ID,
			Name:     u.Name,
			Points:   u.Points,
		}
	}
	return entries, nil
}

// RecordFinalScore upserts a user's per-phase total at the end of a
// mini-game.
func (s *SessionService) RecordFinalScore(ctx context.Context, userID, sessionID, scorePhase string, points int) (*models.Score, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, userErr(err)
	}
	if _, err := s.store.GetSession(ctx, sessionID); err != nil {
		return nil, sessionErr(err)
	}
	return s.store.UpsertScore(ctx, userID, sessionID, scorePhase, points)
}

func toPhaseQuestions(questions []models.Question) []phase.Question {
	out := make([]phase.Question, len(questions))
	for i, q := range questions {
		out[i] = phase.Question{ID: q.ID, Current: q.Current}
	}
	return out
}

func clampTime(v, limit float64) float64 {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}

func userErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func sessionErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrSessionNotFound
	}
	return err
}
