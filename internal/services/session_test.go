package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cireneuguilhermeteixeira/gender-reveal-party-project/internal/models"
	"github.com/cireneuguilhermeteixeira/gender-reveal-party-project/internal/phase"
	"github.com/cireneuguilhermeteixeira/gender-reveal-party-project/internal/store"
)

func newFixture(t *testing.T) (*SessionService, *models.Session, *models.User) {
	t.Helper()
	svc := NewSessionService(store.NewMemoryStore(), nil)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	require.Equal(t, "WAITING_FOR_PLAYERS", session.Phase)
	require.NotEmpty(t, session.Questions)

	user, err := svc.RegisterUser(ctx, "Maria", session.ID)
	require.NoError(t, err)
	return svc, session, user
}

// advanceTo drives the session until the first question is answering.
func advanceToFirstAnswering(t *testing.T, svc *SessionService, sessionID string) *models.Session {
	t.Helper()
	ctx := context.Background()
	var session *models.Session
	var err error
	for i := 0; i < 2; i++ { // waiting -> preparing -> answering
		session, err = svc.AdvancePhase(ctx, sessionID, "", "host")
		require.NoError(t, err)
	}
	require.Equal(t, string(phase.QuizAnswering(1)), session.Phase)
	return session
}

func TestAdvancePhase_PersistsPhaseAndMarkerTogether(t *testing.T) {
	svc, session, _ := newFixture(t)
	ctx := context.Background()

	advanced, err := svc.AdvancePhase(ctx, session.ID, "", "host")
	require.NoError(t, err)
	require.Equal(t, string(phase.QuizPreparing(1)), advanced.Phase)
	require.True(t, advanced.Questions[0].Current)
	require.Equal(t, advanced.Questions[0].ID, advanced.CurrentQuestionID)

	// reload and check it was persisted atomically
	stored, err := svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, advanced.Phase, stored.Phase)
	require.Equal(t, advanced.CurrentQuestionID, stored.CurrentQuestionID)
	require.True(t, stored.Questions[0].Current)
}

func TestAdvancePhase_ServerIgnoresClientPhase(t *testing.T) {
	svc, session, _ := newFixture(t)

	// The client claims the game is over; the server still computes the
	// real successor from its own stored state.
	advanced, err := svc.AdvancePhase(context.Background(), session.ID, "FINAL", "host")
	require.NoError(t, err)
	require.Equal(t, string(phase.QuizPreparing(1)), advanced.Phase)
}

func TestAdvancePhase_TerminalIsNoOp(t *testing.T) {
	svc, session, _ := newFixture(t)
	ctx := context.Background()

	steps := len(phase.Order(len(session.Questions))) - 1
	var last *models.Session
	var err error
	for i := 0; i < steps; i++ {
		last, err = svc.AdvancePhase(ctx, session.ID, "", "host")
		require.NoError(t, err)
	}
	require.Equal(t, string(phase.Final), last.Phase)

	again, err := svc.AdvancePhase(ctx, session.ID, "", "host")
	require.NoError(t, err)
	require.Equal(t, string(phase.Final), again.Phase)
	require.Equal(t, last.CurrentQuestionID, again.CurrentQuestionID)
}

func TestAdvancePhase_UnknownSession(t *testing.T) {
	svc, _, _ := newFixture(t)

	_, err := svc.AdvancePhase(context.Background(), "nope", "", "host")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSubmitQuizAnswer_ScoresAndAccumulates(t *testing.T) {
	svc, session, user := newFixture(t)
	ctx := context.Background()
	session = advanceToFirstAnswering(t, svc, session.ID)

	q := session.Questions[0]
	selected := q.CorrectIndex
	res, err := svc.SubmitQuizAnswer(ctx, QuizAnswer{
		UserID:        user.ID,
		SessionID:     session.ID,
		QuestionID:    q.ID,
		SelectedIndex: &selected,
		TimeTaken:     5,
	})
	require.NoError(t, err)
	require.True(t, res.IsCorrect)
	require.Equal(t, 667, res.PointsEarned)
	require.Equal(t, 667, res.UserTotalPoints)
}

func TestSubmitQuizAnswer_DuplicateIsRejected(t *testing.T) {
	svc, session, user := newFixture(t)
	ctx := context.Background()
	session = advanceToFirstAnswering(t, svc, session.ID)

	q := session.Questions[0]
	selected := q.CorrectIndex
	first, err := svc.SubmitQuizAnswer(ctx, QuizAnswer{
		UserID: user.ID, SessionID: session.ID, QuestionID: q.ID,
		SelectedIndex: &selected, TimeTaken: 0,
	})
	require.NoError(t, err)
	require.Equal(t, 1000, first.PointsEarned)

	// Retry with a different payload: rejected, total unchanged.
	other := (q.CorrectIndex + 1) % len(q.Options)
	_, err = svc.SubmitQuizAnswer(ctx, QuizAnswer{
		UserID: user.ID, SessionID: session.ID, QuestionID: q.ID,
		SelectedIndex: &other, TimeTaken: 10,
	})
	require.ErrorIs(t, err, ErrAnswerConflict)

	board, err := svc.GetLeaderboard(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, 1000, board[0].Points)
}

func TestSubmitQuizAnswer_StaleQuestionIsRejected(t *testing.T) {
	svc, session, user := newFixture(t)
	ctx := context.Background()
	session = advanceToFirstAnswering(t, svc, session.ID)

	stale := session.Questions[1] // not the current question
	selected := 0
	_, err := svc.SubmitQuizAnswer(ctx, QuizAnswer{
		UserID: user.ID, SessionID: session.ID, QuestionID: stale.ID,
		SelectedIndex: &selected, TimeTaken: 1,
	})
	require.ErrorIs(t, err, ErrNotCurrentQuestion)
}

func TestSubmitQuizAnswer_NotFound(t *testing.T) {
	svc, session, user := newFixture(t)
	ctx := context.Background()
	session = advanceToFirstAnswering(t, svc, session.ID)
	selected := 0

	_, err := svc.SubmitQuizAnswer(ctx, QuizAnswer{
		UserID: "ghost", SessionID: session.ID,
		QuestionID: session.Questions[0].ID, SelectedIndex: &selected,
	})
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.SubmitQuizAnswer(ctx, QuizAnswer{
		UserID: user.ID, SessionID: session.ID,
		QuestionID: "ghost", SelectedIndex: &selected,
	})
	require.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestSubmitTermoAnswer(t *testing.T) {
	svc, session, user := newFixture(t)
	ctx := context.Background()

	idx := 4
	res, err := svc.SubmitTermoAnswer(ctx, TermoAnswer{
		UserID: user.ID, SessionID: session.ID,
		WordIndex: &idx, Solved: true, FailedAttempts: 2, TimeTaken: 20,
	})
	require.NoError(t, err)
	require.Equal(t, 833, res.PointsEarned)
	require.Equal(t, 833, res.UserTotalPoints)
	require.Nil(t, res.Answer.QuestionID)

	// Same word round again: conflict.
	_, err = svc.SubmitTermoAnswer(ctx, TermoAnswer{
		UserID: user.ID, SessionID: session.ID,
		WordIndex: &idx, Solved: true, TimeTaken: 5,
	})
	require.ErrorIs(t, err, ErrAnswerConflict)

	// A different round is accepted; an unsolved round scores zero.
	next := 5
	res, err = svc.SubmitTermoAnswer(ctx, TermoAnswer{
		UserID: user.ID, SessionID: session.ID,
		WordIndex: &next, Solved: false, FailedAttempts: 6, TimeTaken: 60,
	})
	require.NoError(t, err)
	require.Equal(t, 0, res.PointsEarned)
	require.Equal(t, 833, res.UserTotalPoints)
}

func TestSubmitTermoAnswer_ConcurrentDuplicateScoredOnce(t *testing.T) {
	svc, session, user := newFixture(t)
	ctx := context.Background()

	// Two retries of the same word round racing each other: exactly one may
	// be accepted, and the points are credited exactly once.
	idx := 4
	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SubmitTermoAnswer(ctx, TermoAnswer{
				UserID: user.ID, SessionID: session.ID,
				WordIndex: &idx, Solved: true, FailedAttempts: 2, TimeTaken: 20,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var accepted, conflicts int
	for err := range results {
		switch {
		case err == nil:
			accepted++
		default:
			require.ErrorIs(t, err, ErrAnswerConflict)
			conflicts++
		}
	}
	require.Equal(t, 1, accepted)
	require.Equal(t, 1, conflicts)

	board, err := svc.GetLeaderboard(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, 833, board[0].Points)
}

type phaseRecorder struct {
	mu     sync.Mutex
	phases []string
}

func (r *phaseRecorder) NotifyPhase(sessionID, phase, byUserID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phases = append(r.phases, phase)
}

func TestAdvancePhase_NotifiesInCommitOrder(t *testing.T) {
	rec := &phaseRecorder{}
	svc := NewSessionService(store.NewMemoryStore(), rec)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	// Several host tabs racing to advance: each transition is committed and
	// announced under the session's advance lock, so listeners see exactly
	// the phase sequence the store went through, never reordered.
	const steps = 5
	errs := make(chan error, steps)
	var wg sync.WaitGroup
	for i := 0; i < steps; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AdvancePhase(ctx, session.ID, "", "host")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	order := phase.Order(len(session.Questions))
	want := make([]string, steps)
	for i := 0; i < steps; i++ {
		want[i] = string(order[i+1])
	}
	require.Equal(t, want, rec.phases)

	stored, err := svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, want[steps-1], stored.Phase)
}

func TestGetLeaderboard_OrdersByPoints(t *testing.T) {
	svc, session, alice := newFixture(t)
	ctx := context.Background()
	bob, err := svc.RegisterUser(ctx, "Bob", session.ID)
	require.NoError(t, err)
	session = advanceToFirstAnswering(t, svc, session.ID)

	q := session.Questions[0]
	right := q.CorrectIndex
	wrong := (q.CorrectIndex + 1) % len(q.Options)

	_, err = svc.SubmitQuizAnswer(ctx, QuizAnswer{
		UserID: alice.ID, SessionID: session.ID, QuestionID: q.ID,
		SelectedIndex: &wrong, TimeTaken: 2,
	})
	require.NoError(t, err)
	_, err = svc.SubmitQuizAnswer(ctx, QuizAnswer{
		UserID: bob.ID, SessionID: session.ID, QuestionID: q.ID,
		SelectedIndex: &right, TimeTaken: 2,
	})
	require.NoError(t, err)

	board, err := svc.GetLeaderboard(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, board, 2)
	require.Equal(t, "Bob", board[0].Name)
	require.Equal(t, 1, board[0].Position)
	require.Equal(t, "Maria", board[1].Name)
}

func TestRecordFinalScore_Upserts(t *testing.T) {
	svc, session, user := newFixture(t)
	ctx := context.Background()

	score, err := svc.RecordFinalScore(ctx, user.ID, session.ID, models.ScorePhaseQuiz, 1200)
	require.NoError(t, err)
	require.Equal(t, 1200, score.Points)

	score, err = svc.RecordFinalScore(ctx, user.ID, session.ID, models.ScorePhaseQuiz, 1500)
	require.NoError(t, err)
	require.Equal(t, 1500, score.Points)

	_, err = svc.RecordFinalScore(ctx, "ghost", session.ID, models.ScorePhaseQuiz, 10)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestLogin_ReusesUserByName(t *testing.T) {
	svc := NewSessionService(store.NewMemoryStore(), nil)
	ctx := context.Background()

	user1, session1, err := svc.Login(ctx, "Ana")
	require.NoError(t, err)
	user2, session2, err := svc.Login(ctx, "Ana")
	require.NoError(t, err)

	require.Equal(t, user1.ID, user2.ID)
	require.NotEqual(t, session1.ID, session2.ID)
}
