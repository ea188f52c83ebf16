package phase

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func questionList(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{ID: fmt.Sprintf("q%d", i)}
	}
	return qs
}

func TestOrder_ContainsEveryStageOnce(t *testing.T) {
	order := Order(4)

	require.Equal(t, WaitingForPlayers, order[0])
	require.Equal(t, Final, order[len(order)-1])
	require.Len(t, order, 2+3*4+2*TermoRounds+1)

	seen := make(map[Phase]bool)
	for _, p := range order {
		require.False(t, seen[p], "phase %s repeated", p)
		seen[p] = true
	}
	require.True(t, seen[QuizAnswering(4)])
	require.True(t, seen[TermoPreparing])
	require.True(t, seen[TermoResults(3)])
}

func TestAdvance_VisitsEveryPhaseInOrder(t *testing.T) {
	for _, n := range []int{1, 3, 8} {
		s := State{Phase: WaitingForPlayers, Questions: questionList(n)}
		expected := Order(n)

		for i := 1; i < len(expected); i++ {
			s = Advance(s)
			require.Equal(t, expected[i], s.Phase, "n=%d step %d", n, i)
		}
		require.Equal(t, Final, s.Phase)
	}
}

func TestAdvance_FinalIsIdempotent(t *testing.T) {
	s := State{Phase: Final, Questions: questionList(2), CurrentQuestionID: "q1"}
	s.Questions[1].Current = true

	out := Advance(s)

	require.Equal(t, s, out)
}

func TestAdvance_UnknownPhaseIsNoOp(t *testing.T) {
	s := State{Phase: "QUIZ_99_DANCING", Questions: questionList(2)}

	require.Equal(t, s, Advance(s))
}

func TestAdvance_LeavingWaitingMarksFirstQuestion(t *testing.T) {
	s := State{Phase: WaitingForPlayers, Questions: questionList(3)}

	out := Advance(s)

	require.Equal(t, QuizPreparing(1), out.Phase)
	require.True(t, out.Questions[0].Current)
	require.Equal(t, "q0", out.CurrentQuestionID)
	require.Equal(t, 0, CurrentIndex(out.Questions))
}

func TestAdvance_QuizResultsMovesMarker(t *testing.T) {
	// Leaving QUIZ_3_RESULTS must mark question index 3 and clear index 2.
	s := State{Phase: QuizResults(3), Questions: questionList(5), CurrentQuestionID: "q2"}
	s.Questions[2].Current = true

	out := Advance(s)

	require.Equal(t, QuizPreparing(4), out.Phase)
	require.False(t, out.Questions[2].Current)
	require.True(t, out.Questions[3].Current)
	require.Equal(t, "q3", out.CurrentQuestionID)
}

func TestAdvance_LastQuizResultsLeavesMarkerAlone(t *testing.T) {
	s := State{Phase: QuizResults(2), Questions: questionList(2), CurrentQuestionID: "q1"}
	s.Questions[1].Current = true

	out := Advance(s)

	require.Equal(t, TermoPreparing, out.Phase)
	require.True(t, out.Questions[1].Current)
	require.Equal(t, "q1", out.CurrentQuestionID)
}

func TestAdvance_IntermediateTransitionsLeaveMarkerAlone(t *testing.T) {
	for _, p := range []Phase{QuizPreparing(1), QuizAnswering(1), TermoPreparing, TermoAnswering(2)} {
		s := State{Phase: p, Questions: questionList(3), CurrentQuestionID: "q0"}
		s.Questions[0].Current = true

		out := Advance(s)

		require.NotEqual(t, p, out.Phase)
		require.True(t, out.Questions[0].Current, "phase %s moved the marker", p)
		require.Equal(t, "q0", out.CurrentQuestionID)
	}
}

func TestAdvance_DoesNotMutateInput(t *testing.T) {
	s := State{Phase: WaitingForPlayers, Questions: questionList(2)}

	_ = Advance(s)

	require.Equal(t, WaitingForPlayers, s.Phase)
	require.False(t, s.Questions[0].Current)
}

func TestStageHelpers(t *testing.T) {
	require.True(t, IsQuizResults("QUIZ_12_RESULTS"))
	require.False(t, IsQuizResults("QUIZ__RESULTS"))
	require.False(t, IsQuizResults("TERMO_1_RESULTS"))
	require.True(t, IsTermoAnswering("TERMO_3_ANSWERING"))
	require.False(t, IsTermoAnswering("TERMO_PREPARING"))
	require.True(t, IsFinal(Final))
}
