package phase

import (
	"fmt"
	"strings"
)

// Phase is one named stage in the fixed total-order sequence of the game.
type Phase string

const (
	WaitingForPlayers Phase = "WAITING_FOR_PLAYERS"
	TermoPreparing    Phase = "TERMO_PREPARING"
	Final             Phase = "FINAL"
)

// TermoRounds is the number of word-guessing rounds every session plays.
const TermoRounds = 3

func QuizPreparing(i int) Phase { return Phase(fmt.Sprintf("QUIZ_%d_PREPARING", i)) }
func QuizAnswering(i int) Phase { return Phase(fmt.Sprintf("QUIZ_%d_ANSWERING", i)) }
func QuizResults(i int) Phase   { return Phase(fmt.Sprintf("QUIZ_%d_RESULTS", i)) }

func TermoAnswering(j int) Phase { return Phase(fmt.Sprintf("TERMO_%d_ANSWERING", j)) }
func TermoResults(j int) Phase   { return Phase(fmt.Sprintf("TERMO_%d_RESULTS", j)) }

// Order returns the fixed phase sequence for a session with n quiz questions.
// The game has no branches or skips, so a flat ordered list is the whole
// transition table: the successor of a phase is simply the next entry.
func Order(n int) []Phase {
	order := make([]Phase, 0, 2+3*n+2*TermoRounds+1)
	order = append(order, WaitingForPlayers)
	for i := 1; i <= n; i++ {
		order = append(order, QuizPreparing(i), QuizAnswering(i), QuizResults(i))
	}
	order = append(order, TermoPreparing)
	for j := 1; j <= TermoRounds; j++ {
		order = append(order, TermoAnswering(j), TermoResults(j))
	}
	return append(order, Final)
}

func isStage(p Phase, prefix, suffix string) bool {
	s := string(p)
	if !strings.HasPrefix(s, prefix) || !strings.HasSuffix(s, suffix) {
		return false
	}
	mid := strings.TrimSuffix(strings.TrimPrefix(s, prefix), suffix)
	if mid == "" {
		return false
	}
	for _, r := range mid {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func IsQuizPreparing(p Phase) bool { return isStage(p, "QUIZ_", "_PREPARING") }
func IsQuizAnswering(p Phase) bool { return isStage(p, "QUIZ_", "_ANSWERING") }
func IsQuizResults(p Phase) bool   { return isStage(p, "QUIZ_", "_RESULTS") }

func IsTermoAnswering(p Phase) bool { return isStage(p, "TERMO_", "_ANSWERING") }
func IsTermoResults(p Phase) bool   { return isStage(p, "TERMO_", "_RESULTS") }

func IsFinal(p Phase) bool { return p == Final }

// Question is the minimal view of a session question the state machine needs:
// its identity and whether it is the active one.
type Question struct {
	ID      string
	Current bool
}

// State is the {phase, questions, active question} triple owned by a session.
type State struct {
	Phase             Phase
	Questions         []Question
	CurrentQuestionID string
}

// CurrentIndex returns the index of the question marked current, or -1.
func CurrentIndex(questions []Question) int {
	for i, q := range questions {
		if q.Current {
			return i
		}
	}
	return -1
}

// Advance computes the successor state. It is pure and total: the input is
// never mutated, an unknown or terminal phase returns the input unchanged,
// and the same input always yields the same output. The current-question
// marker moves only when leaving WAITING_FOR_PLAYERS (to question 0) or when
// leaving a QUIZ_i_RESULTS phase with a next question remaining. TERMO rounds
// source their material from the word service, not from the question list.
func Advance(s State) State {
	order := Order(len(s.Questions))
	pos := -1
	for i, p := range order {
		if p == s.Phase {
			pos = i
			break
		}
	}
	if pos < 0 || pos == len(order)-1 {
		return s
	}

	out := State{
		Phase:             order[pos+1],
		Questions:         append([]Question(nil), s.Questions...),
		CurrentQuestionID: s.CurrentQuestionID,
	}

	switch {
	case s.Phase == WaitingForPlayers:
		if len(out.Questions) > 0 {
			for i := range out.Questions {
				out.Questions[i].Current = false
			}
			out.Questions[0].Current = true
			out.CurrentQuestionID = out.Questions[0].ID
		}
	case IsQuizResults(s.Phase):
		cur := CurrentIndex(s.Questions)
		if cur >= 0 && cur < len(s.Questions)-1 {
			for i := range out.Questions {
				out.Questions[i].Current = false
			}
			out.Questions[cur+1].Current = true
			out.CurrentQuestionID = out.Questions[cur+1].ID
		}
	}
	return out
}
