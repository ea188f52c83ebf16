package services

import (
	"context"
	"errors"
	"math/rand"

	"github.com/cireneuguilhermeteixeira/gender-reveal-party-project/internal/store"
)

var ErrNoWordsAvailable = errors.New("no words available")

// termoWords is the five-letter pool the word rounds draw from.
var termoWords = []string{
	"mamae", "papai", "leite", "sonho", "festa",
	"doces", "anjos", "rosas", "azuis", "brisa",
	"amado", "vidas", "nenem", "mimos", "berco",
	"fofos",
}

// pregnancyWords is the pool of personal reveal words, one per guest.
var pregnancyWords = []string{
	"chupeta", "fralda", "mamadeira", "carrinho", "enxoval",
	"babador", "cegonha", "ultrassom", "barriga", "chocalho",
	"manta", "bercinho", "naninha", "sapatinho", "banheira",
}

// WordPick is one drawn word with its index in the pool, so clients can ask
// for the next draw excluding what they have already seen.
type WordPick struct {
	Word  string `json:"word"`
	Index int    `json:"index"`
}

// WordService hands out termo words and assigns each user a unique personal
// word, persisted on the user record so repeated requests are stable.
type WordService struct {
	store store.Store
	words []string
	intn  func(n int) int
}

func NewWordService(st store.Store) *WordService {
	return &WordService{store: st, words: termoWords, intn: rand.Intn}
}

// Pick draws a random word, never returning the excluded index. Pass a
// negative index to allow any word.
func (s *WordService) Pick(excludeIndex int) WordPick {
	i := s.intn(len(s.words))
	for len(s.words) > 1 && i == excludeIndex {
		i = s.intn(len(s.words))
	}
	return WordPick{Word: s.words[i], Index: i}
}

// AssignWord gives the user a personal word no other user has. Calling it
// again returns the word already assigned.
func (s *WordService) AssignWord(ctx context.Context, userID string) (string, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return "", userErr(err)
	}
	if user.PregnancyWord != "" {
		return user.PregnancyWord, nil
	}

	assigned, err := s.store.ListAssignedWords(ctx)
	if err != nil {
		return "", err
	}
	used := make(map[string]bool, len(assigned))
	for _, w := range assigned {
		used[w] = true
	}
	var available []string
	for _, w := range pregnancyWords {
		if !used[w] {
			available = append(available, w)
		}
	}
	if len(available) == 0 {
		return "", ErrNoWordsAvailable
	}

	word := available[s.intn(len(available))]
	user.PregnancyWord = word
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return "", err
	}
	return word, nil
}
