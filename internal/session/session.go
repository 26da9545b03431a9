// Package session keeps the single in-progress game or quiz of each user.
package session

import (
	"time"

	"github.com/m3rciful/playbot/internal/content"
)

// Kind discriminates the session variants.
type Kind string

const (
	// KindNumberGuess is the guess-the-number game.
	KindNumberGuess Kind = "number_guess"
	// KindQuiz is a single multiple choice question.
	KindQuiz Kind = "quiz"
)

// GuessLimit is how many guesses a number game allows.
const GuessLimit = 3

// NumberGuess is the state of a guessing game.
type NumberGuess struct {
	Secret   int
	Attempts int
	Limit    int
}

// Remaining reports the guesses left.
func (g NumberGuess) Remaining() int {
	return g.Limit - g.Attempts
}

// Quiz holds the question being answered.
type Quiz struct {
	Question content.QuizQuestion
}

// Session is a user's active interaction. Only the field matching Kind is
// meaningful.
type Session struct {
	Kind      Kind
	Guess     NumberGuess
	Quiz      Quiz
	StartedAt time.Time
}

// NewNumberGuess starts a guessing game around secret.
func NewNumberGuess(secret int, now time.Time) Session {
	return Session{
		Kind:      KindNumberGuess,
		Guess:     NumberGuess{Secret: secret, Limit: GuessLimit},
		StartedAt: now,
	}
}

// NewQuiz starts a quiz on q.
func NewQuiz(q content.QuizQuestion, now time.Time) Session {
	return Session{
		Kind:      KindQuiz,
		Quiz:      Quiz{Question: q},
		StartedAt: now,
	}
}
