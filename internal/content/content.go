// Package content holds the read-only tables the bot draws replies from.
package content

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// OptionCount is the fixed number of answers every quiz question offers.
const OptionCount = 4

// QuizQuestion is a single trivia question. Values are copied, never shared.
type QuizQuestion struct {
	Prompt      string              `yaml:"prompt"`
	Options     [OptionCount]string `yaml:"options"`
	Correct     int                 `yaml:"correct"`
	Explanation string              `yaml:"explanation"`
}

// Validate implements validation.Validatable.
func (q QuizQuestion) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Prompt, validation.Required),
		validation.Field(&q.Options, validation.Each(validation.Required)),
		validation.Field(&q.Correct, validation.Min(0), validation.Max(OptionCount-1)),
		validation.Field(&q.Explanation, validation.Required),
	)
}

// CorrectOption returns the label of the right answer.
func (q QuizQuestion) CorrectOption() string {
	return q.Options[q.Correct]
}

// Animal pairs an emoji with its name.
type Animal struct {
	Emoji string `yaml:"emoji" db:"emoji"`
	Name  string `yaml:"name" db:"name"`
}

// Validate implements validation.Validatable.
func (a Animal) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Emoji, validation.Required),
		validation.Field(&a.Name, validation.Required),
	)
}

// Quote is an attributed quotation.
type Quote struct {
	Text   string `yaml:"text" db:"body"`
	Author string `yaml:"author" db:"author"`
}

// Validate implements validation.Validatable.
func (q Quote) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Text, validation.Required),
		validation.Field(&q.Author, validation.Required),
	)
}

// Store is the full set of content tables. It is treated as immutable once
// loaded.
type Store struct {
	Jokes     []string       `yaml:"jokes"`
	Facts     []string       `yaml:"facts"`
	Animals   []Animal       `yaml:"animals"`
	Quotes    []Quote        `yaml:"quotes"`
	Questions []QuizQuestion `yaml:"questions"`
}

// Validate checks that every table is present and well formed.
func (s *Store) Validate() error {
	if s == nil {
		return fmt.Errorf("content: nil store")
	}
	return validation.ValidateStruct(s,
		validation.Field(&s.Jokes, validation.Required, validation.Each(validation.Required)),
		validation.Field(&s.Facts, validation.Required, validation.Each(validation.Required)),
		validation.Field(&s.Animals, validation.Required),
		validation.Field(&s.Quotes, validation.Required),
		validation.Field(&s.Questions, validation.Required),
	)
}

// Counts summarizes table sizes for logs.
func (s *Store) Counts() map[string]int {
	return map[string]int{
		"jokes":     len(s.Jokes),
		"facts":     len(s.Facts),
		"animals":   len(s.Animals),
		"quotes":    len(s.Quotes),
		"questions": len(s.Questions),
	}
}
