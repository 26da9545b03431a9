package content

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jmoiron/sqlx"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the content schema migrations with the directory
// prefix stripped, ready for an iofs migration source.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

type questionRow struct {
	Prompt      string `db:"prompt"`
	OptionA     string `db:"option_a"`
	OptionB     string `db:"option_b"`
	OptionC     string `db:"option_c"`
	OptionD     string `db:"option_d"`
	Correct     int    `db:"correct"`
	Explanation string `db:"explanation"`
}

func (r questionRow) question() QuizQuestion {
	return QuizQuestion{
		Prompt:      r.Prompt,
		Options:     [OptionCount]string{r.OptionA, r.OptionB, r.OptionC, r.OptionD},
		Correct:     r.Correct,
		Explanation: r.Explanation,
	}
}

// LoadDB reads every content table ordered by id.
func LoadDB(ctx context.Context, db *sqlx.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("content: nil db")
	}
	var s Store
	if err := db.SelectContext(ctx, &s.Jokes, "SELECT body FROM jokes ORDER BY id"); err != nil {
		return nil, fmt.Errorf("content: load jokes: %w", err)
	}
	if err := db.SelectContext(ctx, &s.Facts, "SELECT body FROM facts ORDER BY id"); err != nil {
		return nil, fmt.Errorf("content: load facts: %w", err)
	}
	if err := db.SelectContext(ctx, &s.Animals, "SELECT emoji, name FROM animals ORDER BY id"); err != nil {
		return nil, fmt.Errorf("content: load animals: %w", err)
	}
	if err := db.SelectContext(ctx, &s.Quotes, "SELECT body, author FROM quotes ORDER BY id"); err != nil {
		return nil, fmt.Errorf("content: load quotes: %w", err)
	}
	var rows []questionRow
	if err := db.SelectContext(ctx, &rows,
		"SELECT prompt, option_a, option_b, option_c, option_d, correct, explanation FROM quiz_questions ORDER BY id",
	); err != nil {
		return nil, fmt.Errorf("content: load quiz questions: %w", err)
	}
	s.Questions = make([]QuizQuestion, 0, len(rows))
	for _, r := range rows {
		s.Questions = append(s.Questions, r.question())
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("content: database tables: %w", err)
	}
	return &s, nil
}

// Seed fills every empty table from src inside one transaction. Tables that
// already hold rows are left untouched. It returns the number of inserted rows.
func Seed(ctx context.Context, db *sqlx.DB, src *Store) (int, error) {
	if db == nil || src == nil {
		return 0, fmt.Errorf("content: seed needs a db and a source")
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("content: begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	steps := []struct {
		table string
		query string
		rows  [][]any
	}{
		{"jokes", "INSERT INTO jokes (id, body) VALUES (?, ?)", stringRows(src.Jokes)},
		{"facts", "INSERT INTO facts (id, body) VALUES (?, ?)", stringRows(src.Facts)},
		{"animals", "INSERT INTO animals (id, emoji, name) VALUES (?, ?, ?)", animalRows(src.Animals)},
		{"quotes", "INSERT INTO quotes (id, body, author) VALUES (?, ?, ?)", quoteRows(src.Quotes)},
		{"quiz_questions",
			"INSERT INTO quiz_questions (id, prompt, option_a, option_b, option_c, option_d, correct, explanation) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			questionRows(src.Questions)},
	}
	for _, step := range steps {
		var n int
		if err := tx.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+step.table); err != nil {
			return 0, fmt.Errorf("content: count %s: %w", step.table, err)
		}
		if n > 0 {
			continue
		}
		query := tx.Rebind(step.query)
		for _, args := range step.rows {
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return 0, fmt.Errorf("content: seed %s: %w", step.table, err)
			}
			inserted++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("content: commit seed: %w", err)
	}
	return inserted, nil
}

func stringRows(values []string) [][]any {
	out := make([][]any, len(values))
	for i, v := range values {
		out[i] = []any{i + 1, v}
	}
	return out
}

func animalRows(values []Animal) [][]any {
	out := make([][]any, len(values))
	for i, a := range values {
		out[i] = []any{i + 1, a.Emoji, a.Name}
	}
	return out
}

func quoteRows(values []Quote) [][]any {
	out := make([][]any, len(values))
	for i, q := range values {
		out[i] = []any{i + 1, q.Text, q.Author}
	}
	return out
}

func questionRows(values []QuizQuestion) [][]any {
	out := make([][]any, len(values))
	for i, q := range values {
		out[i] = []any{i + 1, q.Prompt, q.Options[0], q.Options[1], q.Options[2], q.Options[3], q.Correct, q.Explanation}
	}
	return out
}
