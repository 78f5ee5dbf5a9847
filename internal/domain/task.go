package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxTitleLength = 255

	SeedTitle       = "Tarea de ejemplo"
	SeedDescription = "Esta es una tarea de ejemplo para mostrar que la base de datos funciona correctamente"
)

var (
	ErrTitleRequired = errors.New("title is required")
	ErrTitleTooLong  = errors.New("title must be at most 255 characters")
)

type Task struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// NewTask trims its input and validates the title. An empty description is
// stored as NULL.
func NewTask(title, description string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return nil, ErrTitleTooLong
	}
	t := &Task{Title: title}
	if d := strings.TrimSpace(description); d != "" {
		t.Description = &d
	}
	return t, nil
}

// SeedTask is inserted when the tasks table is empty at bootstrap.
func SeedTask() *Task {
	d := SeedDescription
	return &Task{Title: SeedTitle, Description: &d}
}

// Details returns the description or "" when there is none.
func (t Task) Details() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}
