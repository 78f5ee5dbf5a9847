package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNewTask(t *testing.T) {
	task, err := NewTask("  Buy milk ", " 2% ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Title != "Buy milk" {
		t.Fatalf("expected trimmed title, got %q", task.Title)
	}
	if task.Details() != "2%" {
		t.Fatalf("expected trimmed description, got %q", task.Details())
	}
}

func TestNewTaskEmptyDescriptionIsNull(t *testing.T) {
	task, err := NewTask("Buy milk", "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Description != nil {
		t.Fatalf("expected nil description, got %q", *task.Description)
	}
	if task.Details() != "" {
		t.Fatalf("expected empty details, got %q", task.Details())
	}
}

func TestNewTaskRejectsEmptyTitle(t *testing.T) {
	for _, title := range []string{"", "   ", "\t\n"} {
		if _, err := NewTask(title, "x"); !errors.Is(err, ErrTitleRequired) {
			t.Fatalf("title %q: expected ErrTitleRequired, got %v", title, err)
		}
	}
}

func TestNewTaskTitleLength(t *testing.T) {
	if _, err := NewTask(strings.Repeat("ñ", MaxTitleLength), ""); err != nil {
		t.Fatalf("255 runes should be accepted: %v", err)
	}
	if _, err := NewTask(strings.Repeat("a", MaxTitleLength+1), ""); !errors.Is(err, ErrTitleTooLong) {
		t.Fatalf("expected ErrTitleTooLong, got %v", err)
	}
}

func TestSeedTask(t *testing.T) {
	seed := SeedTask()
	if seed.Title != "Tarea de ejemplo" {
		t.Fatalf("unexpected seed title %q", seed.Title)
	}
	if seed.Details() != SeedDescription {
		t.Fatalf("unexpected seed description %q", seed.Details())
	}
}
