package handlers

import (
	"context"

	"taskboard/internal/domain"
)

// TaskStore is the part of the task repository the handlers need.
type TaskStore interface {
	List(ctx context.Context) ([]domain.Task, error)
	Create(ctx context.Context, t *domain.Task) error
}

// PageMeta describes the deployment shown on the task page.
type PageMeta struct {
	Environment string
	DBType      string
	WebServer   string
}

type Handler struct {
	Tasks TaskStore
	Meta  PageMeta
}

func NewHandler(tasks TaskStore, meta PageMeta) *Handler {
	return &Handler{
		Tasks: tasks,
		Meta:  meta,
	}
}
