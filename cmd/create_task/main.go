package main

import (
	"context"
	"flag"
	"log"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/domain"
	"taskboard/internal/repository"
)

func main() {
	title := flag.String("title", "", "task title (required)")
	description := flag.String("description", "", "task description")
	flag.Parse()

	task, err := domain.NewTask(*title, *description)
	if err != nil {
		log.Fatalf("invalid task: %v", err)
	}

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	handle, err := db.Connect(ctx, cfg.Env, cfg.DBDriver, cfg.DBParams())
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer handle.Close()

	repo := repository.NewTaskRepository(handle)
	if err := repo.Create(ctx, task); err != nil {
		log.Fatalf("create task failed: %v", err)
	}

	// verify read
	tasks, err := repo.List(ctx)
	if err != nil {
		log.Fatalf("list tasks failed: %v", err)
	}
	log.Printf("task created on %s, %d tasks stored\n", handle.Dialect().Name, len(tasks))
	if len(tasks) > 0 {
		t := tasks[0]
		log.Printf("latest id=%d title=%q created_at=%v\n", t.ID, t.Title, t.CreatedAt)
	}
}
