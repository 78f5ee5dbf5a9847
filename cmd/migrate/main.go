package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"taskboard/internal/bootstrap"
	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/logger"
)

// migrate runs the database bootstrap once and exits non-zero on failure,
// for use as an init container or deploy hook.
func main() {
	cfg := config.Load()

	retries := flag.Int("retries", cfg.DBConnectRetries, "maximum connection attempts")
	delay := flag.Duration("delay", cfg.DBConnectDelay, "fixed delay between attempts")
	dryRun := flag.Bool("dry-run", false, "print the schema statement and exit")
	flag.Parse()

	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handle, err := db.Connect(ctx, cfg.Env, cfg.DBDriver, cfg.DBParams())
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer handle.Close()

	if *dryRun {
		fmt.Println(handle.Dialect().CreateTasksTable)
		return
	}

	ok := bootstrap.Run(ctx, handle, bootstrap.Options{MaxAttempts: *retries, Delay: *delay})
	if !ok {
		handle.Close()
		os.Exit(1)
	}
	fmt.Printf("database ready (%s)\n", handle.Dialect().Name)
}
