package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stridewms/internal/accounting"
	"stridewms/internal/config"
	"stridewms/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	svc := accounting.NewSyncService(db, cfg)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for {
		run, err := svc.RunOnce(ctx)
		if err != nil {
			fmt.Printf("sync cycle error: %v\n", err)
		} else {
			fmt.Printf("sync cycle done status=%s pushed=%d pulled=%d trace=%s\n", run.Status, run.Pushed, run.Pulled, run.TraceID)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(cfg.SyncPollerIntervalSec) * time.Second):
		}
	}
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
