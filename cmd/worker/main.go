package main

// Monthly billing reconciliation worker:
//   go run ./cmd/worker          run on the cron schedule
//   go run ./cmd/worker -once    run a single sweep and exit

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/adarshsingh05/paperly-backend/internal/bootstrap"
	"github.com/adarshsingh05/paperly-backend/internal/shared/config"
	"github.com/adarshsingh05/paperly-backend/internal/shared/telemetry"
)

// Midnight UTC on the first of every month.
const monthlySchedule = "0 0 1 * *"

func main() {
	once := flag.Bool("once", false, "run one reconciliation sweep and exit")
	flag.Parse()

	cfg := config.Load()
	app, err := bootstrap.BuildWorker(cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		runSweep(ctx, app)
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(monthlySchedule, func() {
		sweepCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		runSweep(sweepCtx, app)
	}); err != nil {
		log.Fatalf("schedule: %v", err)
	}

	log.Printf("Starting reconciliation worker, schedule %q", monthlySchedule)
	c.Start()

	<-ctx.Done()
	log.Printf("Shutting down reconciliation worker")
	<-c.Stop().Done()
}

func runSweep(ctx context.Context, app *bootstrap.App) {
	summary, err := app.ReconcileJob.Run(ctx)
	if err != nil {
		telemetry.Error("worker.reconcile.failed", map[string]any{"err": err.Error()})
		return
	}
	telemetry.Info("worker.reconcile.done", map[string]any{
		"expired":        summary.Expired,
		"pendingCreated": summary.PendingCreated,
		"errors":         summary.Errors,
	})
}
