package scheduler

import (
	"context"
	"fmt"
	"time"

	"petcircle_backend/internal/email"
	"petcircle_backend/platform/config"
	"petcircle_backend/platform/logger"

	"github.com/hibiken/asynq"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	sender email.Sender
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, sender email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		sender: sender,
		log:    log,
	}

	mux.HandleFunc(TaskInterventionSubmitted, w.handleInterventionSubmitted)
	mux.HandleFunc(TaskInterventionProceeded, w.handleInterventionProceeded)

	return w, nil
}

func (w *Worker) handleInterventionSubmitted(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseInterventionSubmittedPayload(task)
	if err != nil {
		return err
	}
	if payload.OwnerEmail == "" {
		w.log.Warn("intervention submitted without owner email, skipping notification",
			"interventionId", payload.InterventionID)
		return nil
	}

	return w.sender.SendInterventionReceivedEmail(ctx, payload.OwnerEmail, formatCoolingUntil(payload.CoolingUntil))
}

func (w *Worker) handleInterventionProceeded(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseInterventionProceededPayload(task)
	if err != nil {
		return err
	}
	if payload.OwnerEmail == "" {
		return nil
	}

	return w.sender.SendInterventionProceededEmail(ctx, payload.OwnerEmail)
}

// formatCoolingUntil renders an RFC3339 deadline for email copy. Anything
// unparseable is passed through untouched rather than dropped.
func formatCoolingUntil(raw string) string {
	if raw == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return t.Format("2 January 2006, 15:04 MST")
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
