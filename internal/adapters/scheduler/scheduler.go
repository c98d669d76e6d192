package scheduler

import (
	"context"
	"fmt"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/port"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// Job - периодическая задача
type Job struct {
	Name    string
	Spec    string // cron-выражение (5 полей) или @every/@daily
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// Scheduler запускает задачи по расписанию в UTC.
// Реализует EventListenerPort: Start блокируется до отмены контекста.
type Scheduler struct {
	cron   *cron.Cron
	logger port.LoggerPort
}

func NewScheduler(logger port.LoggerPort, jobs ...Job) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		logger: logger.WithFields(port.Fields{"component": "Scheduler"}),
	}
	for _, job := range jobs {
		if job.Run == nil {
			return nil, fmt.Errorf("scheduler: job %q has no run function", job.Name)
		}
		job := job
		if _, err := s.cron.AddFunc(job.Spec, func() { s.runJob(context.Background(), job) }); err != nil {
			return nil, fmt.Errorf("scheduler: invalid spec %q for job %q: %w", job.Spec, job.Name, err)
		}
		s.logger.Info("Job scheduled", port.Fields{"job": job.Name, "spec": job.Spec})
	}
	return s, nil
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	traceID := uuid.New().String()
	jobLogger := s.logger.WithFields(port.Fields{"job": job.Name, "trace_id": traceID})
	ctx = contextkeys.ContextWithLogger(ctx, jobLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	started := time.Now()
	jobLogger.Info("Starting cron job", nil)
	if err := job.Run(ctx); err != nil {
		jobLogger.Error("Cron job failed", err, port.Fields{"duration": time.Since(started).String()})
		return
	}
	jobLogger.Info("Cron job finished", port.Fields{"duration": time.Since(started).String()})
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.cron.Start()
	<-ctx.Done()
	return nil
}

// Close ждет завершения уже запущенных задач
func (s *Scheduler) Close() error {
	<-s.cron.Stop().Done()
	return nil
}
