package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, port.Fields)                 {}
func (nopLogger) Warn(string, port.Fields)                 {}
func (nopLogger) Error(string, error, port.Fields)         {}
func (nopLogger) Debug(string, port.Fields)                {}
func (l nopLogger) WithFields(port.Fields) port.LoggerPort { return l }

func TestNewScheduler_RejectsBadJobs(t *testing.T) {
	_, err := NewScheduler(nopLogger{}, Job{Name: "rollup", Spec: "not a cron", Run: func(context.Context) error { return nil }})
	assert.Error(t, err)

	_, err = NewScheduler(nopLogger{}, Job{Name: "rollup", Spec: "@daily"})
	assert.Error(t, err)

	s, err := NewScheduler(nopLogger{}, Job{Name: "rollup", Spec: "5 0 * * *", Run: func(context.Context) error { return nil }})
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 1)
}

func TestRunJob_PassesTraceAndDeadline(t *testing.T) {
	s, err := NewScheduler(nopLogger{})
	require.NoError(t, err)

	var gotTrace string
	var hasDeadline bool
	s.runJob(context.Background(), Job{
		Name:    "rollup",
		Timeout: time.Minute,
		Run: func(ctx context.Context) error {
			gotTrace = contextkeys.TraceIDFromContext(ctx)
			_, hasDeadline = ctx.Deadline()
			return errors.New("ignored")
		},
	})
	assert.NotEmpty(t, gotTrace)
	assert.True(t, hasDeadline)
}

func TestStartStopsOnCancel(t *testing.T) {
	s, err := NewScheduler(nopLogger{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.NoError(t, s.Close())
}
