package logger_adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"showcase-service/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPoster struct {
	tags    []string
	records []map[string]interface{}
}

func (r *recordingPoster) Post(tag string, message interface{}) error {
	r.tags = append(r.tags, tag)
	r.records = append(r.records, message.(port.Fields))
	return nil
}

func (r *recordingPoster) Close() error { return nil }

func TestSlogAdapter_JSONCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, IsJSON: true, Level: slog.LevelDebug})

	logger.WithFields(port.Fields{"use_case": "GetHomepageProperties"}).
		Error("Failed to load settings", errors.New("db down"), port.Fields{"version": 3})

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ERROR", line["level"])
	assert.Equal(t, "Failed to load settings", line["msg"])
	assert.Equal(t, "GetHomepageProperties", line["use_case"])
	assert.Equal(t, "db down", line["error"])
	assert.EqualValues(t, 3, line["version"])
}

func TestSlogAdapter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelWarn})
	logger.Info("hidden", nil)
	logger.Debug("hidden", nil)
	assert.Zero(t, buf.Len())
	logger.Warn("shown", nil)
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestFluentAdapter_FiltersAndMerges(t *testing.T) {
	rec := &recordingPoster{}
	logger := newFluentLoggerAdapter(rec, slog.LevelInfo).WithFields(port.Fields{"trace_id": "t-1"})

	logger.Debug("dropped", nil)
	logger.Info("Request started", port.Fields{"path": "/api/homepage/properties"})
	logger.Error("Request failed", errors.New("boom"), nil)

	require.Equal(t, []string{"info", "error"}, rec.tags)
	assert.Equal(t, "t-1", rec.records[0]["trace_id"])
	assert.Equal(t, "/api/homepage/properties", rec.records[0]["path"])
	assert.Equal(t, "boom", rec.records[1]["error"])
	_, leaked := rec.records[1]["path"]
	assert.False(t, leaked)
}

func TestMultilogger(t *testing.T) {
	_, err := NewMultiloggerAdapter()
	assert.Error(t, err)

	a, b := &recordingPoster{}, &recordingPoster{}
	multi, err := NewMultiloggerAdapter(newFluentLoggerAdapter(a, nil), nil, newFluentLoggerAdapter(b, nil))
	require.NoError(t, err)
	multi.WithFields(port.Fields{"k": "v"}).Warn("both", nil)

	assert.Len(t, a.records, 1)
	assert.Len(t, b.records, 1)
	assert.Equal(t, "v", b.records[0]["k"])
}
