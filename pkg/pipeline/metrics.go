package pipeline

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// RunMetrics tracks counters and stage timings for one processing run.
type RunMetrics struct {
	mu     sync.Mutex
	logger *zap.Logger

	StartTime time.Time
	EndTime   time.Time

	RowsRead          int64
	EntitiesProduced  int64
	CleanOps          int64
	DateParseFailures int64
	MetaDateFailures  int64

	stageDurations map[string]time.Duration
	stageOrder     []string
}

// NewRunMetrics creates a new RunMetrics instance
func NewRunMetrics(logger *zap.Logger) *RunMetrics {
	return &RunMetrics{
		logger:         logger,
		StartTime:      time.Now(),
		stageDurations: make(map[string]time.Duration),
	}
}

// StartStage begins timing a named stage and returns a function that
// records its duration when called.
func (m *RunMetrics) StartStage(name string) func() {
	start := time.Now()
	m.logger.Info("Stage started", zap.String("stage", name))
	return func() {
		d := time.Since(start)
		m.mu.Lock()
		if _, seen := m.stageDurations[name]; !seen {
			m.stageOrder = append(m.stageOrder, name)
		}
		m.stageDurations[name] += d
		m.mu.Unlock()
		m.logger.Info("Stage completed",
			zap.String("stage", name),
			zap.Duration("duration", d))
	}
}

// AddCleanOps adds to the count of row-local repairs performed.
func (m *RunMetrics) AddCleanOps(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CleanOps += int64(n)
}

// AddDateParseFailure counts one unparseable date of birth.
func (m *RunMetrics) AddDateParseFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DateParseFailures++
}

// AddMetaDateFailure counts one unparseable metadata date.
func (m *RunMetrics) AddMetaDateFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MetaDateFailures++
}

// Complete stamps the end of the run.
func (m *RunMetrics) Complete() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EndTime = time.Now()
}

// Duration returns the total run duration so far.
func (m *RunMetrics) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

// LogSummary reports the final counters and per-stage timings.
func (m *RunMetrics) LogSummary() {
	m.mu.Lock()
	defer m.mu.Unlock()

	fields := []zap.Field{
		zap.Int64("rowsRead", m.RowsRead),
		zap.Int64("entitiesProduced", m.EntitiesProduced),
		zap.Int64("cleaningOperations", m.CleanOps),
		zap.Int64("dateParseFailures", m.DateParseFailures),
		zap.Int64("metadataDateFailures", m.MetaDateFailures),
		zap.Duration("totalDuration", m.EndTime.Sub(m.StartTime)),
	}
	for _, stage := range m.stageOrder {
		fields = append(fields, zap.Duration("stage."+stage, m.stageDurations[stage]))
	}
	m.logger.Info("Run summary", fields...)
}
