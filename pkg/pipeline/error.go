package pipeline

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrorCategory classifies problems found during a run.
type ErrorCategory int

const (
	// Error categories with increasing severity
	ErrorCategoryNone ErrorCategory = iota
	// ErrorCategoryWarning covers tolerated data anomalies: conflicting
	// single-valued fields, unexpected group types, duplicate primary
	// claims. Resolved deterministically, never raised.
	ErrorCategoryWarning
	// ErrorCategoryRowLocal covers recoverable field problems: malformed
	// dates, unmapped countries, missing optional values. Absorbed where
	// detected; the row still contributes to its entity.
	ErrorCategoryRowLocal
	// ErrorCategoryFatal aborts the run: missing input, missing required
	// column, absent entity identifier, unwritable output.
	ErrorCategoryFatal
)

// String returns a string representation of the error category
func (ec ErrorCategory) String() string {
	switch ec {
	case ErrorCategoryNone:
		return "None"
	case ErrorCategoryWarning:
		return "Warning"
	case ErrorCategoryRowLocal:
		return "RowLocal"
	case ErrorCategoryFatal:
		return "Fatal"
	default:
		return fmt.Sprintf("Unknown(%d)", ec)
	}
}

// ErrorRecord represents a single problem found during processing
type ErrorRecord struct {
	Category    ErrorCategory
	Path        string
	ColumnName  string
	RowNum      int
	SourceValue string
	Err         error
	Message     string
	Timestamp   time.Time
}

// NewErrorRecord creates a new error record with current timestamp
func NewErrorRecord(err error, category ErrorCategory) ErrorRecord {
	record := ErrorRecord{
		Category:  category,
		Err:       err,
		Timestamp: time.Now(),
	}
	if err != nil {
		record.Message = err.Error()
	}
	return record
}

// WithPath adds the source file path to the error record
func (r ErrorRecord) WithPath(path string) ErrorRecord {
	r.Path = path
	return r
}

// WithRow adds row information to the error record
func (r ErrorRecord) WithRow(rowNum int) ErrorRecord {
	r.RowNum = rowNum
	return r
}

// WithColumn adds column information to the error record
func (r ErrorRecord) WithColumn(columnName, sourceValue string) ErrorRecord {
	r.ColumnName = columnName
	r.SourceValue = sourceValue
	return r
}

// String returns a formatted error message
func (r ErrorRecord) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] ", r.Category))

	if r.Path != "" {
		sb.WriteString(fmt.Sprintf("File: %s ", r.Path))
	}
	if r.RowNum > 0 {
		sb.WriteString(fmt.Sprintf("Row: %d ", r.RowNum))
	}
	if r.ColumnName != "" {
		sb.WriteString(fmt.Sprintf("Column: %s ", r.ColumnName))
		if r.SourceValue != "" {
			sb.WriteString(fmt.Sprintf("Value: %v ", r.SourceValue))
		}
	}
	if r.Err != nil {
		sb.WriteString(fmt.Sprintf("Error: %s", r.Err.Error()))
	} else if r.Message != "" {
		sb.WriteString(fmt.Sprintf("Error: %s", r.Message))
	}

	return sb.String()
}

// ErrorHandler absorbs recoverable problems and counts them by
// category. Only fatal records escape to the caller.
type ErrorHandler struct {
	logger       *zap.Logger
	errorCounts  map[ErrorCategory]int
	sampleErrors map[ErrorCategory][]ErrorRecord
	mu           sync.Mutex
	maxSamples   int
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger,
		errorCounts:  make(map[ErrorCategory]int),
		sampleErrors: make(map[ErrorCategory][]ErrorRecord),
		maxSamples:   10,
	}
}

// Record counts an error record and keeps a bounded sample per
// category for the summary. Warnings and row-local records are logged
// and absorbed; fatal ones are logged at error level and must also be
// propagated by the caller.
func (h *ErrorHandler) Record(rec ErrorRecord) {
	h.mu.Lock()
	h.errorCounts[rec.Category]++
	if len(h.sampleErrors[rec.Category]) < h.maxSamples {
		h.sampleErrors[rec.Category] = append(h.sampleErrors[rec.Category], rec)
	}
	h.mu.Unlock()

	switch rec.Category {
	case ErrorCategoryFatal:
		h.logger.Error("Fatal condition", zap.String("detail", rec.String()))
	case ErrorCategoryRowLocal:
		h.logger.Debug("Row-local problem absorbed", zap.String("detail", rec.String()))
	default:
		h.logger.Warn("Data anomaly tolerated", zap.String("detail", rec.String()))
	}
}

// Count returns the number of records seen for a category.
func (h *ErrorHandler) Count(category ErrorCategory) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.errorCounts[category]
}

// Samples returns the retained sample records for a category.
func (h *ErrorHandler) Samples(category ErrorCategory) []ErrorRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]ErrorRecord, len(h.sampleErrors[category]))
	copy(out, h.sampleErrors[category])
	return out
}

// LogSummary reports per-category counts at the end of a run.
func (h *ErrorHandler) LogSummary() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, category := range []ErrorCategory{ErrorCategoryWarning, ErrorCategoryRowLocal, ErrorCategoryFatal} {
		count := h.errorCounts[category]
		if count == 0 {
			continue
		}
		h.logger.Info("Problems recorded",
			zap.String("category", category.String()),
			zap.Int("count", count))
	}
}
