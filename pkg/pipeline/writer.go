package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finreg-data/sanctions-ingress/pkg/model"
)

// Writer serializes the aggregated entity table. The file is written to
// a temporary sibling path and renamed into place on success, so either
// the full output exists or none does.
type Writer struct {
	logger *zap.Logger
}

// NewWriter creates a new writer
func NewWriter(logger *zap.Logger) *Writer {
	return &Writer{logger: logger.With(zap.String("component", "writer"))}
}

// WriteEntities writes one row per entity, in the order given, to path.
func (w *Writer) WriteEntities(path string, entities []model.EntityRecord) error {
	dir := filepath.Dir(path)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.New().String()))

	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temporary output file: %w", err)
	}

	if err := w.writeAll(f, entities); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temporary output file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("finalize output file %q: %w", path, err)
	}

	w.logger.Info("Output written",
		zap.String("path", path),
		zap.Int("entities", len(entities)))
	return nil
}

func (w *Writer) writeAll(f *os.File, entities []model.EntityRecord) error {
	cw := csv.NewWriter(f)

	if err := cw.Write(model.OutputColumns); err != nil {
		return fmt.Errorf("write output header: %w", err)
	}
	for _, e := range entities {
		if err := cw.Write(e.Values()); err != nil {
			return fmt.Errorf("write entity %d: %w", e.GroupID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
