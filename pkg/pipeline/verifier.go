package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/finreg-data/sanctions-ingress/pkg/model"
)

// expectedGroupTypes are the party categories the source list uses.
var expectedGroupTypes = map[string]struct{}{
	"Individual": {},
	"Entity":     {},
	"Ship":       {},
}

// Verifier runs post-aggregation sanity checks over the entity table
// before it is written. Findings are tolerated anomalies: they are
// recorded and logged but never abort the run, since first-wins merging
// cannot drop or duplicate rows on its own.
type Verifier struct {
	logger       *zap.Logger
	errorHandler *ErrorHandler
}

// NewVerifier creates a new verifier
func NewVerifier(errorHandler *ErrorHandler, logger *zap.Logger) *Verifier {
	return &Verifier{
		logger:       logger.With(zap.String("component", "verifier")),
		errorHandler: errorHandler,
	}
}

// VerifyEntities checks the aggregated table and returns the number of
// findings. Duplicate identifiers would indicate a grouping defect and
// are the one condition reported as an error rather than a warning.
func (v *Verifier) VerifyEntities(entities []model.EntityRecord) (findings int, err error) {
	seen := make(map[int]struct{}, len(entities))

	for _, e := range entities {
		if _, dup := seen[e.GroupID]; dup {
			return findings + 1, fmt.Errorf("duplicate entity identifier %d in output", e.GroupID)
		}
		seen[e.GroupID] = struct{}{}

		if !e.PrimaryName.Present() {
			findings++
			v.errorHandler.Record(NewErrorRecord(
				fmt.Errorf("entity %d has no primary name", e.GroupID),
				ErrorCategoryWarning))
		}
		if !e.GroupType.Present() {
			findings++
			v.errorHandler.Record(NewErrorRecord(
				fmt.Errorf("entity %d has no group type", e.GroupID),
				ErrorCategoryWarning))
			continue
		}
		if _, ok := expectedGroupTypes[e.GroupType.Value()]; !ok {
			findings++
			v.errorHandler.Record(NewErrorRecord(
				fmt.Errorf("entity %d has unexpected group type %q", e.GroupID, e.GroupType.Value()),
				ErrorCategoryWarning))
		}
	}

	if findings == 0 {
		v.logger.Info("Sanity checks passed", zap.Int("entities", len(entities)))
	} else {
		v.logger.Warn("Sanity checks recorded findings",
			zap.Int("entities", len(entities)),
			zap.Int("findings", findings))
	}
	return findings, nil
}
