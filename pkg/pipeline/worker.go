package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/finreg-data/sanctions-ingress/pkg/country"
	"github.com/finreg-data/sanctions-ingress/pkg/dates"
	"github.com/finreg-data/sanctions-ingress/pkg/entity"
	"github.com/finreg-data/sanctions-ingress/pkg/model"
	"github.com/finreg-data/sanctions-ingress/pkg/sanitize"
)

// RowJob is one source row queued for the per-row transform pass.
type RowJob struct {
	Index  int // position in the original row order
	Record model.RawRecord
}

// RowResult is the transformed row. Index lets the collector reassemble
// results in original order before grouping.
type RowResult struct {
	Index  int
	Record model.CleanRecord
	Ops    []model.CleanOp
}

// Worker runs the pure per-row transforms: sanitize, date parse,
// country normalize, name construction. Rows are independent until the
// grouping phase, so any number of workers may run concurrently.
type Worker struct {
	ID         int
	normalizer *country.Normalizer
	logger     *zap.Logger
}

// NewWorker creates a new worker
func NewWorker(id int, normalizer *country.Normalizer, logger *zap.Logger) *Worker {
	return &Worker{
		ID:         id,
		normalizer: normalizer,
		logger:     logger.With(zap.Int("workerID", id)),
	}
}

// Start consumes jobs until the channel closes or the context ends.
func (w *Worker) Start(ctx context.Context, jobs <-chan RowJob, results chan<- RowResult) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			record, ops := w.transformRow(job.Record)
			select {
			case results <- RowResult{Index: job.Index, Record: record, Ops: ops}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// transformRow applies every field-level transform to one row. All
// problems here are row-local: they degrade to absent or unknown values
// and are reported as clean operations, never as errors.
func (w *Worker) transformRow(raw model.RawRecord) (model.CleanRecord, []model.CleanOp) {
	var ops []model.CleanOp

	rec := model.CleanRecord{RawRecord: raw}
	rec.Title = sanitize.CleanField(raw.Title)
	for i := range raw.Names {
		rec.Names[i] = sanitize.CleanField(raw.Names[i])
	}
	rec.NameNonLatin = sanitize.CleanField(raw.NameNonLatin)
	rec.AliasType = sanitize.CleanField(raw.AliasType)
	rec.GroupType = sanitize.CleanField(raw.GroupType)
	rec.Regime = sanitize.CleanField(raw.Regime)
	rec.DOBRaw = sanitize.CleanField(raw.DOBRaw)
	rec.Position = sanitize.CleanField(raw.Position)
	rec.PassportNum = sanitize.CleanField(raw.PassportNum)
	rec.NationalIDNum = sanitize.CleanField(raw.NationalIDNum)
	for i := range raw.Addresses {
		rec.Addresses[i] = sanitize.CleanField(raw.Addresses[i])
	}
	rec.PostZipCode = sanitize.CleanField(raw.PostZipCode)
	rec.ListedOn = sanitize.CleanField(raw.ListedOn)
	rec.DateDesig = sanitize.CleanField(raw.DateDesig)
	rec.LastUpdated = sanitize.CleanField(raw.LastUpdated)

	rec.ConstructedName = entity.ConstructName(raw)

	rec.CountryBirth = w.normalizeCountry(raw, "Country of Birth", raw.CountryBirth, &ops)
	rec.Nationality = w.normalizeCountry(raw, "Nationality", raw.Nationality, &ops)
	rec.Country = w.normalizeCountry(raw, "Country", raw.Country, &ops)

	if rec.DOBRaw.Present() {
		rec.DOB = dates.ParseDOB(rec.DOBRaw.Value())
		if rec.DOB.Precision == model.PrecisionUnknown {
			ops = append(ops, model.CleanOp{
				Column:        "DOB",
				RowNum:        raw.RowNum,
				GroupID:       raw.GroupID,
				OriginalValue: rec.DOBRaw.Value(),
				Operation:     "dob_parse",
				Reason:        "unparseable_or_out_of_range",
			})
		}
	}

	rec.ListedOnDate = w.parseMetaDate(raw, "Listed On", rec.ListedOn, &ops)
	rec.DateDesigDate = w.parseMetaDate(raw, "UK Sanctions List Date Designated", rec.DateDesig, &ops)
	rec.LastUpdatedDate = w.parseMetaDate(raw, "Last Updated", rec.LastUpdated, &ops)

	return rec, ops
}

// normalizeCountry maps one raw country field and audits any change.
func (w *Worker) normalizeCountry(raw model.RawRecord, column string, f model.Field, ops *[]model.CleanOp) model.Field {
	norm := w.normalizer.Normalize(f)
	if f.Present() && norm.Or("") != f.Value() {
		*ops = append(*ops, model.CleanOp{
			Column:        column,
			RowNum:        raw.RowNum,
			GroupID:       raw.GroupID,
			OriginalValue: f.Value(),
			NewValue:      norm.Or(""),
			Operation:     "country_normalize",
			Reason:        "cleaned_or_mapped",
		})
	}
	return norm
}

// parseMetaDate parses one metadata date field and audits failures.
func (w *Worker) parseMetaDate(raw model.RawRecord, column string, f model.Field, ops *[]model.CleanOp) model.Field {
	parsed, ok := dates.ParseMetadata(f)
	if !ok {
		*ops = append(*ops, model.CleanOp{
			Column:        column,
			RowNum:        raw.RowNum,
			GroupID:       raw.GroupID,
			OriginalValue: f.Value(),
			Operation:     "metadata_date_parse",
			Reason:        "unparseable",
		})
	}
	return parsed
}
