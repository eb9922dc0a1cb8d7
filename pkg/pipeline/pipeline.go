package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/finreg-data/sanctions-ingress/pkg/config"
	"github.com/finreg-data/sanctions-ingress/pkg/country"
	"github.com/finreg-data/sanctions-ingress/pkg/entity"
	"github.com/finreg-data/sanctions-ingress/pkg/model"
	"github.com/finreg-data/sanctions-ingress/pkg/reader"
)

// Pipeline orchestrates the full batch run: read, transform per row,
// group and merge per entity, verify, and atomically write.
type Pipeline struct {
	cfg          *config.Config
	logger       *zap.Logger
	normalizer   *country.Normalizer
	reader       *reader.Reader
	aggregator   *entity.Aggregator
	verifier     *Verifier
	writer       *Writer
	errorHandler *ErrorHandler
	metrics      *RunMetrics
	workerCount  int
}

// New creates a pipeline from configuration.
func New(cfg *config.Config, logger *zap.Logger) *Pipeline {
	workerCount := cfg.WorkerPoolSize
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	normalizer := country.NewNormalizer(country.MergeSynonyms(cfg.CountrySynonyms), logger)
	errorHandler := NewErrorHandler(logger)

	return &Pipeline{
		cfg:          cfg,
		logger:       logger,
		normalizer:   normalizer,
		reader:       reader.NewReader(logger, reader.Options{SkipLines: cfg.SkipLines}),
		aggregator:   entity.NewAggregator(normalizer, logger),
		verifier:     NewVerifier(errorHandler, logger),
		writer:       NewWriter(logger),
		errorHandler: errorHandler,
		metrics:      NewRunMetrics(logger),
		workerCount:  workerCount,
	}
}

// Run executes the batch. Any returned error is fatal: the run stops
// and no output file is produced.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("Starting sanctions list processing",
		zap.String("input", p.cfg.InputPath),
		zap.String("output", p.cfg.OutputPath),
		zap.Int("workers", p.workerCount))

	endRead := p.metrics.StartStage("read")
	rawRecords, err := p.reader.ReadFile(p.cfg.InputPath)
	endRead()
	if err != nil {
		p.errorHandler.Record(NewErrorRecord(err, ErrorCategoryFatal).WithPath(p.cfg.InputPath))
		return err
	}
	p.metrics.RowsRead = int64(len(rawRecords))

	endTransform := p.metrics.StartStage("transform")
	cleanRecords := p.transformRows(ctx, rawRecords)
	endTransform()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	endAggregate := p.metrics.StartStage("aggregate")
	entities, err := p.aggregateGroups(ctx, cleanRecords)
	endAggregate()
	if err != nil {
		return err
	}
	p.metrics.EntitiesProduced = int64(len(entities))

	endVerify := p.metrics.StartStage("verify")
	_, err = p.verifier.VerifyEntities(entities)
	endVerify()
	if err != nil {
		p.errorHandler.Record(NewErrorRecord(err, ErrorCategoryFatal))
		return err
	}

	endWrite := p.metrics.StartStage("write")
	err = p.writer.WriteEntities(p.cfg.OutputPath, entities)
	endWrite()
	if err != nil {
		p.errorHandler.Record(NewErrorRecord(err, ErrorCategoryFatal).WithPath(p.cfg.OutputPath))
		return err
	}

	p.metrics.Complete()
	p.errorHandler.LogSummary()
	p.metrics.LogSummary()
	return nil
}

// transformRows runs the pure per-row transforms across the worker
// pool. Results are reassembled in original row order before grouping:
// nothing downstream may observe scheduling order.
func (p *Pipeline) transformRows(ctx context.Context, rawRecords []model.RawRecord) []model.CleanRecord {
	jobs := make(chan RowJob, p.workerCount*2)
	results := make(chan RowResult, p.workerCount*2)

	var wg sync.WaitGroup
	for i := 0; i < p.workerCount; i++ {
		wg.Add(1)
		go func(w *Worker) {
			defer wg.Done()
			w.Start(ctx, jobs, results)
		}(NewWorker(i, p.normalizer, p.logger))
	}

	go func() {
		defer close(jobs)
		for i, rec := range rawRecords {
			select {
			case jobs <- RowJob{Index: i, Record: rec}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	cleanRecords := make([]model.CleanRecord, len(rawRecords))
	for res := range results {
		cleanRecords[res.Index] = res.Record
		p.metrics.AddCleanOps(len(res.Ops))
		for _, op := range res.Ops {
			p.recordCleanOp(op)
		}
	}
	return cleanRecords
}

// recordCleanOp audits one row-local repair.
func (p *Pipeline) recordCleanOp(op model.CleanOp) {
	switch op.Operation {
	case "dob_parse":
		p.metrics.AddDateParseFailure()
	case "metadata_date_parse":
		p.metrics.AddMetaDateFailure()
	}
	p.errorHandler.Record(NewErrorRecord(
		fmt.Errorf("%s: %s (%q)", op.Operation, op.Reason, op.OriginalValue),
		ErrorCategoryRowLocal,
	).WithRow(op.RowNum).WithColumn(op.Column, op.OriginalValue))
}

// aggregateGroups partitions the rows by entity identifier and reduces
// each group. Groups are independent, so reduction fans out across the
// pool; the result slice keeps ascending identifier order.
func (p *Pipeline) aggregateGroups(ctx context.Context, cleanRecords []model.CleanRecord) ([]model.EntityRecord, error) {
	keys, groups := entity.Partition(cleanRecords)
	entities := make([]model.EntityRecord, len(keys))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workerCount)

	for i, groupID := range keys {
		i, groupID := i, groupID
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entities[i] = p.aggregator.Reduce(groupID, groups[groupID])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.logger.Info("Aggregation complete",
		zap.Int("rows", len(cleanRecords)),
		zap.Int("entities", len(entities)))
	return entities, nil
}
