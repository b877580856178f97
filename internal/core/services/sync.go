package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/lexbrief/internal/core/domain"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driven"
	"github.com/custodia-labs/lexbrief/internal/core/ports/driving"
	"github.com/custodia-labs/lexbrief/internal/logger"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncOrchestrator = (*SyncOrchestrator)(nil)

// DefaultRequestDelay is the minimum gap between remote calls in a sync run.
const DefaultRequestDelay = 200 * time.Millisecond

// SyncOrchestrator coordinates record ingestion. It is the only writer of
// the record store: each source is scanned by at most one run at a time.
type SyncOrchestrator struct {
	sourceStore driven.SourceStore
	recordStore driven.RecordStore
	factory     driven.ConnectorFactory
	indexer     *Indexer
	delay       time.Duration
	now         func() time.Time

	// Status tracking
	mu          sync.RWMutex
	activeSyncs map[string]*driving.SyncStatus
}

// NewSyncOrchestrator creates a new sync orchestrator.
// The indexer is optional; without it committed records stay unindexed.
// A non-positive delay uses DefaultRequestDelay.
func NewSyncOrchestrator(
	sourceStore driven.SourceStore,
	recordStore driven.RecordStore,
	factory driven.ConnectorFactory,
	indexer *Indexer,
	delay time.Duration,
) *SyncOrchestrator {
	if delay <= 0 {
		delay = DefaultRequestDelay
	}
	return &SyncOrchestrator{
		sourceStore: sourceStore,
		recordStore: recordStore,
		factory:     factory,
		indexer:     indexer,
		delay:       delay,
		now:         time.Now,
		activeSyncs: make(map[string]*driving.SyncStatus),
	}
}

// Sync scans a source's list pages, commits new records and records that
// reached a terminal state, then indexes everything still unindexed.
// The returned result is non-nil whenever the scan started, even on error.
func (o *SyncOrchestrator) Sync(ctx context.Context, sourceID string, opts domain.SyncOptions) (*domain.SyncResult, error) {
	status := &driving.SyncStatus{SourceID: sourceID, Running: true}
	if !o.acquire(sourceID, status) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSyncInProgress, sourceID)
	}
	defer o.clearStatus(sourceID)

	source, err := o.sourceStore.Get(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}

	if o.factory == nil {
		return nil, fmt.Errorf("create connector: connector factory not configured")
	}
	connector, err := o.factory.Create(ctx, *source)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	defer connector.Close()

	opts = resolveSyncOptions(source, opts)
	logger.Info("Starting sync for source %s (max pages %d, stop after %d)", sourceID, opts.MaxPages, opts.StopAfterComplete)

	result := &domain.SyncResult{SourceID: sourceID}
	run := &syncRun{
		o:         o,
		source:    source,
		connector: connector,
		opts:      opts,
		limiter:   rate.NewLimiter(rate.Every(o.delay), 1),
		result:    result,
		status:    status,
	}
	scanErr := run.scan(ctx)

	// Committed records are indexed even when the scan failed part way.
	indexed, indexErr := o.indexPending(ctx, source)
	result.Indexed = indexed

	logger.Info("Sync for %s: %d new, %d updated, %d skipped, %d detail failures, %d indexed",
		sourceID, result.NewCount, result.UpdatedCount, result.SkippedCount, result.DetailFailures, result.Indexed)

	if err := errors.Join(scanErr, indexErr); err != nil {
		return result, err
	}
	return result, nil
}

// SyncAll runs Sync for every configured source in turn.
func (o *SyncOrchestrator) SyncAll(ctx context.Context, opts domain.SyncOptions) ([]domain.SyncResult, error) {
	sources, err := o.sourceStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}

	results := make([]domain.SyncResult, 0, len(sources))
	var errs []error
	for _, source := range sources {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		result, err := o.Sync(ctx, source.ID, opts)
		if result != nil {
			results = append(results, *result)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("sync %s: %w", source.ID, err))
		}
	}
	return results, errors.Join(errs...)
}

// Status returns sync status for a source.
func (o *SyncOrchestrator) Status(_ context.Context, sourceID string) (*driving.SyncStatus, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if status, ok := o.activeSyncs[sourceID]; ok {
		statusCopy := *status
		return &statusCopy, nil
	}

	return &driving.SyncStatus{SourceID: sourceID}, nil
}

// acquire registers a running sync unless one is already active.
func (o *SyncOrchestrator) acquire(sourceID string, status *driving.SyncStatus) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, running := o.activeSyncs[sourceID]; running {
		return false
	}
	o.activeSyncs[sourceID] = status
	return true
}

func (o *SyncOrchestrator) updateStatus(fn func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fn()
}

func (o *SyncOrchestrator) clearStatus(sourceID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.activeSyncs, sourceID)
}

// indexPending forwards every unindexed record of the source to the indexer
// in one batch and marks them indexed.
func (o *SyncOrchestrator) indexPending(ctx context.Context, source *domain.Source) (int, error) {
	// The scan may have stopped on cancellation; indexing still gets a chance
	// to record what was committed.
	ctx = context.WithoutCancel(ctx)

	pending, err := o.recordStore.ListUnindexed(ctx, source.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: list unindexed: %w", domain.ErrIndexing, err)
	}
	if len(pending) == 0 {
		return 0, nil
	}
	if o.indexer == nil {
		logger.Warn("No embedding service configured; %d records of %s left unindexed", len(pending), source.ID)
		return 0, nil
	}

	n, err := o.indexer.Index(ctx, *source, pending)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrIndexing, err)
	}

	keys := make([]string, len(pending))
	for i, rec := range pending {
		keys[i] = rec.Key
	}
	if err := o.recordStore.MarkIndexed(ctx, source.ID, keys); err != nil {
		return n, fmt.Errorf("%w: mark indexed: %w", domain.ErrIndexing, err)
	}
	return n, nil
}

// resolveSyncOptions fills unset options from the source config and then
// from the connector type's defaults.
func resolveSyncOptions(source *domain.Source, opts domain.SyncOptions) domain.SyncOptions {
	if opts.MaxPages <= 0 {
		opts.MaxPages = configInt(source, domain.SourceConfigMaxPages)
	}
	if opts.StopAfterComplete <= 0 {
		if v := configInt(source, domain.SourceConfigStopAfterComplete); v > 0 {
			opts.StopAfterComplete = v
		} else if ct, ok := domain.LookupConnectorType(source.Type); ok {
			opts.StopAfterComplete = ct.DefaultStopAfterComplete
		}
	}
	return opts
}

func configInt(source *domain.Source, key string) int {
	v, err := strconv.Atoi(source.ConfigValue(key, "0"))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// syncRun holds the state of one page scan.
type syncRun struct {
	o         *SyncOrchestrator
	source    *domain.Source
	connector driven.Connector
	opts      domain.SyncOptions
	limiter   *rate.Limiter
	result    *domain.SyncResult
	status    *driving.SyncStatus

	// completeRun counts consecutive records complete both remotely and locally.
	completeRun int
}

var errStopEarly = errors.New("stop early")

func (r *syncRun) scan(ctx context.Context) error {
	for page := 1; r.opts.MaxPages <= 0 || page <= r.opts.MaxPages; page++ {
		if err := r.limiter.Wait(ctx); err != nil {
			return err
		}
		records, err := r.connector.FetchList(ctx, page)
		if err != nil {
			return fmt.Errorf("%w: page %d: %w", domain.ErrListFetch, page, err)
		}
		if len(records) == 0 {
			logger.Debug("Source %s: page %d is empty, scan complete", r.source.ID, page)
			return nil
		}
		r.result.PagesScanned++
		r.o.updateStatus(func() { r.status.Page = page })

		for _, rec := range records {
			if err := r.process(ctx, rec); err != nil {
				if errors.Is(err, errStopEarly) {
					r.result.StoppedEarly = true
					logger.Info("Source %s: %d consecutive complete records, stopping at page %d",
						r.source.ID, r.completeRun, page)
					return nil
				}
				return err
			}
		}
	}
	return nil
}

func (r *syncRun) process(ctx context.Context, rec domain.ListRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.o.updateStatus(func() { r.status.RecordsProcessed++ })

	stored, err := r.o.recordStore.Get(ctx, r.source.ID, rec.Key)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get record %s: %w", rec.Key, err)
	}

	switch {
	case stored == nil:
		detail, err := r.fetchDetail(ctx, rec)
		if err != nil {
			return err
		}
		if err := r.o.recordStore.Upsert(ctx, domain.NewStoredRecord(r.source.ID, rec, detail, r.o.now())); err != nil {
			return fmt.Errorf("save record %s: %w", rec.Key, err)
		}
		r.result.NewCount++
		r.completeRun = 0
		logger.Debug("Source %s: new record %s (%s)", r.source.ID, rec.Key, rec.State)

	case rec.State.IsTerminal() && !stored.State.IsTerminal():
		detail, err := r.fetchDetail(ctx, rec)
		if err != nil {
			return err
		}
		updated := *stored
		updated.Title = rec.Title
		updated.Link = rec.Link
		updated.Date = rec.Date
		updated.RefNo = rec.RefNo
		updated.State = rec.State
		updated.Question = detail.Question
		updated.Answer = detail.Answer
		updated.Indexed = false
		updated.UpdatedAt = r.o.now()
		if err := r.o.recordStore.Upsert(ctx, updated); err != nil {
			return fmt.Errorf("save record %s: %w", rec.Key, err)
		}
		r.result.UpdatedCount++
		r.completeRun = 0
		logger.Debug("Source %s: record %s became %s", r.source.ID, rec.Key, rec.State)

	default:
		r.result.SkippedCount++
		if rec.State.IsTerminal() && stored.State.IsTerminal() {
			r.completeRun++
		} else {
			r.completeRun = 0
		}
		if r.opts.StopAfterComplete > 0 && r.completeRun >= r.opts.StopAfterComplete {
			return errStopEarly
		}
	}
	return nil
}

// fetchDetail paces and fetches a record's detail. A fetch failure is
// stored as the failed-detail sentinel; only cancellation is returned.
func (r *syncRun) fetchDetail(ctx context.Context, rec domain.ListRecord) (domain.DetailFields, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return domain.DetailFields{}, err
	}
	detail, err := r.connector.FetchDetail(ctx, rec.Link)
	if err != nil {
		if ctx.Err() != nil {
			return domain.DetailFields{}, ctx.Err()
		}
		logger.Warn("Source %s: detail for %s failed: %v", r.source.ID, rec.Key, err)
		r.result.DetailFailures++
		r.o.updateStatus(func() { r.status.ErrorCount++ })
		return domain.FailedDetail(err), nil
	}
	return detail, nil
}
