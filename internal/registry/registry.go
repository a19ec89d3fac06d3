package registry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RGPankO/ZapArc-sub002/internal/metrics"
	"github.com/RGPankO/ZapArc-sub002/internal/models"
)

// Callback receives a snapshot of a record after every state change.
// Callbacks run synchronously under the registry lock and must not call
// back into the registry.
type Callback func(models.PaymentRecord)

type entry struct {
	rec        *models.PaymentRecord
	callback   Callback
	finishedAt time.Time
}

// Registry owns every live PaymentRecord. All mutation goes through its
// methods; the mutex makes each record single-writer. Terminal records are
// purged by the janitor after their retention window.
type Registry struct {
	mu              sync.Mutex
	entries         map[string]*entry
	retention       time.Duration
	failedRetention time.Duration
	logger          *zap.Logger
}

func New(retention, failedRetention time.Duration, logger *zap.Logger) *Registry {
	return &Registry{
		entries:         make(map[string]*entry),
		retention:       retention,
		failedRetention: failedRetention,
		logger:          logger,
	}
}

// Create inserts a pending record for the intent and returns its id.
func (r *Registry) Create(intent *models.PaymentIntent, maxRetries int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	r.entries[id] = &entry{
		rec: &models.PaymentRecord{
			ID:          id,
			Status:      models.StatusPending,
			AmountSat:   intent.AmountSat,
			Destination: intent.Destination,
			Comment:     intent.Comment,
			MaxRetries:  maxRetries,
			CreatedAt:   time.Now(),
		},
	}
	metrics.ActivePayments.Set(float64(len(r.entries)))
	return id
}

// Get returns a snapshot of the record, if tracked.
func (r *Registry) Get(id string) (*models.PaymentRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	snap := *e.rec
	return &snap, true
}

// List returns snapshots of all currently tracked records.
func (r *Registry) List() []*models.PaymentRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*models.PaymentRecord, 0, len(r.entries))
	for _, e := range r.entries {
		snap := *e.rec
		out = append(out, &snap)
	}
	return out
}

// Subscribe registers the callback for the id, replacing any previous one.
// Only transitions occurring after subscription are delivered; reaching a
// terminal state before subscribing means no callbacks at all.
func (r *Registry) Subscribe(id string, cb Callback) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return false
	}
	e.callback = cb
	return true
}

// Cancel pre-empts a payment whose pipeline has not started consuming
// attempts yet. Only a pending record can be cancelled; anything else is
// left untouched and false is returned.
func (r *Registry) Cancel(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.rec.Status != models.StatusPending {
		return false
	}
	e.rec.Status = models.StatusCancelled
	e.finishedAt = time.Now()
	r.logger.Info("Payment cancelled", zap.String("payment_id", id))
	r.notifyLocked(e)
	return true
}

// MarkProcessing moves a pending record into processing. Returns false if
// the record is gone or was cancelled first, in which case the pipeline
// must stop.
func (r *Registry) MarkProcessing(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.rec.Status != models.StatusPending {
		return false
	}
	e.rec.Status = models.StatusProcessing
	r.notifyLocked(e)
	return true
}

// MarkAttempt records the attempt number about to run and notifies
// subscribers of the progress.
func (r *Registry) MarkAttempt(id string, attempt int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.rec.Status != models.StatusProcessing {
		return
	}
	now := time.Now()
	e.rec.RetryCount = attempt
	e.rec.LastRetryAt = &now
	r.notifyLocked(e)
}

// Finalize moves a record to a terminal status. Records that are already
// terminal are never finalized twice; the snapshot of the finalized record
// is returned for archiving.
func (r *Registry) Finalize(id string, status models.PaymentStatus, errMsg string) (*models.PaymentRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.rec.Status.Terminal() {
		return nil, false
	}
	e.rec.Status = status
	e.rec.Error = errMsg
	e.finishedAt = time.Now()
	r.notifyLocked(e)

	snap := *e.rec
	return &snap, true
}

// Reprocess moves a failed record back into processing for a manual retry,
// consuming one unit of its retry budget. Refused when the budget is
// already spent, so retryCount never exceeds maxRetries even under
// concurrent retry requests. Returns the new retry count.
func (r *Registry) Reprocess(id string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.rec.Status != models.StatusFailed {
		return 0, false
	}
	if e.rec.RetryCount >= e.rec.MaxRetries {
		return 0, false
	}
	now := time.Now()
	e.rec.Status = models.StatusProcessing
	e.rec.RetryCount++
	e.rec.LastRetryAt = &now
	e.rec.Error = ""
	e.finishedAt = time.Time{}
	r.notifyLocked(e)
	return e.rec.RetryCount, true
}

// SetError replaces the error message of a failed record without a status
// transition. Used when a manual retry fails re-validation.
func (r *Registry) SetError(id, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.rec.Status != models.StatusFailed {
		return
	}
	e.rec.Error = msg
}

func (r *Registry) notifyLocked(e *entry) {
	if e.callback == nil {
		return
	}
	e.callback(*e.rec)
}

// RunJanitor purges terminal records past their retention window until ctx
// is done. Failed records are kept longer so a manual retry stays possible.
func (r *Registry) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.purgeExpired()
		}
	}
}

func (r *Registry) purgeExpired() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for id, e := range r.entries {
		if !e.rec.Status.Terminal() || e.finishedAt.IsZero() {
			continue
		}
		window := r.retention
		if e.rec.Status == models.StatusFailed {
			window = r.failedRetention
		}
		if now.Sub(e.finishedAt) >= window {
			delete(r.entries, id)
			r.logger.Debug("Purged terminal payment record",
				zap.String("payment_id", id),
				zap.String("status", string(e.rec.Status)),
			)
		}
	}
	metrics.ActivePayments.Set(float64(len(r.entries)))
}
