package export

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goliatone/go-cvbuilder/cv"
)

// MemoryTracker is an in-memory export history.
type MemoryTracker struct {
	mu      sync.RWMutex
	records map[string]ExportRecord
	counter uint64
	Now     func() time.Time
}

// NewMemoryTracker creates an in-memory tracker.
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{records: make(map[string]ExportRecord), Now: time.Now}
}

// Start creates a new record.
func (t *MemoryTracker) Start(ctx context.Context, record ExportRecord) (string, error) {
	_ = ctx
	if record.ID == "" {
		record.ID = t.nextID()
	}
	if record.State == "" {
		record.State = StateRunning
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = t.now()
	}

	t.mu.Lock()
	t.records[record.ID] = record
	t.mu.Unlock()
	return record.ID, nil
}

// Complete marks the export as completed.
func (t *MemoryTracker) Complete(ctx context.Context, id string, outcome Outcome) error {
	_ = ctx
	return t.update(id, func(record *ExportRecord) {
		record.State = StateCompleted
		record.Strategy = outcome.Strategy
		record.FellBack = outcome.FellBack
		record.Pages = outcome.Pages
		record.Bytes = outcome.Bytes
		record.CompletedAt = t.now()
	})
}

// Fail records failure state.
func (t *MemoryTracker) Fail(ctx context.Context, id string, err error) error {
	_ = ctx
	return t.update(id, func(record *ExportRecord) {
		record.State = StateFailed
		if err != nil {
			record.Error = err.Error()
		}
		record.CompletedAt = t.now()
	})
}

// Status returns a record by ID.
func (t *MemoryTracker) Status(ctx context.Context, id string) (ExportRecord, error) {
	_ = ctx
	t.mu.RLock()
	record, ok := t.records[id]
	t.mu.RUnlock()
	if !ok {
		return ExportRecord{}, cv.NewError(cv.KindNotFound, fmt.Sprintf("export %q not found", id), nil)
	}
	return record, nil
}

// List returns records matching filter, newest first.
func (t *MemoryTracker) List(ctx context.Context, filter ProgressFilter) ([]ExportRecord, error) {
	_ = ctx
	result := []ExportRecord{}

	t.mu.RLock()
	for _, record := range t.records {
		if filter.State != "" && record.State != filter.State {
			continue
		}
		result = append(result, record)
	}
	t.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (t *MemoryTracker) update(id string, fn func(*ExportRecord)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	record, ok := t.records[id]
	if !ok {
		return cv.NewError(cv.KindNotFound, fmt.Sprintf("export %q not found", id), nil)
	}
	fn(&record)
	t.records[id] = record
	return nil
}

func (t *MemoryTracker) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t *MemoryTracker) nextID() string {
	id := atomic.AddUint64(&t.counter, 1)
	return fmt.Sprintf("exp-%d", id)
}
