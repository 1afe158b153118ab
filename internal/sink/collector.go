package sink

import (
	"context"
	"sync"

	"github.com/octobees/outreach-drafter/internal/entity"
)

// Collector keeps records in memory in arrival order.
type Collector struct {
	mu      sync.Mutex
	records []entity.EnrichedRecord
}

// Append stores a copy of record.
func (c *Collector) Append(_ context.Context, record entity.EnrichedRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, record)
	return nil
}

// Records returns the collected records.
func (c *Collector) Records() []entity.EnrichedRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]entity.EnrichedRecord, len(c.records))
	copy(out, c.records)
	return out
}
