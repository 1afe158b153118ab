package pipeline

import (
	"context"
	"errors"

	"github.com/octobees/outreach-drafter/internal/entity"
)

// MultiSink forwards each record to every sink and joins their errors.
type MultiSink []Sink

// Append writes record to all sinks, continuing past failures.
func (m MultiSink) Append(ctx context.Context, record entity.EnrichedRecord) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Append(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ Sink = MultiSink(nil)
