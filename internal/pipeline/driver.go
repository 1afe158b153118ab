package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/octobees/outreach-drafter/internal/completion"
	"github.com/octobees/outreach-drafter/internal/draft"
	"github.com/octobees/outreach-drafter/internal/entity"
	"github.com/octobees/outreach-drafter/internal/metrics"
	"github.com/octobees/outreach-drafter/internal/profile"
)

// ContactRef identifies one contact: a people-search id or an input CSV row.
type ContactRef struct {
	ID  string
	Row map[string]string
}

// FetchResult is the raw profile for a contact, or the reason it is absent.
type FetchResult struct {
	Document map[string]any
	Row      map[string]string
	Failure  string
}

// Absent reports a fetch failure. An empty document is still present.
func (r FetchResult) Absent() bool {
	return r.Failure != "" || (r.Document == nil && r.Row == nil)
}

// Fetcher resolves a contact reference to a raw profile.
type Fetcher interface {
	Fetch(ctx context.Context, ref ContactRef) FetchResult
}

// Sink receives finished records.
type Sink interface {
	Append(ctx context.Context, record entity.EnrichedRecord) error
}

// Options is the per-run drafting context.
type Options struct {
	Schema          draft.Schema
	Preamble        string
	Instructions    string
	CompanyOverview string
	Sender          entity.SenderIdentity
}

// Progress is reported after every contact, including skipped ones.
type Progress struct {
	Attempted int
	Total     int
	Percent   float64
	Skipped   bool
	Record    *entity.EnrichedRecord
}

// ProgressFunc is called synchronously; the next contact starts once it returns.
type ProgressFunc func(Progress)

// Summary counts the outcome of a run.
type Summary struct {
	Total       int
	Attempted   int
	Skipped     int
	Processed   int
	Drafted     int
	Unpersisted int
}

// Driver runs the enrichment-and-draft pipeline over a list of contacts, one at a time.
type Driver struct {
	fetcher    Fetcher
	completer  completion.Completer
	normalizer *profile.Normalizer
	sink       Sink
	logger     *zap.Logger
}

// NewDriver wires the collaborators. sink may be nil when records are only streamed.
func NewDriver(fetcher Fetcher, completer completion.Completer, normalizer *profile.Normalizer, sink Sink, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if normalizer == nil {
		normalizer = profile.NewNormalizer("")
	}
	return &Driver{fetcher: fetcher, completer: completer, normalizer: normalizer, sink: sink, logger: logger}
}

// Run processes refs in order. Per-contact failures are logged and counted;
// nothing a single contact does stops the loop. The driver does not watch ctx
// for cancellation between contacts.
func (d *Driver) Run(ctx context.Context, refs []ContactRef, opts Options, report ProgressFunc) Summary {
	summary := Summary{Total: len(refs)}
	parser := draft.NewParser(opts.Schema, d.logger)

	for i, ref := range refs {
		summary.Attempted = i + 1
		metrics.ContactsAttempted.Inc()
		d.logger.Info("processing contact", zap.Int("index", i+1), zap.Int("total", summary.Total), zap.String("id", ref.ID))

		record, ok := d.processContact(ctx, ref, opts, parser, &summary)

		progress := Progress{
			Attempted: summary.Attempted,
			Total:     summary.Total,
			Percent:   float64(summary.Attempted) / float64(summary.Total) * 100,
			Skipped:   !ok,
		}
		if ok {
			progress.Record = &record
		}
		d.logger.Sugar().Infof("progress: %.1f%% complete (%d/%d)", progress.Percent, progress.Attempted, progress.Total)
		if report != nil {
			report(progress)
		}
	}
	return summary
}

func (d *Driver) processContact(ctx context.Context, ref ContactRef, opts Options, parser *draft.Parser, summary *Summary) (entity.EnrichedRecord, bool) {
	fetched := d.fetcher.Fetch(ctx, ref)
	if fetched.Absent() {
		summary.Skipped++
		metrics.ContactsSkipped.Inc()
		d.logger.Warn("skipping contact, no profile data", zap.String("id", ref.ID), zap.String("reason", fetched.Failure))
		return entity.EnrichedRecord{}, false
	}

	var contact entity.ContactProfile
	if fetched.Row != nil {
		contact = d.normalizer.FromCSVRow(fetched.Row)
	} else {
		contact = d.normalizer.FromPeopleMatch(fetched.Document)
	}

	prompt := draft.BuildPrompt(opts.Schema, draft.PromptInput{
		Preamble:        opts.Preamble,
		Profile:         contact,
		Instructions:    opts.Instructions,
		Sender:          opts.Sender,
		CompanyOverview: opts.CompanyOverview,
	})

	var drafts []entity.DraftPair
	if res := d.completer.Complete(ctx, prompt); res.OK() {
		drafts = parser.Parse(res.Text)
		if len(drafts) == 0 {
			metrics.ParseFailures.Inc()
		}
	} else {
		metrics.CompletionFailures.Inc()
		d.logger.Warn("completion failed", zap.String("contact", contact.DisplayName()), zap.Error(res.Err))
	}

	fields, drafted := draft.MapDrafts(drafts)
	if drafted {
		summary.Drafted++
	} else {
		d.logger.Error("no email drafts generated", zap.String("contact", contact.DisplayName()))
	}

	record := entity.NewEnrichedRecord(contact, fields)
	summary.Processed++
	metrics.RecordsEmitted.Inc()

	if d.sink != nil {
		if err := d.sink.Append(ctx, record); err != nil {
			summary.Unpersisted++
			metrics.SinkFailures.Inc()
			d.logger.Error("failed to persist record", zap.Int("row", summary.Processed), zap.String("contact", contact.DisplayName()), zap.Error(err))
		} else {
			d.logger.Info("record written", zap.Int("row", summary.Processed), zap.String("contact", contact.DisplayName()))
		}
	}
	return record, true
}
