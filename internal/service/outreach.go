package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/octobees/outreach-drafter/internal/apollo"
	"github.com/octobees/outreach-drafter/internal/completion"
	"github.com/octobees/outreach-drafter/internal/dto"
	"github.com/octobees/outreach-drafter/internal/entity"
	"github.com/octobees/outreach-drafter/internal/pipeline"
	"github.com/octobees/outreach-drafter/internal/profile"
	"github.com/octobees/outreach-drafter/internal/repository"
	"github.com/octobees/outreach-drafter/internal/sink"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// RunResult identifies a finished run and its counters.
type RunResult struct {
	ID      uuid.UUID
	Summary pipeline.Summary
}

// OutreachService wires the people-search client, the completion backend and
// the optional record store around the pipeline driver.
type OutreachService struct {
	searcher   apollo.Searcher
	matcher    apollo.Matcher
	completer  completion.Completer
	normalizer *profile.Normalizer
	drafts     repository.DraftsRepository
	logger     *zap.Logger
}

// NewOutreachService constructs the service. drafts may be nil.
func NewOutreachService(searcher apollo.Searcher, matcher apollo.Matcher, completer completion.Completer, normalizer *profile.Normalizer, drafts repository.DraftsRepository, logger *zap.Logger) *OutreachService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutreachService{
		searcher:   searcher,
		matcher:    matcher,
		completer:  completer,
		normalizer: normalizer,
		drafts:     drafts,
		logger:     logger,
	}
}

// Search lists matching contacts. Rejected credentials surface as
// apollo.ErrUnauthorized; every other failure is a search_failed setup error.
func (s *OutreachService) Search(ctx context.Context, filter dto.PeopleSearchFilter) ([]pipeline.ContactRef, error) {
	ids, err := s.searcher.SearchPeople(ctx, filter)
	if err != nil {
		if errors.Is(err, apollo.ErrUnauthorized) {
			return nil, err
		}
		return nil, &pipeline.SetupError{Kind: pipeline.KindSearchFailed, Message: "people search failed", Err: err}
	}

	refs := make([]pipeline.ContactRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, pipeline.ContactRef{ID: id})
	}
	s.logger.Info("people search complete", zap.Int("contacts", len(refs)))
	return refs, nil
}

// LoadCSV reads an exported contacts file. The header must carry every
// required column; malformed rows and rows whose cell count does not match the
// header are skipped. A read failure aborts the load.
func (s *OutreachService) LoadCSV(r io.Reader) ([]pipeline.ContactRef, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &pipeline.SetupError{Kind: pipeline.KindInvalidInput, Message: "input file is empty"}
		}
		return nil, &pipeline.SetupError{Kind: pipeline.KindInvalidInput, Message: "could not read header row", Err: err}
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if missing := missingColumns(header); len(missing) > 0 {
		return nil, &pipeline.SetupError{Kind: pipeline.KindMissingColumns, Message: "missing required columns", Missing: missing}
	}

	var refs []pipeline.ContactRef
	for line := 2; ; line++ {
		values, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, &pipeline.SetupError{Kind: pipeline.KindInvalidInput, Message: "could not read input", Err: err}
			}
			s.logger.Warn("skipping malformed row", zap.Int("line", line), zap.Error(err))
			continue
		}
		if len(values) != len(header) {
			s.logger.Warn("skipping row with unexpected cell count", zap.Int("line", line), zap.Int("cells", len(values)))
			continue
		}

		row := make(map[string]string, len(header))
		for i, column := range header {
			row[column] = values[i]
		}
		refs = append(refs, pipeline.ContactRef{ID: fmt.Sprintf("row-%d", line), Row: row})
	}
	return refs, nil
}

func missingColumns(header []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}
	var missing []string
	for _, column := range profile.RequiredColumns {
		if _, ok := present[column]; !ok {
			missing = append(missing, column)
		}
	}
	return missing
}

// OpenDestination resolves requested to a path that does not exist yet and
// binds a CSV sink to it.
func (s *OutreachService) OpenDestination(requested string) (*sink.CSVFile, error) {
	path, err := sink.ResolveDestination(requested)
	if err != nil {
		return nil, &pipeline.SetupError{Kind: pipeline.KindDestinationUnresolvable, Message: "could not resolve output file", Err: err}
	}
	file, err := sink.NewCSVFile(path)
	if err != nil {
		return nil, &pipeline.SetupError{Kind: pipeline.KindDestinationUnresolvable, Message: "could not open output file", Err: err}
	}
	s.logger.Info("writing results", zap.String("path", path))
	return file, nil
}

// Run drives the pipeline over refs. out may be nil; when a record store is
// configured every record is also stored under the returned run id.
func (s *OutreachService) Run(ctx context.Context, refs []pipeline.ContactRef, opts pipeline.Options, out pipeline.Sink, report pipeline.ProgressFunc) RunResult {
	runID := uuid.New()
	logger := s.logger.With(zap.String("run_id", runID.String()))

	sinks := pipeline.MultiSink{}
	if out != nil {
		sinks = append(sinks, out)
	}
	if s.drafts != nil {
		sinks = append(sinks, &storeSink{repo: s.drafts, runID: runID})
	}

	driver := pipeline.NewDriver(&contactFetcher{matcher: s.matcher}, s.completer, s.normalizer, sinks, logger)
	summary := driver.Run(ctx, refs, opts, report)

	logger.Info("batch complete",
		zap.Int("total", summary.Total),
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("drafted", summary.Drafted),
		zap.Int("unpersisted", summary.Unpersisted),
	)
	return RunResult{ID: runID, Summary: summary}
}

// Records returns what the record store holds for a run.
func (s *OutreachService) Records(ctx context.Context, runID uuid.UUID) ([]entity.EnrichedRecord, error) {
	if s.drafts == nil {
		return nil, ErrStoreDisabled
	}
	return s.drafts.ListByRun(ctx, runID)
}

// ErrStoreDisabled is returned when no database is configured.
var ErrStoreDisabled = errors.New("record store is not configured")

// contactFetcher dispatches on the kind of reference: CSV rows are already
// raw profiles, ids go to the people-search service.
type contactFetcher struct {
	matcher apollo.Matcher
}

func (f *contactFetcher) Fetch(ctx context.Context, ref pipeline.ContactRef) pipeline.FetchResult {
	if ref.Row != nil {
		return pipeline.FetchResult{Row: ref.Row}
	}
	if f.matcher == nil {
		return pipeline.FetchResult{Failure: "people-search client not configured"}
	}
	res := f.matcher.MatchPerson(ctx, ref.ID)
	if !res.OK() {
		return pipeline.FetchResult{Failure: res.Failure}
	}
	return pipeline.FetchResult{Document: res.Person}
}

type storeSink struct {
	repo  repository.DraftsRepository
	runID uuid.UUID
}

func (s *storeSink) Append(ctx context.Context, record entity.EnrichedRecord) error {
	return s.repo.Insert(ctx, s.runID, record)
}
