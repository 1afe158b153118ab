package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/octobees/outreach-drafter/internal/completion"
	"github.com/octobees/outreach-drafter/internal/draft"
	"github.com/octobees/outreach-drafter/internal/entity"
	"github.com/octobees/outreach-drafter/internal/sink"
)

type fetchStub struct {
	failures map[string]bool
	calls    []string
}

func (f *fetchStub) Fetch(_ context.Context, ref ContactRef) FetchResult {
	f.calls = append(f.calls, ref.ID)
	if ref.Row != nil {
		return FetchResult{Row: ref.Row}
	}
	if f.failures[ref.ID] {
		return FetchResult{Failure: "API request failed with status 404"}
	}
	return FetchResult{Document: map[string]any{
		"person": map[string]any{
			"first_name": "First-" + ref.ID,
			"email":      ref.ID + "@acme.io",
			"organization": map[string]any{
				"name":        "Acme",
				"website_url": "https://acme.io",
			},
		},
	}}
}

type completerStub struct {
	text    string
	err     error
	prompts []string
}

func (c *completerStub) Complete(_ context.Context, prompt string) completion.Result {
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return completion.Result{Err: c.err}
	}
	return completion.Result{Text: c.text}
}

type failingSink struct {
	failOn string
	got    []entity.EnrichedRecord
}

func (s *failingSink) Append(_ context.Context, record entity.EnrichedRecord) error {
	if record.Email == s.failOn {
		return errors.New("disk full")
	}
	s.got = append(s.got, record)
	return nil
}

const twoDrafts = "```json\n[{\"subject\":\"Hi\",\"body\":\"Hello’s\"},{\"subject\":\"Again\",\"body\":\"Ping\"}]\n```"

func refs(ids ...string) []ContactRef {
	out := make([]ContactRef, 0, len(ids))
	for _, id := range ids {
		out = append(out, ContactRef{ID: id})
	}
	return out
}

func TestRunAllContactsSucceed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.csv")
	csvSink, err := sink.NewCSVFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	comp := &completerStub{text: twoDrafts}
	d := NewDriver(&fetchStub{}, comp, nil, csvSink, nil)

	var percents []float64
	var records []entity.EnrichedRecord
	summary := d.Run(context.Background(), refs("a", "b", "c"), Options{Schema: draft.SchemaSubjectBody}, func(p Progress) {
		percents = append(percents, math.Round(p.Percent*10)/10)
		if p.Record != nil {
			records = append(records, *p.Record)
		}
	})

	want := []float64{33.3, 66.7, 100}
	if fmt.Sprint(percents) != fmt.Sprint(want) {
		t.Fatalf("expected progress %v, got %v", want, percents)
	}
	if summary.Processed != 3 || summary.Drafted != 3 || summary.Skipped != 0 || summary.Unpersisted != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(records) != 3 || records[0].PrimaryBody != "Hello's" || records[2].FollowupSubject != "Again" {
		t.Fatalf("unexpected records: %+v", records)
	}
	if len(comp.prompts) != 3 || !strings.Contains(comp.prompts[0], "First-a") {
		t.Fatalf("expected one prompt per contact carrying the profile")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\r\n"), "\r\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d:\n%s", len(lines), raw)
	}
	if strings.Count(string(raw), `"EMAIL"`) != 1 {
		t.Fatalf("expected a single header row")
	}
	if !strings.HasPrefix(lines[1], `"a@acme.io","https://acme.io","First-a"`) {
		t.Fatalf("unexpected first row: %s", lines[1])
	}
}

func TestRunSkipsAbsentProfiles(t *testing.T) {
	out := &failingSink{}
	fetcher := &fetchStub{failures: map[string]bool{"a": true}}
	d := NewDriver(fetcher, &completerStub{text: twoDrafts}, nil, out, nil)

	var progress []Progress
	summary := d.Run(context.Background(), refs("a", "b"), Options{}, func(p Progress) {
		progress = append(progress, p)
	})

	if len(out.got) != 1 || out.got[0].Email != "b@acme.io" {
		t.Fatalf("expected only the second contact written, got %+v", out.got)
	}
	if summary.Skipped != 1 || summary.Processed != 1 || summary.Attempted != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(progress) != 2 {
		t.Fatalf("expected progress after every contact, got %d", len(progress))
	}
	for _, p := range progress {
		if p.Total != 2 {
			t.Fatalf("expected denominator 2, got %d", p.Total)
		}
	}
	if !progress[0].Skipped || progress[0].Record != nil || progress[0].Percent != 50 {
		t.Fatalf("unexpected first progress: %+v", progress[0])
	}
}

func TestRunEmitsProfileWhenDraftingFails(t *testing.T) {
	cases := map[string]*completerStub{
		"completion error":  {err: errors.New("timeout")},
		"unparseable reply": {text: "I cannot help with that."},
	}
	for name, comp := range cases {
		t.Run(name, func(t *testing.T) {
			out := &failingSink{}
			summary := NewDriver(&fetchStub{}, comp, nil, out, nil).Run(context.Background(), refs("a"), Options{}, nil)
			if len(out.got) != 1 {
				t.Fatalf("expected profile-only record, got %d", len(out.got))
			}
			if out.got[0].DraftFields != (entity.DraftFields{}) || out.got[0].FirstName != "First-a" {
				t.Fatalf("unexpected record: %+v", out.got[0])
			}
			if summary.Drafted != 0 || summary.Processed != 1 {
				t.Fatalf("unexpected summary: %+v", summary)
			}
		})
	}
}

func TestRunContinuesPastSinkFailure(t *testing.T) {
	out := &failingSink{failOn: "a@acme.io"}
	summary := NewDriver(&fetchStub{}, &completerStub{text: twoDrafts}, nil, out, nil).
		Run(context.Background(), refs("a", "b"), Options{}, nil)

	if summary.Unpersisted != 1 || summary.Processed != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(out.got) != 1 || out.got[0].Email != "b@acme.io" {
		t.Fatalf("expected second record persisted, got %+v", out.got)
	}
}

func TestRunWithCSVRows(t *testing.T) {
	row := map[string]string{"First Name": "Ada", "Email": "ada@acme.io", "Company": "Acme", "Industry": "Health, Wellness & Fitness", "Technologies": "Go, Postgres"}
	comp := &completerStub{text: `[{"Mail Subject":"Offer","Main Email":"Body"}]`}
	var c sink.Collector

	NewDriver(&fetchStub{}, comp, nil, &c, nil).Run(context.Background(), []ContactRef{{Row: row}}, Options{Schema: draft.SchemaMailFields}, nil)

	got := c.Records()
	if len(got) != 1 || got[0].FirstName != "Ada" || got[0].PrimarySubject != "Offer" || got[0].FollowupSubject != "" {
		t.Fatalf("unexpected records: %+v", got)
	}
	if !strings.Contains(comp.prompts[0], `"technology_names":["Go","Postgres"]`) {
		t.Fatalf("expected split technologies in prompt, got %s", comp.prompts[0])
	}
	if !strings.Contains(comp.prompts[0], `"industries":["Health, Wellness \u0026 Fitness"]`) {
		t.Fatalf("expected industry kept whole in prompt, got %s", comp.prompts[0])
	}
}

func TestMultiSinkJoinsErrors(t *testing.T) {
	good := &failingSink{}
	bad := &failingSink{failOn: "x"}
	err := MultiSink{good, nil, bad}.Append(context.Background(), entity.EnrichedRecord{Email: "x"})
	if err == nil || len(good.got) != 1 {
		t.Fatalf("expected error from failing sink and write to healthy sink, err=%v", err)
	}
}

func TestSetupErrorMessage(t *testing.T) {
	err := &SetupError{Kind: KindMissingColumns, Message: "missing required columns", Missing: []string{"Industry"}}
	if err.Error() != "missing_columns: missing required columns: Industry" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
	wrapped := &SetupError{Kind: KindDestinationUnresolvable, Message: "resolve", Err: os.ErrPermission}
	if !errors.Is(wrapped, os.ErrPermission) {
		t.Fatalf("expected wrapped error to unwrap")
	}
}
