package draft

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/octobees/outreach-drafter/internal/entity"
)

const (
	jsonFence    = "```json"
	closingFence = "```"
	excerptLimit = 200
)

// ErrNoDrafts reports that a completion could not be turned into drafts.
var ErrNoDrafts = errors.New("no drafts in completion")

// Extract pulls up to two drafts out of free-form completion text. Elements are
// positional: the first is the primary draft, the second the follow-up; any
// further elements are ignored.
func Extract(text string, schema Schema) ([]entity.DraftPair, error) {
	payload := locatePayload(text)

	var elements []map[string]any
	if err := json.Unmarshal([]byte(payload), &elements); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDrafts, err)
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: empty array", ErrNoDrafts)
	}

	if len(elements) > 2 {
		elements = elements[:2]
	}
	drafts := make([]entity.DraftPair, 0, len(elements))
	for i, element := range elements {
		subjectKey, bodyKey := schema.keys(i)
		drafts = append(drafts, entity.DraftPair{
			Subject: normalizeQuotes(stringField(element, subjectKey)),
			Body:    normalizeQuotes(stringField(element, bodyKey)),
		})
	}
	return drafts, nil
}

// locatePayload prefers the last ```json fence, then the outermost [...] span,
// then the text as-is.
func locatePayload(text string) string {
	if idx := strings.LastIndex(text, jsonFence); idx >= 0 {
		rest := text[idx+len(jsonFence):]
		if end := strings.Index(rest, closingFence); end >= 0 {
			rest = rest[:end]
		}
		return strings.TrimSpace(rest)
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

func stringField(element map[string]any, key string) string {
	s, _ := element[key].(string)
	return s
}

func normalizeQuotes(s string) string {
	return strings.ReplaceAll(s, "’", "'")
}

// Parser wraps Extract with failure logging so callers always get a slice.
type Parser struct {
	schema Schema
	logger *zap.Logger
}

// NewParser builds a parser for the given response schema.
func NewParser(schema Schema, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{schema: schema, logger: logger}
}

// Parse returns the drafts found in text, or nil when none could be parsed.
func (p *Parser) Parse(text string) []entity.DraftPair {
	drafts, err := Extract(text, p.schema)
	if err != nil {
		p.logger.Error("error extracting email data",
			zap.Error(err),
			zap.String("schema", p.schema.String()),
			zap.String("raw_content", excerpt(text)),
		)
		return nil
	}
	return drafts
}

func excerpt(s string) string {
	runes := []rune(s)
	if len(runes) <= excerptLimit {
		return s
	}
	return string(runes[:excerptLimit]) + "..."
}
