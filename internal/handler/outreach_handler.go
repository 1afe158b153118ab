package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octobees/outreach-drafter/internal/apollo"
	"github.com/octobees/outreach-drafter/internal/config"
	"github.com/octobees/outreach-drafter/internal/draft"
	"github.com/octobees/outreach-drafter/internal/dto"
	"github.com/octobees/outreach-drafter/internal/entity"
	"github.com/octobees/outreach-drafter/internal/pipeline"
	"github.com/octobees/outreach-drafter/internal/service"
	"github.com/octobees/outreach-drafter/internal/sink"
)

// OutreachHandler exposes the interactive search, CSV conversion and export endpoints.
type OutreachHandler struct {
	outreach *service.OutreachService
	defaults config.DraftConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewOutreachHandler constructs an OutreachHandler.
func NewOutreachHandler(outreach *service.OutreachService, defaults config.DraftConfig, logger *zap.Logger) *OutreachHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutreachHandler{outreach: outreach, defaults: defaults, logger: logger, now: time.Now}
}

// SearchPeople handles GET /peoples. It streams one event frame per contact
// and a final frame once the batch is done. The batch keeps running if the
// client goes away.
func (h *OutreachHandler) SearchPeople(c echo.Context) error {
	var req dto.PeopleSearchRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid query parameters")
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)

	stream := &eventStream{c: c, logger: h.logger}
	ctx := context.WithoutCancel(c.Request().Context())

	refs, err := h.outreach.Search(ctx, req.Filter())
	if err != nil {
		h.logger.Warn("people search failed", zap.Error(err))
		frame := dto.StreamError{Error: "people search failed", Details: err.Error()}
		var apiErr *apollo.APIError
		switch {
		case errors.Is(err, apollo.ErrUnauthorized):
			frame = dto.StreamError{Error: "people-search service rejected credentials"}
		case errors.As(err, &apiErr):
			frame = dto.StreamError{Error: fmt.Sprintf("API request failed with status %d", apiErr.Status), Details: apiErr.Body}
		}
		stream.send(frame)
		return nil
	}

	results := make([]entity.EnrichedRecord, 0, len(refs))
	total := len(refs)
	h.outreach.Run(ctx, refs, h.options(draft.SchemaMailFields, req.Instructions, req.SenderName, req.SenderPosition, req.SenderContact), nil, func(p pipeline.Progress) {
		if p.Record != nil {
			results = append(results, *p.Record)
		}
		stream.send(dto.ProgressEvent{
			Success:     true,
			InProgress:  true,
			Progress:    p.Percent,
			TotalPeople: total,
			Results:     results,
		})
	})

	stream.send(dto.ProgressEvent{
		Success:     true,
		InProgress:  false,
		Progress:    100,
		TotalPeople: total,
		Results:     results,
	})
	return nil
}

// ProcessCSV handles POST /process-csv: an uploaded contacts export is drafted
// row by row and returned as CSV text.
func (h *OutreachHandler) ProcessCSV(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return Failure(c, http.StatusBadRequest, "a CSV file is required", string(pipeline.KindInvalidInput), nil)
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".csv") {
		return Failure(c, http.StatusBadRequest, "Uploaded file must be a CSV file", "file_type_error", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return Error(c, http.StatusInternalServerError, "unable to read uploaded file")
	}
	defer file.Close()

	refs, err := h.outreach.LoadCSV(file)
	if err != nil {
		var setupErr *pipeline.SetupError
		if errors.As(err, &setupErr) {
			return Failure(c, http.StatusBadRequest, setupErr.Error(), string(setupErr.Kind), setupErr.Missing)
		}
		return Error(c, http.StatusInternalServerError, "unable to parse CSV")
	}

	opts := h.options(draft.SchemaMailFields,
		c.FormValue("deepseek_prompt"), c.FormValue("your_name"), c.FormValue("your_position"), c.FormValue("your_contact"))

	var collected sink.Collector
	result := h.outreach.Run(context.WithoutCancel(c.Request().Context()), refs, opts, &collected, nil)

	records := collected.Records()
	if len(records) == 0 {
		return Failure(c, http.StatusBadRequest, "No valid rows could be processed from the CSV", "no_valid_rows", nil)
	}

	var buf bytes.Buffer
	if err := sink.NewRecordWriter(&buf).WriteAll(records); err != nil {
		return Error(c, http.StatusInternalServerError, "unable to render CSV")
	}

	return Success(c, http.StatusOK, "csv processed", dto.ProcessCSVResponse{
		TotalRows:  len(refs),
		Processed:  result.Summary.Processed,
		Status:     "complete",
		CSVContent: buf.String(),
		Filename:   fmt.Sprintf("processed_results_%s.csv", h.now().Format("2006-01-02")),
	})
}

// ExportCSV handles POST /export-csv: already drafted results come back in the
// body and are returned as a CSV attachment.
func (h *OutreachHandler) ExportCSV(c echo.Context) error {
	var req dto.ExportRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	var buf bytes.Buffer
	if err := sink.NewRecordWriter(&buf).WriteAll(req.Results); err != nil {
		return Error(c, http.StatusInternalServerError, "unable to render CSV")
	}

	filename := fmt.Sprintf("result_%s.csv", h.now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

// RunRecords handles GET /runs/:id/drafts.
func (h *OutreachHandler) RunRecords(c echo.Context) error {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid run id")
	}

	records, err := h.outreach.Records(c.Request().Context(), runID)
	if err != nil {
		if errors.Is(err, service.ErrStoreDisabled) {
			return Error(c, http.StatusServiceUnavailable, "record store is not configured")
		}
		h.logger.Error("list run records", zap.String("run_id", runID.String()), zap.Error(err))
		return Error(c, http.StatusInternalServerError, "unable to load records")
	}
	return Success(c, http.StatusOK, "", records)
}

func (h *OutreachHandler) options(schema draft.Schema, instructions, name, position, contact string) pipeline.Options {
	sender := h.defaults.Sender
	if v := strings.TrimSpace(name); v != "" {
		sender.Name = v
	}
	if v := strings.TrimSpace(position); v != "" {
		sender.Position = v
	}
	if v := strings.TrimSpace(contact); v != "" {
		sender.Contact = v
	}
	return pipeline.Options{
		Schema:          schema,
		Preamble:        h.defaults.Preamble,
		Instructions:    instructions,
		CompanyOverview: h.defaults.CompanyOverview,
		Sender:          sender,
	}
}

// eventStream writes "data: {json}\n\n" frames and flushes each one.
// After the first write error the remaining frames are dropped.
type eventStream struct {
	c      echo.Context
	logger *zap.Logger
	broken bool
}

func (s *eventStream) send(v any) {
	if s.broken {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encode stream frame", zap.Error(err))
		return
	}

	res := s.c.Response()
	if _, err := fmt.Fprintf(res, "data: %s\n\n", payload); err != nil {
		s.broken = true
		s.logger.Info("stream consumer went away, continuing batch", zap.Error(err))
		return
	}
	res.Flush()
}
