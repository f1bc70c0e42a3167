package insight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"sales-analytics/internal/metrics"
)

var ErrEmptyQuestion = errors.New("question is empty")

const (
	MissingJoinNotice = "The query returned client_id without client_name, which might indicate missing joins or deleted records."
	FallbackSummary   = "The query ran successfully, but a written summary is unavailable right now. See the data preview."
)

type Completer interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

type QueryRunner interface {
	RunReadOnlyQuery(ctx context.Context, query string, maxRows int) ([]map[string]any, error)
}

type Recorder interface {
	InsightAnswered(outcome string)
}

type Options struct {
	MaxRows       int
	PreviewRows   int
	ReferenceYear int
}

// Answer is returned even alongside ErrUnsafeQuery so callers can show the rejected SQL.
type Answer struct {
	Insight     string           `json:"insight"`
	SQLUsed     string           `json:"sql_used"`
	DataPreview []map[string]any `json:"data_preview"`
}

type Service struct {
	log      *slog.Logger
	llm      Completer
	guard    Guard
	runner   QueryRunner
	recorder Recorder
	opts     Options
}

func New(log *slog.Logger, llm Completer, guard Guard, runner QueryRunner, recorder Recorder, opts Options) *Service {
	if opts.MaxRows <= 0 {
		opts.MaxRows = 200
	}
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = 5
	}
	if opts.ReferenceYear == 0 {
		opts.ReferenceYear = 2024
	}

	return &Service{log: log, llm: llm, guard: guard, runner: runner, recorder: recorder, opts: opts}
}

// Ask turns a question into SQL, runs it if the guard allows, and summarizes the rows.
func (s *Service) Ask(ctx context.Context, question string) (*Answer, error) {
	const op = "service.insight.Ask"

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	reply, err := s.llm.Complete(ctx, sqlPrompt(question, s.opts.ReferenceYear))
	if err != nil {
		s.recorder.InsightAnswered(metrics.OutcomeFailed)
		return nil, fmt.Errorf("%s: generate sql: %w", op, err)
	}

	query := CleanSQL(reply)
	answer := &Answer{SQLUsed: query, DataPreview: []map[string]any{}}

	if query == "" {
		s.recorder.InsightAnswered(metrics.OutcomeRejected)
		return answer, fmt.Errorf("%s: %w: model returned no statement", op, ErrUnsafeQuery)
	}

	if err := s.guard.Check(query); err != nil {
		s.log.Warn("generated query rejected",
			slog.String("op", op),
			slog.String("sql", query),
			slog.String("reason", err.Error()),
		)
		s.recorder.InsightAnswered(metrics.OutcomeRejected)
		return answer, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.runner.RunReadOnlyQuery(ctx, query, s.opts.MaxRows)
	if err != nil {
		s.recorder.InsightAnswered(metrics.OutcomeFailed)
		return answer, fmt.Errorf("%s: run generated query: %w", op, err)
	}

	answer.DataPreview = rows[:min(len(rows), s.opts.PreviewRows)]

	if missingClientName(rows) {
		answer.Insight = MissingJoinNotice
		s.recorder.InsightAnswered(metrics.OutcomeNotice)
		return answer, nil
	}

	summary, err := s.llm.Complete(ctx, summarize(question, rows))
	if err != nil {
		s.log.Warn("summary unavailable, using fallback",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
		summary = FallbackSummary
	}

	answer.Insight = strings.TrimSpace(summary)
	s.recorder.InsightAnswered(metrics.OutcomeAnswered)

	return answer, nil
}

func missingClientName(rows []map[string]any) bool {
	if len(rows) == 0 {
		return false
	}

	_, hasID := rows[0]["client_id"]
	_, hasName := rows[0]["client_name"]

	return hasID && !hasName
}
