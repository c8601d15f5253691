// Package service fronts the validation pipeline with the side-effecting
// concerns: event emission, metrics, tracing, and logging. The pipeline
// stays pure apart from reference-data lookups; everything observable
// happens here, and only after a pass completes without faults.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/match"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/metrics"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/pipeline"
	"github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/problems"

	casefileevents "github.com/hmcts/cpp-context-prosecution-casefile-sub008/internal/casefile/events"
)

const tracerName = "casefile/service"

// Service validates submissions and emits the resulting outcome events.
type Service struct {
	pipeline *pipeline.Pipeline
	sink     casefileevents.Sink
	metrics  *metrics.Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New constructs the casefile service.
func New(p *pipeline.Pipeline, sink casefileevents.Sink, opts ...Option) (*Service, error) {
	if p == nil {
		return nil, fmt.Errorf("pipeline is required")
	}
	if sink == nil {
		return nil, fmt.Errorf("event sink is required")
	}

	s := &Service{
		pipeline: p,
		sink:     sink,
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ValidateSubmission validates one case submission, records observability,
// and emits the outcome events. A collaborator fault abandons the pass with
// no events emitted.
func (s *Service) ValidateSubmission(ctx context.Context, sub pipeline.Submission) (*pipeline.Outcome, error) {
	ctx, span := s.tracer.Start(ctx, "casefile.validate_submission",
		trace.WithAttributes(
			attribute.String("case.id", sub.Case.CaseID),
			attribute.String("case.channel", string(sub.Case.Channel)),
		))
	defer span.End()

	start := time.Now()
	outcome, err := s.pipeline.ValidateDefendants(ctx, sub)
	if err != nil {
		span.RecordError(err)
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "validation pass abandoned",
				"case_id", sub.Case.CaseID,
				"error", err,
			)
		}
		return nil, err
	}

	s.record(ctx, sub.Case.CaseID, string(sub.Case.Channel), outcome, time.Since(start))
	if err := s.emit(ctx, outcome); err != nil {
		return nil, err
	}
	return outcome, nil
}

// ValidateGroupSubmission validates a multi-case group submission.
func (s *Service) ValidateGroupSubmission(ctx context.Context, sub pipeline.GroupSubmission) (*pipeline.Outcome, error) {
	ctx, span := s.tracer.Start(ctx, "casefile.validate_group",
		trace.WithAttributes(
			attribute.String("group.reference", sub.Flags.GroupReference),
			attribute.Int("group.case_count", len(sub.Cases)),
		))
	defer span.End()

	start := time.Now()
	outcome, err := s.pipeline.ValidateGroup(ctx, sub)
	if err != nil {
		span.RecordError(err)
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "group validation pass abandoned",
				"group_reference", sub.Flags.GroupReference,
				"error", err,
			)
		}
		return nil, err
	}

	channel := ""
	if len(sub.Cases) > 0 {
		channel = string(sub.Cases[0].Details.Channel)
	}
	s.record(ctx, sub.Flags.GroupReference, channel, outcome, time.Since(start))
	if err := s.emit(ctx, outcome); err != nil {
		return nil, err
	}
	return outcome, nil
}

func (s *Service) record(ctx context.Context, subject, channel string, outcome *pipeline.Outcome, elapsed time.Duration) {
	s.metrics.IncOutcome(string(outcome.Status), channel)
	s.metrics.ObserveValidateLatency(elapsed)
	for _, p := range outcome.GroupProblems {
		s.metrics.IncProblem(string(p.Code), "error")
	}
	for _, dp := range outcome.DefendantProblems {
		for _, p := range dp.Problems {
			s.metrics.IncProblem(string(p.Code), "error")
		}
	}
	for _, dp := range outcome.Warnings {
		for _, p := range dp.Problems {
			s.metrics.IncProblem(string(p.Code), "warning")
		}
	}

	// Material events carry the matching outcome for external references:
	// added or rejected means the reference resolved, pending means it
	// did not.
	for _, ev := range outcome.Events {
		switch ev.Type {
		case casefileevents.TypeMaterialAdded, casefileevents.TypeMaterialRejected:
			s.metrics.IncMatchOutcome(string(match.OutcomeMatched))
		case casefileevents.TypeMaterialPending:
			result := match.OutcomeUnmatched
			for _, code := range problems.Codes(ev.Problems) {
				if code == problems.CodeDefendantMatchAmbiguous {
					result = match.OutcomeAmbiguous
				}
			}
			s.metrics.IncMatchOutcome(string(result))
		}
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "validation pass complete",
			"subject", subject,
			"channel", channel,
			"status", outcome.Status,
			"error_count", len(outcome.DefendantProblems)+len(outcome.GroupProblems),
			"warning_count", len(outcome.Warnings),
			"duration_ms", elapsed.Milliseconds(),
		)
	}
}

// emit publishes the pass's events in order. Emission happens only after a
// successful pass, so a fault mid-pass never produces partial output; a
// fault mid-emission is surfaced for the surrounding infrastructure to
// retry the whole message.
func (s *Service) emit(ctx context.Context, outcome *pipeline.Outcome) error {
	for _, event := range outcome.Events {
		if err := s.sink.Emit(ctx, event); err != nil {
			return fmt.Errorf("emit %s event: %w", event.Type, err)
		}
	}
	return nil
}
