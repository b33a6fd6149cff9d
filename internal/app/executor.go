package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-generator/internal/platform/logging"
	"github.com/jsamuelsen/quote-generator/internal/platform/telemetry"
)

// Operations that touch the platform run in five steps:
// Validate → Perform → Verify → Archive → Respond.
//
// For quote generation that is: check the topic, call the model, decode and
// check the structured output, append it to the synced history, return the
// quote. Nothing is archived unless the model output verified, so a failed or
// malformed generation never reaches the user's stored history.

// ExecutionStep names one of the five steps.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError wraps errors with the step where they occurred.
type ExecutionError struct {
	Step    ExecutionStep
	Message string
	Cause   error
}

func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Step, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s failed: %s", e.Step, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Executor runs operations step by step with logging and tracing.
type Executor struct {
	logger *slog.Logger
}

func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger}
}

// loggerFor prefers the request-scoped logger, which carries request and
// user ids, over the executor's own.
func (e *Executor) loggerFor(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != slog.Default() {
		return logger
	}

	return e.logger
}

// Operation defines the functions for each step. Nil steps are skipped and
// pass the zero value along.
type Operation[I, P, V, O any] struct {
	// Name identifies this operation in logs and as the span name.
	Name string

	// Validate checks inputs and preconditions before anything external runs.
	Validate func(ctx context.Context, input I) error

	// Perform calls out, typically to the platform.
	Perform func(ctx context.Context, input I) (P, error)

	// Verify checks what Perform returned and converts it to a trusted value.
	Verify func(ctx context.Context, input I, performed P) (V, error)

	// Archive persists the verified value.
	Archive func(ctx context.Context, input I, verified V) error

	// Respond shapes the verified value for the caller.
	Respond func(ctx context.Context, input I, verified V) (O, error)
}

type stepRunner struct {
	logger *slog.Logger
	span   trace.Span
}

// run executes fn as step and wraps any failure in an *ExecutionError.
func (r *stepRunner) run(ctx context.Context, step ExecutionStep, message string, fn func() error) error {
	r.logger.Log(ctx, logging.LevelTrace, "step started", slog.String("step", string(step)))

	err := fn()
	if err == nil {
		r.span.AddEvent(string(step))
		return nil
	}

	level := slog.LevelError
	if step == StepValidate {
		level = slog.LevelWarn
	}

	r.logger.Log(ctx, level, "step failed", slog.String("step", string(step)), slog.Any("error", err))

	r.span.SetAttributes(attribute.String("execution.step", string(step)))
	r.span.RecordError(err)
	r.span.SetStatus(codes.Error, message)

	return &ExecutionError{Step: step, Message: message, Cause: err}
}

// Execute runs op inside one span. A failing step is recorded on the span
// and logged, and the error is returned as an *ExecutionError wrapping the
// cause so callers can still match domain errors with errors.Is/As.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (O, error) {
	var (
		zero      O
		performed P
		verified  V
		result    O
	)

	ctx, span := telemetry.Tracer().Start(ctx, op.Name)
	defer span.End()

	start := time.Now()
	r := &stepRunner{
		logger: exec.loggerFor(ctx).With(slog.String("operation", op.Name)),
		span:   span,
	}

	if op.Validate != nil {
		if err := r.run(ctx, StepValidate, "input validation failed", func() error {
			return op.Validate(ctx, input)
		}); err != nil {
			return zero, err
		}
	}

	if op.Perform != nil {
		if err := r.run(ctx, StepPerform, "operation failed", func() (err error) {
			performed, err = op.Perform(ctx, input)
			return err
		}); err != nil {
			return zero, err
		}
	}

	if op.Verify != nil {
		if err := r.run(ctx, StepVerify, "verification failed", func() (err error) {
			verified, err = op.Verify(ctx, input, performed)
			return err
		}); err != nil {
			return zero, err
		}
	}

	if op.Archive != nil {
		if err := r.run(ctx, StepArchive, "state persistence failed", func() error {
			return op.Archive(ctx, input, verified)
		}); err != nil {
			return zero, err
		}
	}

	if op.Respond != nil {
		if err := r.run(ctx, StepRespond, "response shaping failed", func() (err error) {
			result, err = op.Respond(ctx, input, verified)
			return err
		}); err != nil {
			return zero, err
		}
	}

	r.logger.InfoContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return result, nil
}

// GetExecutionStep extracts the step from an execution error.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}
