package insights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"foodmaster/internal/models"

	"go.uber.org/zap"
)

const (
	// FailureMessage replaces the report when the model call fails
	FailureMessage = "Đã xảy ra lỗi khi kết nối với AI Assistant."
	// EmptyReportMessage replaces an empty model answer
	EmptyReportMessage = "Không thể tạo báo cáo lúc này."
)

// Summarizer is the external text generation call
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// SummarizerFunc adapts a function to Summarizer
type SummarizerFunc func(ctx context.Context, prompt string) (string, error)

func (f SummarizerFunc) Summarize(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Observer is notified after every call to the Summarizer
type Observer interface {
	ObserveInsight(status Status, elapsed time.Duration)
}

// Result is the outcome of a single insight request
type Result struct {
	Status Status `json:"status"`
	Report string `json:"report"`
}

// Requester turns a snapshot into a report. Request never returns an
// error: failures become FailureMessage.
type Requester struct {
	summarizer Summarizer
	timeout    time.Duration
	logger     *zap.SugaredLogger
	observer   Observer
}

// NewRequester creates a Requester. A zero timeout leaves the call unbounded.
func NewRequester(summarizer Summarizer, timeout time.Duration, logger *zap.SugaredLogger) *Requester {
	return &Requester{
		summarizer: summarizer,
		timeout:    timeout,
		logger:     logger,
	}
}

// SetObserver sets the observer notified after each model call
func (r *Requester) SetObserver(o Observer) {
	r.observer = o
}

// Request builds the summary prompt and delegates it to the Summarizer.
// With no orders it returns StatusUnavailable without calling out.
func (r *Requester) Request(ctx context.Context, orders []models.Order, menu []models.MenuItem) Result {
	if len(orders) == 0 {
		return Result{Status: StatusUnavailable}
	}

	prompt := BuildSummaryPrompt(orders, menu)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	result := r.call(ctx, prompt)
	elapsed := time.Since(start)

	if r.observer != nil {
		r.observer.ObserveInsight(result.Status, elapsed)
	}
	r.logger.Infow("insight request finished", "status", result.Status, "orders", len(orders), "elapsed", elapsed)

	return result
}

func (r *Requester) call(ctx context.Context, prompt string) (result Result) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Errorw("summarizer panicked", "panic", fmt.Sprint(p))
			result = Result{Status: StatusFailed, Report: FailureMessage}
		}
	}()

	text, err := r.summarizer.Summarize(ctx, prompt)
	if err != nil {
		r.logger.Errorw("insight request failed", "error", err)
		return Result{Status: StatusFailed, Report: FailureMessage}
	}

	if strings.TrimSpace(text) == "" {
		return Result{Status: StatusSucceeded, Report: EmptyReportMessage}
	}

	return Result{Status: StatusSucceeded, Report: text}
}
