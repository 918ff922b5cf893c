// Package pipeline runs a problem from raw input to a recorded result:
// image intake, OCR, classification, solving, history and statistics.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/abhisek/mathsolver/internal/logger"
	"github.com/abhisek/mathsolver/internal/ocr"
	"github.com/abhisek/mathsolver/internal/render"
	"github.com/abhisek/mathsolver/internal/solver"
	"github.com/abhisek/mathsolver/internal/store"
)

var (
	ErrEmptyProblem = errors.New("problem text is empty")
	ErrBusy         = errors.New("an image is already being processed")
	ErrNoRecognizer = errors.New("image recognition is not configured")
)

// Options wires a Pipeline. Only Engine is required.
type Options struct {
	Engine     *solver.Engine
	Recognizer ocr.Recognizer
	History    store.HistoryRepo
	Stats      store.StatsRepo

	// HistorySize is how many entries History keeps.
	HistorySize int
	Limits      ocr.Limits

	// Timeout bounds one SolveImage call. Zero means none.
	Timeout time.Duration

	// SkipHistory disables history writes. Stats are still kept.
	SkipHistory bool
}

// Report is the result of one pipeline run.
type Report struct {
	solver.Outcome
	Source      store.Source     `json:"source"`
	Recognition *ocr.Recognition `json:"recognition,omitempty"`

	// Ref identifies the history entry, empty when history is off.
	Ref string `json:"ref,omitempty"`
}

// Pipeline is safe for concurrent use. Image runs are serialised: a
// second SolveImage while one is in flight fails with ErrBusy.
type Pipeline struct {
	opts       Options
	processing atomic.Bool
}

// New creates a Pipeline. A nil Engine means solver.Default.
func New(opts Options) *Pipeline {
	if opts.Engine == nil {
		opts.Engine = solver.Default()
	}
	if opts.HistorySize <= 0 {
		opts.HistorySize = store.DefaultHistorySize
	}
	if opts.Limits.MaxBytes == 0 {
		opts.Limits = ocr.DefaultLimits()
	}
	return &Pipeline{opts: opts}
}

// CanReadImages reports whether SolveImage is available.
func (p *Pipeline) CanReadImages() bool {
	return p.opts.Recognizer != nil
}

// SolveText classifies and solves typed problem text.
func (p *Pipeline) SolveText(ctx context.Context, text string) (*Report, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyProblem
	}
	rep := p.solve(text, store.SourceText)
	p.record(ctx, rep)
	return rep, nil
}

// SolveImage validates img, reads its text and solves it.
func (p *Pipeline) SolveImage(ctx context.Context, img ocr.Image) (*Report, error) {
	if p.opts.Recognizer == nil {
		return nil, ErrNoRecognizer
	}
	if !p.processing.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer p.processing.Store(false)

	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	logger.Section("Image")
	img, err := ocr.ValidateImage(img, p.opts.Limits)
	if err != nil {
		return nil, err
	}
	logger.Debug("image %q: %s, %d bytes", img.Name, img.MIMEType, len(img.Data))

	rec, err := p.opts.Recognizer.Recognize(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}

	rep := p.solve(rec.Text, store.SourceImage)
	rep.Recognition = &rec
	p.record(ctx, rep)
	return rep, nil
}

func (p *Pipeline) solve(text string, src store.Source) *Report {
	logger.Section("Solve")
	out := p.opts.Engine.ClassifyAndSolve(text)
	cl := out.Classification
	logger.Debug("family=%s category=%s confidence=%.2f ops=%v",
		cl.Family, cl.Category, cl.Confidence, cl.Operations.Names())
	if f, ok := out.Result.(*solver.Failure); ok {
		logger.Debug("failed: %s", f.Reason)
	}
	return &Report{Outcome: out, Source: src}
}

// record writes history and stats. Storage errors are logged, not
// returned: the answer has already been computed.
func (p *Pipeline) record(ctx context.Context, rep *Report) {
	success := solver.IsSuccess(rep.Result)
	fromImage := rep.Source == store.SourceImage

	if p.opts.Stats != nil {
		if err := p.opts.Stats.RecordSolve(ctx, success, fromImage); err != nil {
			logger.Warn("failed to update stats: %v", err)
		}
	}

	if p.opts.History == nil || p.opts.SkipHistory {
		return
	}
	e := &store.HistoryEntry{
		Source:     rep.Source,
		Problem:    rep.Text,
		Family:     string(rep.Classification.Family),
		Confidence: rep.Classification.Confidence,
		Success:    success,
		Summary:    Summary(rep.Result),
		Solution:   render.Text(rep.Outcome),
	}
	if err := p.opts.History.Add(ctx, e, p.opts.HistorySize); err != nil {
		logger.Warn("failed to save history: %v", err)
		return
	}
	rep.Ref = e.Ref
	logger.Debug("saved history entry %s", e.Ref)
}

// Summary is the one-line form of r kept in history.
func Summary(r solver.Result) string {
	switch r := r.(type) {
	case *solver.Success:
		if a := r.Answer(); a != "" {
			return a
		}
		return "no direct answer"
	case *solver.Failure:
		return r.Reason
	default:
		return ""
	}
}
