package source

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/zjrosen/folio/internal/deck"
	"github.com/zjrosen/folio/internal/log"
	"github.com/zjrosen/folio/internal/tracing"
)

// DefaultConcurrency bounds parallel fragment fetches.
const DefaultConcurrency = 8

// Fragment is one loaded entry of a deck.
type Fragment struct {
	// Index is the entry's position in the deck.
	Index  int
	Ref    string
	Slides []deck.Slide
	// Raw is the fragment's markdown, kept for reload diffs.
	Raw string
	Err error
}

// Loader fetches fragments in parallel and delivers them in declared
// order.
type Loader struct {
	// FetcherFor picks a fetcher per reference. Defaults to FetcherFor.
	FetcherFor func(ref string) (Fetcher, error)
	// Concurrency bounds parallel fetches. Defaults to DefaultConcurrency.
	Concurrency int
	// Tracer records one span per fetched fragment. May be nil.
	Tracer trace.Tracer
}

// NewLoader creates a loader with default settings.
func NewLoader() *Loader {
	return &Loader{FetcherFor: FetcherFor, Concurrency: DefaultConcurrency}
}

// LoadOne fetches and parses a single entry.
func (l *Loader) LoadOne(ctx context.Context, index int, e ResolvedEntry) (frag Fragment) {
	tracer := l.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("source")
	}
	ctx, span := tracer.Start(ctx, tracing.SpanLoad, trace.WithAttributes(
		attribute.String(tracing.AttrDeckSource, e.Ref),
	))
	defer func() {
		if frag.Err != nil {
			span.RecordError(frag.Err)
			span.SetStatus(codes.Error, frag.Err.Error())
		}
		span.SetAttributes(attribute.Int(tracing.AttrDeckCount, len(frag.Slides)))
		span.End()
	}()

	frag = Fragment{Index: index, Ref: e.Ref}
	pick := l.FetcherFor
	if pick == nil {
		pick = FetcherFor
	}
	f, err := pick(e.Ref)
	if err != nil {
		frag.Err = err
		return frag
	}
	start := time.Now()
	data, err := f.Fetch(ctx, e.Ref)
	if err != nil {
		frag.Err = fmt.Errorf("loading %s: %w", e.Ref, err)
		return frag
	}
	frag.Raw = string(data)
	frag.Slides = ParseDeck(e.Ref, frag.Raw, e.Duration)
	log.Debug(log.CatSource, "fragment loaded", "index", index, "ref", e.Ref, "slides", len(frag.Slides), "took", time.Since(start))
	return frag
}

// Stream loads entries and sends fragments on the returned channel in
// declared order. The first failing fragment, in declared order, is sent
// with its error and ends the stream; later fragments are never sent even
// if they loaded. The channel is closed when the stream ends.
func (l *Loader) Stream(ctx context.Context, entries []ResolvedEntry) <-chan Fragment {
	out := make(chan Fragment)
	limit := l.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	ctx, cancel := context.WithCancel(ctx)
	results := make([]Fragment, len(entries))
	done := make([]chan struct{}, len(entries))
	for i := range done {
		done[i] = make(chan struct{})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	go func() {
		for i, e := range entries {
			i, e := i, e
			g.Go(func() error {
				defer close(done[i])
				select {
				case <-gctx.Done():
					results[i] = Fragment{Index: i, Ref: e.Ref, Err: gctx.Err()}
					return nil
				default:
				}
				results[i] = l.LoadOne(gctx, i, e)
				return nil
			})
		}
		_ = g.Wait()
	}()

	go func() {
		defer close(out)
		defer cancel()
		for i := range entries {
			select {
			case <-done[i]:
			case <-ctx.Done():
				return
			}
			frag := results[i]
			select {
			case out <- frag:
			case <-ctx.Done():
				return
			}
			if frag.Err != nil {
				log.ErrorErr(log.CatSource, "fragment failed, halting load", frag.Err, "index", i, "ref", frag.Ref)
				return
			}
		}
	}()
	return out
}

// LoadAll loads every entry and returns the slides of the fragments that
// loaded before the first failure, together with that failure.
func (l *Loader) LoadAll(ctx context.Context, entries []ResolvedEntry) ([]deck.Slide, error) {
	var slides []deck.Slide
	for frag := range l.Stream(ctx, entries) {
		if frag.Err != nil {
			return slides, frag.Err
		}
		slides = append(slides, frag.Slides...)
	}
	if err := ctx.Err(); err != nil {
		return slides, err
	}
	if len(slides) == 0 {
		return nil, ErrEmptyDeck
	}
	return slides, nil
}
