package core

import (
	"bytes"
	"context"
	"iter"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lordmilko/PrtgAPI-sub005/query"
	"github.com/lordmilko/PrtgAPI-sub005/serde"
)

// StreamOptions controls how a stream fetches its items.
type StreamOptions struct {
	// Total is the number of matching items when already known. Otherwise it
	// is requested from the server before the stream starts.
	Total *int
	// Serial requests pages one at a time, for callers that chain further
	// requests off each item.
	Serial bool
	// ForceSerial always pages serially, even when one request would do.
	ForceSerial bool
	// Filters restrict the stream in addition to any in the parameters.
	Filters []query.SearchFilter
	// PageSize overrides the configured page size.
	PageSize int
}

// streamState is the plan of a single stream.
type streamState struct {
	params   *query.ParameterSet
	total    int
	pageSize int
	pages    int
	serial   bool
}

func (st *streamState) page(i int) *query.ParameterSet {
	params := st.params.Clone()
	params.Set(query.Start, i*st.pageSize)
	params.Set(query.Count, st.pageSize)
	return params
}

// Stream is a lazy, forward-only sequence of table items. It can be
// iterated once.
type Stream[T any] struct {
	ctx      context.Context
	resource *TableResource[T]
	state    streamState
	used     atomic.Bool
}

// Total is the number of items the server reported when the stream was planned.
func (s *Stream[T]) Total() int { return s.state.total }

// PageSize is zero when all items come from a single request.
func (s *Stream[T]) PageSize() int {
	if s.state.pages == 0 {
		return 0
	}
	return s.state.pageSize
}

// Paged reports whether the stream fetches its items in pages.
func (s *Stream[T]) Paged() bool { return s.state.pages > 0 }

// Seq returns the items. Iteration stops at the first error, which is yielded
// with a zero item. Breaking out of the loop cancels outstanding requests.
// Every Seq after the first yields only ErrStreamConsumed.
func (s *Stream[T]) Seq() iter.Seq2[T, error] {
	if !s.used.CompareAndSwap(false, true) {
		return func(yield func(T, error) bool) {
			var zero T
			yield(zero, ErrStreamConsumed)
		}
	}
	switch {
	case s.state.pages == 0:
		return s.single
	case s.state.serial:
		return s.serialPages
	default:
		return s.parallelPages
	}
}

// All drains the stream into a slice.
func (s *Stream[T]) All() ([]T, error) {
	items := make([]T, 0, s.state.total)
	for item, err := range s.Seq() {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Stream[T]) single(yield func(T, error) bool) {
	params := s.state.params.Clone()
	params.Set(query.Count, "*")
	s.streamPage(s.ctx, params, yield)
}

// streamPage decodes one response straight off the connection. It returns
// false when iteration should stop.
func (s *Stream[T]) streamPage(ctx context.Context, params *query.ParameterSet, yield func(T, error) bool) bool {
	var zero T
	session := s.resource.session
	body, err := session.Open(ctx, EndpointTable, params)
	if err != nil {
		yield(zero, err)
		return false
	}
	defer body.Close()

	for item, err := range serde.StreamTable[T](body, session.strategy) {
		if err != nil {
			yield(zero, session.serverError(err, EndpointTable))
			return false
		}
		if !yield(item, nil) {
			return false
		}
	}
	return true
}

func (s *Stream[T]) serialPages(yield func(T, error) bool) {
	for i := 0; i < s.state.pages; i++ {
		if err := s.ctx.Err(); err != nil {
			var zero T
			yield(zero, err)
			return
		}
		s.resource.verbose("Requesting page %d of %d", i+1, s.state.pages)
		if !s.streamPage(s.ctx, s.state.page(i), yield) {
			return
		}
	}
}

type pageResult[T any] struct {
	items []T
	err   error
}

// parallelPages requests up to MaxConnections pages at once and yields them
// in order as they arrive.
func (s *Stream[T]) parallelPages(yield func(T, error) bool) {
	ctx, cancel := context.WithCancel(s.ctx)
	results := make([]chan pageResult[T], s.state.pages)
	for i := range results {
		results[i] = make(chan pageResult[T], 1)
	}

	var g errgroup.Group
	g.SetLimit(s.resource.session.config.MaxConnections)
	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i := range results {
			if err := ctx.Err(); err != nil {
				results[i] <- pageResult[T]{err: err}
				continue
			}
			g.Go(func() error {
				items, err := s.fetchPage(ctx, i)
				results[i] <- pageResult[T]{items: items, err: err}
				return err
			})
		}
	}()
	defer func() {
		cancel()
		<-launched
		_ = g.Wait()
	}()

	var zero T
	for i, ch := range results {
		r := <-ch
		if r.err != nil {
			yield(zero, r.err)
			return
		}
		s.resource.verbose("Received page %d of %d", i+1, s.state.pages)
		for _, item := range r.items {
			if !yield(item, nil) {
				return
			}
		}
	}
}

func (s *Stream[T]) fetchPage(ctx context.Context, i int) ([]T, error) {
	session := s.resource.session
	data, err := session.Fetch(ctx, EndpointTable, s.state.page(i))
	if err != nil {
		return nil, err
	}
	items, _, err := serde.ReadTable[T](bytes.NewReader(data), session.strategy)
	if err != nil {
		return nil, session.serverError(err, EndpointTable)
	}
	return items, nil
}

// Stream plans a lazy read of every item matching params. When the number of
// items is at most the stream threshold they come from a single request;
// above it they are fetched in pages.
func (r *TableResource[T]) Stream(ctx context.Context, params *query.ParameterSet, opts StreamOptions) (*Stream[T], error) {
	ctx = r.session.context(ctx)
	if err := r.session.checkVersion(ctx, r.content, r.minVersion); err != nil {
		return nil, err
	}
	params = r.params(params, opts.Filters...)

	total := 0
	if opts.Total != nil {
		total = *opts.Total
	} else {
		var err error
		if total, err = r.count(ctx, params); err != nil {
			return nil, err
		}
	}

	cfg := r.session.config
	state := streamState{params: params, total: total, pageSize: cfg.PageSize}
	if opts.PageSize > 0 {
		state.pageSize = opts.PageSize
	}
	if total > cfg.StreamThreshold || opts.ForceSerial {
		// At least one bounded page, even for an empty result.
		state.pages = max(1, (total+state.pageSize-1)/state.pageSize)
		state.serial = opts.Serial || opts.ForceSerial
	}

	r.session.logger.Debug("stream planned",
		zap.String("content", r.content),
		zap.Int("total", total),
		zap.Int("pages", state.pages),
		zap.Bool("serial", state.serial))
	if state.pages > 0 {
		r.verbose("Streaming %d %s in %d pages of %d", total, r.content, state.pages, state.pageSize)
	}
	return &Stream[T]{ctx: ctx, resource: r, state: state}, nil
}
