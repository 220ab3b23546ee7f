package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	version "github.com/hashicorp/go-version"
	"go.uber.org/zap"

	"github.com/lordmilko/PrtgAPI-sub005/query"
	"github.com/lordmilko/PrtgAPI-sub005/serde"
)

// TableResource reads one content type, such as "sensors", from the table
// endpoint and decodes its items as T.
type TableResource[T any] struct {
	session    *Session
	content    string
	columns    []string
	filters    []query.SearchFilter
	minVersion *version.Version
}

// NewTableResource binds T to content. The requested columns are derived from
// T's schema.
func NewTableResource[T any](session *Session, content string) (*TableResource[T], error) {
	schema, err := serde.SchemaFor[T]()
	if err != nil {
		return nil, err
	}
	return &TableResource[T]{
		session: session,
		content: content,
		columns: schema.Columns(),
	}, nil
}

// MustTableResource is NewTableResource that panics on a schema error.
func MustTableResource[T any](session *Session, content string) *TableResource[T] {
	r, err := NewTableResource[T](session, content)
	if err != nil {
		panic(fmt.Sprintf("table resource %s: %v", content, err))
	}
	return r
}

// RequireVersion makes every request fail with a VersionError when the
// server is older than minimum.
func (r *TableResource[T]) RequireVersion(minimum string) *TableResource[T] {
	r.minVersion = version.Must(version.NewVersion(minimum))
	return r
}

// WithFilters returns a copy of the resource whose requests are also
// restricted by filters. r itself is unchanged.
func (r *TableResource[T]) WithFilters(filters ...query.SearchFilter) *TableResource[T] {
	c := *r
	c.filters = append(slices.Clone(r.filters), filters...)
	return &c
}

func (r *TableResource[T]) Content() string   { return r.content }
func (r *TableResource[T]) Columns() []string { return r.columns }
func (r *TableResource[T]) Session() *Session { return r.session }

func (r *TableResource[T]) String() string {
	return fmt.Sprintf("TableResource(%s)", r.content)
}

func (r *TableResource[T]) verbose(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.session.logger.Debug(msg, zap.String("content", r.content))
	r.session.events.emitVerbose(msg)
}

// params copies the caller's parameters and adds content, columns and filters.
// Caller-supplied columns take precedence over the schema's.
func (r *TableResource[T]) params(params *query.ParameterSet, filters ...query.SearchFilter) *query.ParameterSet {
	out := query.NewParameterSet().Set(query.Content, r.content)
	if params != nil {
		out = params.Clone()
		out.Set(query.Content, r.content)
	}
	if _, ok := out.Get(query.Columns); !ok {
		out.Set(query.Columns, r.columns)
	}
	filters = append(append([]query.SearchFilter(nil), r.filters...), filters...)
	if len(filters) > 0 {
		out.Set(query.Filters, append(existingFilters(out), filters...))
	}
	return out
}

func existingFilters(params *query.ParameterSet) []query.SearchFilter {
	v, ok := params.Get(query.Filters)
	if !ok {
		return nil
	}
	switch f := v.(type) {
	case query.SearchFilter:
		return []query.SearchFilter{f}
	case []query.SearchFilter:
		return append([]query.SearchFilter(nil), f...)
	}
	return nil
}

// fetch performs one table request and decodes the whole response.
func (r *TableResource[T]) fetch(ctx context.Context, params *query.ParameterSet) ([]T, int, error) {
	data, err := r.session.Fetch(ctx, EndpointTable, params)
	if err != nil {
		return nil, 0, err
	}
	items, total, err := serde.ReadTable[T](bytes.NewReader(data), r.session.strategy)
	if err != nil {
		return nil, 0, r.session.serverError(err, EndpointTable)
	}
	return items, total, nil
}

// List returns every item matching params in one request unless params sets
// its own count.
func (r *TableResource[T]) List(ctx context.Context, params *query.ParameterSet) ([]T, error) {
	ctx = r.session.context(ctx)
	if err := r.session.checkVersion(ctx, r.content, r.minVersion); err != nil {
		return nil, err
	}
	params = r.params(params)
	if _, ok := params.Get(query.Count); !ok {
		params.Set(query.Count, "*")
	}
	items, _, err := r.fetch(ctx, params)
	return items, err
}

// ListAsync is List run on its own goroutine.
func (r *TableResource[T]) ListAsync(ctx context.Context, params *query.ParameterSet) *AsyncResult[[]T] {
	return Go(ctx, func(ctx context.Context) ([]T, error) {
		return r.List(ctx, params)
	})
}

// Fetch is List under the name used by request-oriented callers.
func (r *TableResource[T]) Fetch(ctx context.Context, params *query.ParameterSet) ([]T, error) {
	return r.List(ctx, params)
}

func (r *TableResource[T]) FetchAsync(ctx context.Context, params *query.ParameterSet) *AsyncResult[[]T] {
	return r.ListAsync(ctx, params)
}

// GetTotalCount returns the number of items matching params without
// retrieving them.
func (r *TableResource[T]) GetTotalCount(ctx context.Context, params *query.ParameterSet) (int, error) {
	ctx = r.session.context(ctx)
	if err := r.session.checkVersion(ctx, r.content, r.minVersion); err != nil {
		return 0, err
	}
	return r.count(ctx, r.params(params))
}

func (r *TableResource[T]) count(ctx context.Context, params *query.ParameterSet) (int, error) {
	return r.session.totalCount(ctx, params)
}

// Get returns the object with the given id. It fails with a NotFoundError
// when there is none and a TooManyRecordsError when the id is ambiguous.
func (r *TableResource[T]) Get(ctx context.Context, id int) (T, error) {
	var zero T
	params := query.NewParameterSet().Set(query.Filters, query.Filter("objid", query.Equals, id))
	items, err := r.List(ctx, params)
	if err != nil {
		return zero, err
	}
	switch len(items) {
	case 0:
		return zero, &NotFoundError{Resource: r.content, Query: "objid=" + strconv.Itoa(id)}
	case 1:
		return items[0], nil
	default:
		return zero, &TooManyRecordsError{Resource: r.content, Query: "objid=" + strconv.Itoa(id), Count: len(items)}
	}
}

// GetByIDs returns the objects with the given ids, requesting at most
// BatchSize ids at a time. Batches are issued in order and the first failure
// fails the whole call.
func (r *TableResource[T]) GetByIDs(ctx context.Context, ids []int) ([]T, error) {
	ctx = r.session.context(ctx)
	size := r.session.config.BatchSize
	var out []T
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		r.verbose("Requesting %s %d-%d of %d", r.content, start+1, end, len(ids))
		params := query.NewParameterSet().Set(query.Filters, query.Filter("objid", query.Equals, ids[start:end]))
		items, err := r.List(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("batch %d-%d: %w", start+1, end, err)
		}
		out = append(out, items...)
	}
	return out, nil
}

// Refresh re-reads the object with the given id into target, overwriting only
// the properties present in the response.
func (r *TableResource[T]) Refresh(ctx context.Context, id int, target *T) error {
	ctx = r.session.context(ctx)
	if err := r.session.checkVersion(ctx, r.content, r.minVersion); err != nil {
		return err
	}
	params := r.params(query.NewParameterSet().Set(query.Filters, query.Filter("objid", query.Equals, id)))
	params.Set(query.Count, "*")
	data, err := r.session.Fetch(ctx, EndpointTable, params)
	if err != nil {
		return err
	}
	// target is only written once exactly one row decoded cleanly.
	scratch := *target
	n, err := serde.UpdateTable(bytes.NewReader(data), []*T{&scratch}, r.session.strategy)
	if err != nil {
		if errors.Is(err, serde.ErrTooManyItems) {
			return &TooManyRecordsError{Resource: r.content, Query: "objid=" + strconv.Itoa(id), Count: n + 1}
		}
		return r.session.serverError(err, EndpointTable)
	}
	if n == 0 {
		return &NotFoundError{Resource: r.content, Query: "objid=" + strconv.Itoa(id)}
	}
	*target = scratch
	return nil
}

// countOnly has no properties; only the envelope's totalcount is read.
type countOnly struct{}

// totalCount requests zero items and reads the declared total.
func (s *Session) totalCount(ctx context.Context, params *query.ParameterSet) (int, error) {
	params = params.Clone()
	params.Set(query.Count, 0)
	params.Delete(query.Columns)
	data, err := s.Fetch(ctx, EndpointTable, params)
	if err != nil {
		return 0, err
	}
	t, err := serde.NewTableReader[countOnly](bytes.NewReader(data), s.strategy)
	if err != nil {
		return 0, s.serverError(err, EndpointTable)
	}
	if t.Total() < 0 {
		return 0, &RequestFailedError{URL: buildURL(s.baseURL, EndpointTable, ""), Message: "response has no totalcount", Source: "xml"}
	}
	return t.Total(), nil
}

// GetTotalCount returns the number of objects of the given content type.
func (s *Session) GetTotalCount(ctx context.Context, content string) (int, error) {
	return s.totalCount(s.context(ctx), query.NewParameterSet().Set(query.Content, content))
}
