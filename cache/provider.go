package cache

import "context"

// Request describes a page of distinct column values to fetch from a host
// value provider.
type Request struct {
	ColumnKey     string
	Skip          int
	Take          int
	IncludeNull   bool
	IncludeEmpty  bool
	SortAscending bool
}

// Provider supplies distinct raw values for a column. Implementations live
// in the host (database, remote service, in-memory table); the engine only
// consumes the returned sequence.
type Provider interface {
	Fetch(ctx context.Context, req Request) ([]any, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, req Request) ([]any, error)

// Fetch implements Provider.
func (f ProviderFunc) Fetch(ctx context.Context, req Request) ([]any, error) {
	return f(ctx, req)
}

// SliceProvider serves values from an in-memory slice. Mostly useful for
// tests and fully materialized tables.
type SliceProvider struct {
	Values []any
}

// Fetch implements Provider.
func (p *SliceProvider) Fetch(_ context.Context, req Request) ([]any, error) {
	vals := p.Values
	if req.Skip > 0 {
		if req.Skip >= len(vals) {
			return nil, nil
		}
		vals = vals[req.Skip:]
	}
	if req.Take > 0 && req.Take < len(vals) {
		vals = vals[:req.Take]
	}
	out := make([]any, len(vals))
	copy(out, vals)
	return out, nil
}
