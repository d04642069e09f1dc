package sql

import "context"

// Params are named query parameters, referenced as :name in the query text.
type Params map[string]any

// Row is one result row keyed by column name.
type Row map[string]any

// Executor runs a read-only parameterized query against the tabular data
// source. Implementations must reject anything but SELECT-style statements.
// It is stateless and safe for concurrent use by independent analysis runs.
type Executor interface {
	Execute(ctx context.Context, query string, params Params) ([]Row, error)
}
