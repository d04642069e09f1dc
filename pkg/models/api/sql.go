package api

// SQLRequest is a read-only parameterized query forwarded to the data source.
type SQLRequest struct {
	Query  string         `json:"query"`
	Params map[string]any `json:"params,omitempty"`
}

// SQLResponse mirrors the passthrough contract: failures are reported in the
// body, not via HTTP status.
type SQLResponse struct {
	Success  bool             `json:"success"`
	Result   []map[string]any `json:"result,omitempty"`
	Error    string           `json:"error,omitempty"`
	RowCount *int             `json:"row_count,omitempty"`
}
