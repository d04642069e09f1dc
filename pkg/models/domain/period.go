package domain

// Period is a closed date interval, both bounds inclusive, formatted as
// ISO calendar dates (YYYY-MM-DD).
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// PeriodInput is the caller-supplied analysis period. The nested comparison
// range, when present, overrides the default previous-window derivation.
type PeriodInput struct {
	Start      string  `json:"start"`
	End        string  `json:"end"`
	Comparison *Period `json:"comparison,omitempty"`
}
