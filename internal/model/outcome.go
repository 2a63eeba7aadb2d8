package model

// SyncStatus is the per-ticker result of a sync run.
type SyncStatus string

const (
	StatusUpToDate SyncStatus = "UP_TO_DATE"
	StatusFetched  SyncStatus = "FETCHED"
	StatusError    SyncStatus = "ERROR"
)

// TickerOutcome reports what a run did for one ticker.
type TickerOutcome struct {
	Ticker  string     `json:"ticker"`
	Status  SyncStatus `json:"status"`
	Missing int        `json:"missing"`
	Fetched int        `json:"fetched"` // rows kept after filtering
	Stored  int        `json:"stored"`  // rows actually inserted
	Error   string     `json:"error,omitempty"`
}

// SyncReport collects the outcomes of one run in ticker order.
type SyncReport struct {
	Outcomes []TickerOutcome `json:"outcomes"`
}

// Failed returns the number of tickers that ended in error.
func (r *SyncReport) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusError {
			n++
		}
	}
	return n
}
