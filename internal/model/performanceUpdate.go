package model

import "time"

// UpdatePolicy selects which horizons the bulk updater refreshes.
type UpdatePolicy string

const (
	// UpdatePolicyIncomplete only fills horizons that are due and have no snapshot yet.
	UpdatePolicyIncomplete UpdatePolicy = "incomplete"
	// UpdatePolicyAll refreshes every due horizon, overwriting existing snapshots.
	UpdatePolicyAll UpdatePolicy = "all"
)

// ValidUpdatePolicies contains the accepted policy values.
var ValidUpdatePolicies = map[UpdatePolicy]bool{
	UpdatePolicyIncomplete: true,
	UpdatePolicyAll:        true,
}

// UpdateOutcome is the per-trade result of a bulk update.
type UpdateOutcome string

const (
	OutcomeUpdated UpdateOutcome = "updated"
	OutcomeSkipped UpdateOutcome = "skipped"
	OutcomeFailed  UpdateOutcome = "failed"
)

// UpdateReason explains a skipped or failed item.
type UpdateReason string

const (
	ReasonAlreadySnapshotted  UpdateReason = "already_snapshotted"
	ReasonNotDue              UpdateReason = "not_due"
	ReasonDeadlineExceeded    UpdateReason = "deadline_exceeded"
	ReasonNoPriceData         UpdateReason = "no_price_data"
	ReasonUpstreamUnavailable UpdateReason = "upstream_unavailable"
	ReasonStorageError        UpdateReason = "storage_error"
)

// PerformanceUpdateItem is the result for a single personal trade.
type PerformanceUpdateItem struct {
	MyTradeID int64         `json:"myTradeId"`
	Ticker    string        `json:"ticker"`
	Outcome   UpdateOutcome `json:"outcome"`
	Reason    UpdateReason  `json:"reason,omitempty"`
	Horizons  []Horizon     `json:"horizons,omitempty"` // horizons written on success
	Error     string        `json:"error,omitempty"`
}

// PerformanceUpdateSummary is returned by a bulk update run.
// Counts always add up to len(Items).
type PerformanceUpdateSummary struct {
	RunID      string                  `json:"runId"`
	Policy     UpdatePolicy            `json:"policy"`
	StartedAt  time.Time               `json:"startedAt"`
	FinishedAt time.Time               `json:"finishedAt"`
	Updated    int                     `json:"updated"`
	Skipped    int                     `json:"skipped"`
	Failed     int                     `json:"failed"`
	Reasons    map[UpdateReason]int    `json:"reasons"`
	Items      []PerformanceUpdateItem `json:"items"`
}
