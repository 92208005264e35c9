package constants

// RunStatus is the canonical per-model status for one pipeline run.
type RunStatus string

// Stable values (these exact strings go into responses and the usage ledger).
const (
	RunStatusPending  RunStatus = "PENDING"  // queued within the batch, not yet started
	RunStatusInvoking RunStatus = "INVOKING" // remote generation call in flight
	RunStatusParsing  RunStatus = "PARSING"  // reply received, reconciling JSON
	RunStatusPriced   RunStatus = "PRICED"   // cost computed from usage
	RunStatusDone     RunStatus = "DONE"     // terminal success
	RunStatusFailed   RunStatus = "FAILED"   // terminal failure, still reported in results
)

// Terminal reports whether a status can no longer change.
func (s RunStatus) Terminal() bool {
	return s == RunStatusDone || s == RunStatusFailed
}
