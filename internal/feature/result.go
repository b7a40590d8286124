package feature

// Status is the terminal state of one node in one run.
type Status string

const (
	// StatusSuccess means the node ran and its features were merged.
	StatusSuccess Status = "success"
	// StatusFailed means the node could not run or its body returned an error.
	StatusFailed Status = "failed"
	// StatusSkipped means a dependency failed or was skipped, so the node
	// never ran. Distinct from failure: a skipped node is safe to retry once
	// the upstream cause is fixed.
	StatusSkipped Status = "skipped"
)

// Result is the audit record for a single node in a single run. Exactly one
// is produced per scheduled node, in deterministic graph order.
type Result struct {
	// NodeName is the registry key of the node this result describes.
	NodeName string

	// Status is the node's terminal state.
	Status Status

	// Features holds the returned feature map. Set only on success.
	Features map[string]any

	// Error describes the failure. Set only on failure.
	Error string

	// Warning carries a non-fatal anomaly, e.g. a declared feature the node
	// did not return, or the names of failed dependencies behind a skip.
	Warning string

	// DurationMillis is the wall-clock time spent in the node body. Zero for
	// nodes that never ran.
	DurationMillis float64
}
