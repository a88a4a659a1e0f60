package constants

// RunStatus is the canonical status for rows in collection_runs.
type RunStatus string

// Stable values (store these exact strings in DB).
const (
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusSucceeded RunStatus = "SUCCEEDED"
	RunStatusFailed    RunStatus = "FAILED" // input could not be loaded or report not written
)

// PageStatus is the outcome of one page invocation in page_invocations.
type PageStatus string

const (
	PageStatusOK          PageStatus = "OK"
	PageStatusModelFailed PageStatus = "MODEL_FAILED" // timeout, exit status, spawn error
	PageStatusParseFailed PageStatus = "PARSE_FAILED" // output had no decodable JSON object
)

// CollectionStatus is the per-collection outcome reported at the end of a run.
type CollectionStatus string

const (
	CollectionProcessed CollectionStatus = "processed"
	CollectionMissing   CollectionStatus = "missing" // directory not found, skipped
	CollectionFailed    CollectionStatus = "failed"
)
