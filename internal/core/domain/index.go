package domain

import "time"

// IndexInfo describes a tenant index that is resident in memory.
type IndexInfo struct {
	// Tenant owns the index.
	Tenant TenantID

	// Vectors is the number of indexed vectors (equal to the doc store length).
	Vectors int

	// Dimension is the vector size.
	Dimension int

	// Model is the embedding model that produced the vectors.
	Model string

	// BuiltAt is when the index was built.
	BuiltAt time.Time
}

// Match is a search hit resolved to its stored document.
type Match struct {
	// Document is the matched chunk.
	Document Document `json:"document"`

	// Score is the inner product between the normalised query and the chunk.
	Score float64 `json:"score"`

	// Ordinal is the position of the chunk in the tenant's doc store.
	Ordinal int `json:"ordinal"`
}

// Answer is the assistant's reply to a question.
type Answer struct {
	// Text is the generated reply. Empty when no LLM is available.
	Text string

	// Context lists the chunk texts that were given to the LLM.
	Context []string

	// Matches are the retrieved chunks, best first.
	Matches []Match
}

// RefreshState is the rebuild state of a tenant.
type RefreshState string

// Refresh states.
const (
	// RefreshIdle means no rebuild is running.
	RefreshIdle RefreshState = "idle"

	// RefreshRebuilding means a rebuild worker is active.
	RefreshRebuilding RefreshState = "rebuilding"
)

// TriggerReason records why a rebuild was requested.
type TriggerReason string

// Trigger reasons.
const (
	ReasonManual    TriggerReason = "manual"
	ReasonUpload    TriggerReason = "upload"
	ReasonLogin     TriggerReason = "login"
	ReasonScheduled TriggerReason = "scheduled"
	ReasonStartup   TriggerReason = "startup"
)

// TriggerAck reports what a trigger did.
type TriggerAck string

// Trigger acknowledgements.
const (
	// TriggerStarted means a new rebuild worker was started.
	TriggerStarted TriggerAck = "started"

	// TriggerCoalesced means a rebuild was running and one more cycle was queued.
	TriggerCoalesced TriggerAck = "coalesced"
)

// RefreshStatus is a snapshot of a tenant's refresh state.
type RefreshStatus struct {
	// Tenant is the tenant described.
	Tenant TenantID

	// State is Idle or Rebuilding.
	State RefreshState

	// Pending is set when another cycle will run after the current one.
	Pending bool

	// Runs counts completed rebuild cycles since process start.
	Runs int

	// LastRun is when the last cycle finished.
	LastRun time.Time

	// LastError is the error message of the last failed cycle.
	LastError string
}
