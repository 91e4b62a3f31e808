package store

import "github.com/Abdurahmanit/GroupProject/directory-service/internal/directory/domain"

// State is the store's position in its fetch lifecycle.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// Outcome tags a FetchResult.
type Outcome string

const (
	// OutcomeOK: the backend answered and the collection holds its page.
	OutcomeOK Outcome = "ok"
	// OutcomeDegraded: the backend failed and the built-in sample data was
	// substituted. Reason holds the failure.
	OutcomeDegraded Outcome = "degraded"
	// OutcomeFailed: the backend failed and fallback is disabled; the
	// collection was left as it was.
	OutcomeFailed Outcome = "failed"
	// OutcomeSuperseded: a newer fetch was issued before this one resolved,
	// so its result was dropped. Only produced when stale fetches are discarded.
	OutcomeSuperseded Outcome = "superseded"
)

// FetchResult reports what a fetch did to the collection. Items and Cursor
// describe the collection as this fetch left it.
type FetchResult struct {
	Outcome Outcome
	Items   []domain.Listing
	Cursor  domain.Cursor
	Reason  error
}

// Snapshot is a consistent copy of the store's state.
type Snapshot struct {
	Kind          domain.Kind      `json:"kind"`
	State         State            `json:"state"`
	Items         []domain.Listing `json:"items"`
	Cursor        domain.Cursor    `json:"cursor"`
	Error         string           `json:"error,omitempty"`
	UsingFallback bool             `json:"using_fallback"`
}
