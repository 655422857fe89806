package domain

import (
	"errors"
	"time"
)

var (
	// ErrFeedUnreachable means the feed returned no data: network failure, non-200 or empty body.
	ErrFeedUnreachable = errors.New("feed unreachable")
	// ErrMalformedFeed means the document lacks the shop/offers/categories structure.
	ErrMalformedFeed = errors.New("malformed feed")
	// ErrTermCreateFailed is reported by stores when a category term cannot be created.
	ErrTermCreateFailed = errors.New("category term create failed")
	// ErrRunInProgress rejects a trigger while another run holds the guard.
	ErrRunInProgress = errors.New("sync run already in progress")
	// ErrEntryNotFound is returned by store lookups that require an existing entry.
	ErrEntryNotFound = errors.New("catalog entry not found")
)

// FeedUnreachableMessage is what operators see when the feed could not be downloaded.
const FeedUnreachableMessage = "Failed to load file."

// FailureMessage renders a run error for operators.
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrFeedUnreachable) {
		return FeedUnreachableMessage
	}
	return err.Error()
}

// TriggerKind records what started a run.
type TriggerKind string

const (
	TriggerManual    TriggerKind = "manual"
	TriggerScheduled TriggerKind = "scheduled"
)

// RunReport summarizes one pipeline execution.
type RunReport struct {
	Trigger    TriggerKind `json:"trigger"`
	FeedURL    string      `json:"feedUrl,omitempty"`
	StartedAt  time.Time   `json:"startedAt"`
	FinishedAt time.Time   `json:"finishedAt"`
	Skipped    bool        `json:"skipped"`
	Offers     int         `json:"offers"`
	Omitted    int         `json:"omitted"`
	Created    int         `json:"created"`
	Updated    int         `json:"updated"`
	Error      string      `json:"error,omitempty"`
}

// Processed is the number of records that reached the catalog.
func (r RunReport) Processed() int {
	return r.Created + r.Updated
}

// Duration is the wall time of the run.
func (r RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
