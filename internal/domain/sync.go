package domain

import "time"

// PlatformResult is the outcome of syncing one platform: exactly one of Stats or Err is set
type PlatformResult struct {
	Stats *NormalizedStats
	Err   error
}

// OK reports whether the platform synced successfully
func (r PlatformResult) OK() bool {
	return r.Err == nil && r.Stats != nil
}

// SyncOutcome is the consolidated result of one SyncAllForUser call. It is not persisted.
type SyncOutcome struct {
	UserID     string
	Results    map[Platform]PlatformResult
	Demo       bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewSyncOutcome creates an empty outcome for a user
func NewSyncOutcome(userID string, startedAt time.Time) *SyncOutcome {
	return &SyncOutcome{
		UserID:    userID,
		Results:   make(map[Platform]PlatformResult),
		StartedAt: startedAt,
	}
}

// Succeeded counts platforms that synced successfully
func (o *SyncOutcome) Succeeded() int {
	n := 0
	for _, r := range o.Results {
		if r.OK() {
			n++
		}
	}
	return n
}

// Failed counts platforms that returned an error
func (o *SyncOutcome) Failed() int {
	return len(o.Results) - o.Succeeded()
}

// SweepSummary reports one scheduled pass over all connected users
type SweepSummary struct {
	UsersTotal      int               `json:"users_total"`
	UsersSucceeded  int               `json:"users_succeeded"`
	UsersPartial    int               `json:"users_partial"`
	UsersFailed     int               `json:"users_failed"`
	PlatformsSynced int               `json:"platforms_synced"`
	PlatformsFailed int               `json:"platforms_failed"`
	Skipped         bool              `json:"skipped"`
	Failures        map[string]string `json:"failures,omitempty"`
	StartedAt       time.Time         `json:"started_at"`
	FinishedAt      time.Time         `json:"finished_at"`
}

// Duration returns how long the sweep ran
func (s *SweepSummary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}
