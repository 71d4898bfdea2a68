package services

import "fmt"

// APIError represents a non-2xx response from the platform API.
//
// Any APIError aborts the operation that produced it; partial results are
// discarded rather than returned as degraded success.
type APIError struct {
	Status     int
	StatusText string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("spotify API error: status %d %s", e.Status, e.StatusText)
}

// AuthError carries the token endpoint's error payload verbatim.
type AuthError struct {
	Code        string
	Description string
}

func (e *AuthError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("token exchange failed: %s", e.Code)
	}
	return fmt.Sprintf("token exchange failed: %s: %s", e.Code, e.Description)
}

// PartialPublishError reports a publish where playlist creation succeeded but
// one of the append batches failed. The playlist exists remotely with the
// tracks from the batches that completed.
type PartialPublishError struct {
	PlaylistID   string
	BatchesDone  int
	BatchesTotal int
	Err          error
}

func (e *PartialPublishError) Error() string {
	return fmt.Sprintf("playlist %s created, %d of %d track batches appended: %v",
		e.PlaylistID, e.BatchesDone, e.BatchesTotal, e.Err)
}

func (e *PartialPublishError) Unwrap() error { return e.Err }
