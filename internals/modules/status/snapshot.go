package status

import "time"

// LatestHTTPStatus is the per-target record of the most recent classified
// HTTP check, kept in the status cache and read by the current-status API.
type LatestHTTPStatus struct {
	Status         string
	Reason         string
	StatusCode     int
	ResponseTimeMs int64
	CheckedAt      time.Time
}

// LatestSSLStatus mirrors LatestHTTPStatus for certificate checks.
type LatestSSLStatus struct {
	Status        string
	DaysRemaining int
	Issuer        string
	NotAfter      time.Time
	CheckedAt     time.Time
}
