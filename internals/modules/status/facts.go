package status

import "time"

// ConnFailure names the transport-level reasons a check can fail before an
// HTTP response exists. The checker fleet reports these verbatim.
type ConnFailure string

const (
	ConnFailureNone         ConnFailure = ""
	ConnFailureTimeout      ConnFailure = "timeout"
	ConnFailureDNS          ConnFailure = "dns_failure"
	ConnFailureTLS          ConnFailure = "tls_failure"
	ConnFailureRefused      ConnFailure = "connection_refused"
	ConnFailureTooManyRedirects ConnFailure = "too_many_redirects"
	ConnFailureUnknown      ConnFailure = "unknown_error"
)

// CertificateFact is one immutable certificate observation from a single check.
// A non-empty CheckError means the check itself failed (handshake, DNS) and
// the remaining fields are meaningless.
type CertificateFact struct {
	Issuer             string    `json:"issuer"`
	Subject            string    `json:"subject"`
	SerialNumber       string    `json:"serial_number"`
	SignatureAlgorithm string    `json:"signature_algorithm"`
	NotAfter           time.Time `json:"not_after"`
	ChainValid         bool      `json:"chain_valid"`
	CheckError         string    `json:"check_error,omitempty"`
}

// HTTPFact is one immutable HTTP observation from a single check. ConnError
// is set when no response was obtained; redirect resolution already happened
// on the checker side, FinalURL is the last hop.
type HTTPFact struct {
	StatusCode     int         `json:"status_code"`
	ResponseTimeMs int64       `json:"response_time_ms"`
	FinalURL       string      `json:"final_url"`
	BodySnippet    string      `json:"body_snippet,omitempty"`
	ConnError      ConnFailure `json:"conn_error,omitempty"`
}

type SSLStatus string

const (
	SSLValid        SSLStatus = "valid"
	SSLExpiringSoon SSLStatus = "expiring_soon"
	SSLExpired      SSLStatus = "expired"
	SSLInvalid      SSLStatus = "invalid"
	SSLError        SSLStatus = "error"
)

type UptimeStatus string

const (
	UptimeUp              UptimeStatus = "up"
	UptimeDown            UptimeStatus = "down"
	UptimeSlow            UptimeStatus = "slow"
	UptimeContentMismatch UptimeStatus = "content_mismatch"
	UptimeUnknown         UptimeStatus = "unknown"
)

// SSLPolicy is the caller-supplied classification knobs for one target.
type SSLPolicy struct {
	ExpiringSoonDays int
}

// DefaultExpiringSoonDays is used when a target carries no override.
const DefaultExpiringSoonDays = 14

// UptimePolicy is the caller-supplied classification knobs for one target.
type UptimePolicy struct {
	ExpectedStatus    int
	MaxResponseTimeMs int64
	ExpectedContent   string
	ForbiddenContent  string
}
