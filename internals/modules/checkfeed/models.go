package checkfeed

import (
	"time"

	"certwatch/internals/modules/status"

	"github.com/google/uuid"
)

type ResultKind string

const (
	ResultHTTP ResultKind = "http"
	ResultSSL  ResultKind = "ssl"
)

// CheckResult is one observation published by the checker fleet. Exactly one
// of HTTP and Certificate is set, matching Kind.
type CheckResult struct {
	TargetID    uuid.UUID               `json:"target_id"`
	Kind        ResultKind              `json:"kind"`
	CheckedAt   time.Time               `json:"checked_at"`
	HTTP        *status.HTTPFact        `json:"http,omitempty"`
	Certificate *status.CertificateFact `json:"certificate,omitempty"`
}
