package rabbitmq

import (
	"time"

	"github.com/google/uuid"
)

// CheckJob is the contract with the checker fleet. One job per due target;
// the checker runs the HTTP and TLS probes and publishes one result message
// per probe to the results queue.
type CheckJob struct {
	TargetID        uuid.UUID `json:"target_id"`
	URL             string    `json:"url"`
	TimeoutSec      int32     `json:"timeout_sec"`
	FollowRedirects bool      `json:"follow_redirects"`
	MaxRedirects    int32     `json:"max_redirects"`
	DispatchedAt    time.Time `json:"dispatched_at"`
}
