package target

import (
	"github.com/google/uuid"
)

// Target is one monitored website with its check policy. The checker fleet
// gets the policy with each dispatched job; the classifier gets it with each
// result.
type Target struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	URL               string
	AlertEmail        string
	IntervalSec       int32
	TimeoutSec        int32
	ExpectedStatus    int32
	MaxResponseTimeMs int64
	ExpectedContent   string
	ForbiddenContent  string
	FollowRedirects   bool
	MaxRedirects      int32
	SSLExpiryWarnDays int32
	Enabled           bool
}

type CreateTargetCmd struct {
	UserID            uuid.UUID
	URL               string
	AlertEmail        string
	IntervalSec       int32
	TimeoutSec        int32
	ExpectedStatus    int32
	MaxResponseTimeMs int64
	ExpectedContent   string
	ForbiddenContent  string
	FollowRedirects   bool
	MaxRedirects      int32
	SSLExpiryWarnDays int32
}
