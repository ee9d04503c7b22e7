package target

import "time"

type CreateTargetRequest struct {
	URL               string `json:"url" validate:"required,url"`
	AlertEmail        string `json:"alert_email" validate:"omitempty,email"`
	IntervalSec       int32  `json:"interval_sec" validate:"required,gte=60"`
	TimeoutSec        int32  `json:"timeout_sec" validate:"required,gte=1,lte=120"`
	ExpectedStatus    int32  `json:"expected_status" validate:"required,gte=100,lte=599"`
	MaxResponseTimeMs int64  `json:"max_response_time_ms" validate:"gte=0"`
	ExpectedContent   string `json:"expected_content"`
	ForbiddenContent  string `json:"forbidden_content"`
	FollowRedirects   bool   `json:"follow_redirects"`
	MaxRedirects      int32  `json:"max_redirects" validate:"gte=0,lte=10"`
	SSLExpiryWarnDays int32  `json:"ssl_expiry_warn_days" validate:"gte=0"`
}

type GetTargetResponse struct {
	ID                string `json:"id"`
	URL               string `json:"url"`
	AlertEmail        string `json:"alert_email"`
	IntervalSec       int32  `json:"interval_sec"`
	TimeoutSec        int32  `json:"timeout_sec"`
	ExpectedStatus    int32  `json:"expected_status"`
	MaxResponseTimeMs int64  `json:"max_response_time_ms"`
	ExpectedContent   string `json:"expected_content,omitempty"`
	ForbiddenContent  string `json:"forbidden_content,omitempty"`
	FollowRedirects   bool   `json:"follow_redirects"`
	MaxRedirects      int32  `json:"max_redirects"`
	SSLExpiryWarnDays int32  `json:"ssl_expiry_warn_days"`
	Enabled           bool   `json:"enabled"`
}

type GetAllTargetsResponse struct {
	UserID  string              `json:"user_id"`
	Limit   int32               `json:"limit"`
	Offset  int32               `json:"offset"`
	Targets []GetTargetResponse `json:"targets"`
}

type UpdateTargetStatusRequest struct {
	Enable *bool `json:"enable" validate:"required"`
}

type HTTPStatusView struct {
	Status         string    `json:"status"`
	Reason         string    `json:"reason,omitempty"`
	StatusCode     int       `json:"status_code,omitempty"`
	ResponseTimeMs int64     `json:"response_time_ms,omitempty"`
	CheckedAt      time.Time `json:"checked_at"`
}

type SSLStatusView struct {
	Status        string    `json:"status"`
	DaysRemaining int       `json:"days_remaining"`
	Issuer        string    `json:"issuer,omitempty"`
	NotAfter      time.Time `json:"not_after"`
	CheckedAt     time.Time `json:"checked_at"`
}

type CurrentStatusResponse struct {
	TargetID string          `json:"target_id"`
	Uptime   string          `json:"uptime"`
	HTTP     *HTTPStatusView `json:"http,omitempty"`
	SSL      *SSLStatusView  `json:"ssl,omitempty"`
}

type IncidentView struct {
	ID                    string     `json:"id"`
	StartedAt             time.Time  `json:"started_at"`
	EndedAt               *time.Time `json:"ended_at,omitempty"`
	IncidentType          string     `json:"incident_type"`
	Reason                string     `json:"reason,omitempty"`
	ResolvedAutomatically bool       `json:"resolved_automatically"`
	DurationMinutes       int64      `json:"duration_minutes,omitempty"`
}

func toTargetResponse(t Target) GetTargetResponse {
	return GetTargetResponse{
		ID:                t.ID.String(),
		URL:               t.URL,
		AlertEmail:        t.AlertEmail,
		IntervalSec:       t.IntervalSec,
		TimeoutSec:        t.TimeoutSec,
		ExpectedStatus:    t.ExpectedStatus,
		MaxResponseTimeMs: t.MaxResponseTimeMs,
		ExpectedContent:   t.ExpectedContent,
		ForbiddenContent:  t.ForbiddenContent,
		FollowRedirects:   t.FollowRedirects,
		MaxRedirects:      t.MaxRedirects,
		SSLExpiryWarnDays: t.SSLExpiryWarnDays,
		Enabled:           t.Enabled,
	}
}
