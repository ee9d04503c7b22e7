package alertrule

import "time"

type CreateRuleRequest struct {
	TargetID                string   `json:"target_id"` // empty = user-global template
	Type                    string   `json:"type" validate:"required"`
	ThresholdDays           *int32   `json:"threshold_days,omitempty" validate:"omitempty,gte=0,lte=365"`
	ThresholdResponseTimeMs *int64   `json:"threshold_response_time_ms,omitempty" validate:"omitempty,gt=0"`
	Enabled                 bool     `json:"enabled"`
	CooldownSec             int64    `json:"cooldown_sec" validate:"gte=0"`
	Channels                []string `json:"channels" validate:"required,min=1"`
}

type UpdateRuleStatusRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type RuleResponse struct {
	ID                      string     `json:"id"`
	TargetID                string     `json:"target_id,omitempty"`
	Type                    string     `json:"type"`
	ThresholdDays           *int32     `json:"threshold_days,omitempty"`
	ThresholdResponseTimeMs *int64     `json:"threshold_response_time_ms,omitempty"`
	Severity                string     `json:"severity"`
	Enabled                 bool       `json:"enabled"`
	CooldownSec             int64      `json:"cooldown_sec"`
	LastTriggeredAt         *time.Time `json:"last_triggered_at,omitempty"`
	Channels                []string   `json:"channels"`
}

func toRuleResponse(r Rule) RuleResponse {
	resp := RuleResponse{
		ID:                      r.ID.String(),
		Type:                    string(r.Type),
		ThresholdDays:           r.ThresholdDays,
		ThresholdResponseTimeMs: r.ThresholdResponseTimeMs,
		Severity:                string(r.Severity),
		Enabled:                 r.Enabled,
		CooldownSec:             int64(r.Cooldown.Seconds()),
		LastTriggeredAt:         r.LastTriggeredAt,
	}
	if r.TargetID != nil {
		resp.TargetID = r.TargetID.String()
	}
	for _, c := range r.Channels {
		resp.Channels = append(resp.Channels, string(c))
	}
	return resp
}
