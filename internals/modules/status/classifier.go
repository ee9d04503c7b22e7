package status

import (
	"fmt"
	"strings"
	"time"
)

// StaleAfter is how old the latest check may be before the current status of
// a target is reported as unknown.
const StaleAfter = time.Hour

// DaysRemaining returns whole days between now and notAfter, truncated toward
// negative infinity so any certificate past its notAfter lands below zero.
func DaysRemaining(notAfter, now time.Time) int {
	delta := notAfter.Sub(now)
	days := int(delta.Hours() / 24)
	if delta < 0 && delta.Truncate(24*time.Hour) != delta {
		days--
	}
	return days
}

// ClassifySSL maps one certificate fact to a semantic status.
//
// Precedence: a failed check is `error` before anything else; `expired` beats
// `expiring_soon` and is reported regardless of chain validity; `invalid`
// means the check succeeded but the certificate itself is bad. The
// expiring-soon boundary is inclusive, the boundary day belongs to the more
// urgent bucket.
func ClassifySSL(fact CertificateFact, policy SSLPolicy, now time.Time) SSLStatus {
	if fact.CheckError != "" {
		return SSLError
	}
	if fact.NotAfter.IsZero() {
		// malformed fact, still deterministic
		return SSLError
	}

	days := DaysRemaining(fact.NotAfter, now)
	if days < 0 {
		return SSLExpired
	}
	if !fact.ChainValid {
		return SSLInvalid
	}

	threshold := policy.ExpiringSoonDays
	if threshold <= 0 {
		threshold = DefaultExpiringSoonDays
	}
	if days <= threshold {
		return SSLExpiringSoon
	}
	return SSLValid
}

// ClassifyUptime maps one HTTP fact to a semantic status plus a human reason.
//
// Precedence order: transport failure, status mismatch, content rule failure,
// latency, up. Exactly one status per check; `unknown` never comes out of
// here, it only exists for stale/disabled targets (see CurrentUptime).
func ClassifyUptime(fact HTTPFact, policy UptimePolicy) (UptimeStatus, string) {
	if fact.ConnError != ConnFailureNone {
		if fact.ConnError == ConnFailureTooManyRedirects {
			return UptimeDown, "too many redirects"
		}
		return UptimeDown, fmt.Sprintf("connection failed: %s", fact.ConnError)
	}

	if policy.ExpectedStatus > 0 && fact.StatusCode != policy.ExpectedStatus {
		if fact.StatusCode >= 500 {
			return UptimeDown, fmt.Sprintf("server error %d", fact.StatusCode)
		}
		return UptimeDown, fmt.Sprintf("unexpected status %d (expected %d)", fact.StatusCode, policy.ExpectedStatus)
	}

	if policy.ExpectedContent != "" && !strings.Contains(fact.BodySnippet, policy.ExpectedContent) {
		return UptimeContentMismatch, fmt.Sprintf("expected content %q not found", policy.ExpectedContent)
	}
	if policy.ForbiddenContent != "" && strings.Contains(fact.BodySnippet, policy.ForbiddenContent) {
		return UptimeContentMismatch, fmt.Sprintf("forbidden content %q present", policy.ForbiddenContent)
	}

	if policy.MaxResponseTimeMs > 0 && fact.ResponseTimeMs > policy.MaxResponseTimeMs {
		return UptimeSlow, fmt.Sprintf("response took %dms (limit %dms)", fact.ResponseTimeMs, policy.MaxResponseTimeMs)
	}

	return UptimeUp, ""
}

// CurrentUptime derives the status to show for a target right now from its
// latest classified check. Disabled targets and targets whose latest check is
// older than staleAfter are unknown.
func CurrentUptime(latest UptimeStatus, checkedAt, now time.Time, enabled bool, staleAfter time.Duration) UptimeStatus {
	if !enabled {
		return UptimeUnknown
	}
	if staleAfter <= 0 {
		staleAfter = StaleAfter
	}
	if checkedAt.IsZero() || now.Sub(checkedAt) > staleAfter {
		return UptimeUnknown
	}
	return latest
}
