package status

import (
	"testing"
	"time"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestDaysRemaining(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		notAfter time.Time
		want     int
	}{
		{"thirty days out", baseTime.Add(30 * 24 * time.Hour), 30},
		{"partial day rounds down", baseTime.Add(36 * time.Hour), 1},
		{"under a day is zero", baseTime.Add(6 * time.Hour), 0},
		{"exactly now is zero", baseTime, 0},
		{"just past is negative", baseTime.Add(-time.Minute), -1},
		{"one day past", baseTime.Add(-24 * time.Hour), -1},
		{"day and a half past", baseTime.Add(-36 * time.Hour), -2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := DaysRemaining(tc.notAfter, baseTime); got != tc.want {
				t.Fatalf("DaysRemaining(%v) = %d, want %d", tc.notAfter, got, tc.want)
			}
		})
	}
}

func TestClassifySSL(t *testing.T) {
	t.Parallel()

	policy := SSLPolicy{ExpiringSoonDays: 14}

	cases := []struct {
		name string
		fact CertificateFact
		want SSLStatus
	}{
		{
			name: "valid beyond threshold",
			fact: CertificateFact{NotAfter: baseTime.Add(15 * 24 * time.Hour), ChainValid: true},
			want: SSLValid,
		},
		{
			name: "boundary day is expiring soon",
			fact: CertificateFact{NotAfter: baseTime.Add(14 * 24 * time.Hour), ChainValid: true},
			want: SSLExpiringSoon,
		},
		{
			name: "one day left",
			fact: CertificateFact{NotAfter: baseTime.Add(24 * time.Hour), ChainValid: true},
			want: SSLExpiringSoon,
		},
		{
			name: "past not_after is expired",
			fact: CertificateFact{NotAfter: baseTime.Add(-time.Hour), ChainValid: true},
			want: SSLExpired,
		},
		{
			name: "expired wins over invalid chain",
			fact: CertificateFact{NotAfter: baseTime.Add(-48 * time.Hour), ChainValid: false},
			want: SSLExpired,
		},
		{
			name: "broken chain while current",
			fact: CertificateFact{NotAfter: baseTime.Add(60 * 24 * time.Hour), ChainValid: false},
			want: SSLInvalid,
		},
		{
			name: "check error wins over everything",
			fact: CertificateFact{NotAfter: baseTime.Add(-time.Hour), ChainValid: false, CheckError: "handshake timeout"},
			want: SSLError,
		},
		{
			name: "zero not_after is an error",
			fact: CertificateFact{ChainValid: true},
			want: SSLError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ClassifySSL(tc.fact, policy, baseTime); got != tc.want {
				t.Fatalf("ClassifySSL = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClassifySSLDefaultThreshold(t *testing.T) {
	t.Parallel()

	fact := CertificateFact{NotAfter: baseTime.Add(14 * 24 * time.Hour), ChainValid: true}
	if got := ClassifySSL(fact, SSLPolicy{}, baseTime); got != SSLExpiringSoon {
		t.Fatalf("default threshold: got %q, want %q", got, SSLExpiringSoon)
	}

	fact.NotAfter = baseTime.Add(15 * 24 * time.Hour)
	if got := ClassifySSL(fact, SSLPolicy{}, baseTime); got != SSLValid {
		t.Fatalf("default threshold: got %q, want %q", got, SSLValid)
	}
}

func TestClassifyUptime(t *testing.T) {
	t.Parallel()

	policy := UptimePolicy{ExpectedStatus: 200, MaxResponseTimeMs: 5000}

	cases := []struct {
		name       string
		fact       HTTPFact
		policy     UptimePolicy
		want       UptimeStatus
		wantReason string
	}{
		{
			name:   "healthy",
			fact:   HTTPFact{StatusCode: 200, ResponseTimeMs: 120},
			policy: policy,
			want:   UptimeUp,
		},
		{
			name:       "conn error beats everything",
			fact:       HTTPFact{ConnError: ConnFailureTimeout},
			policy:     policy,
			want:       UptimeDown,
			wantReason: "connection failed: timeout",
		},
		{
			name:       "too many redirects",
			fact:       HTTPFact{ConnError: ConnFailureTooManyRedirects},
			policy:     policy,
			want:       UptimeDown,
			wantReason: "too many redirects",
		},
		{
			name:       "server error",
			fact:       HTTPFact{StatusCode: 503, ResponseTimeMs: 80},
			policy:     policy,
			want:       UptimeDown,
			wantReason: "server error 503",
		},
		{
			name:       "unexpected status",
			fact:       HTTPFact{StatusCode: 301, ResponseTimeMs: 80},
			policy:     policy,
			want:       UptimeDown,
			wantReason: "unexpected status 301 (expected 200)",
		},
		{
			name:   "slow never up",
			fact:   HTTPFact{StatusCode: 200, ResponseTimeMs: 6000},
			policy: policy,
			want:   UptimeSlow,
		},
		{
			name:   "at the latency limit is up",
			fact:   HTTPFact{StatusCode: 200, ResponseTimeMs: 5000},
			policy: policy,
			want:   UptimeUp,
		},
		{
			name:   "missing expected content",
			fact:   HTTPFact{StatusCode: 200, ResponseTimeMs: 100, BodySnippet: "<html>maintenance page</html>"},
			policy: UptimePolicy{ExpectedStatus: 200, MaxResponseTimeMs: 5000, ExpectedContent: "Welcome"},
			want:   UptimeContentMismatch,
		},
		{
			name:   "forbidden content present",
			fact:   HTTPFact{StatusCode: 200, ResponseTimeMs: 100, BodySnippet: "fatal error: db down"},
			policy: UptimePolicy{ExpectedStatus: 200, MaxResponseTimeMs: 5000, ForbiddenContent: "fatal error"},
			want:   UptimeContentMismatch,
		},
		{
			name:   "status mismatch beats content rules",
			fact:   HTTPFact{StatusCode: 500, ResponseTimeMs: 100, BodySnippet: "fatal error"},
			policy: UptimePolicy{ExpectedStatus: 200, MaxResponseTimeMs: 5000, ForbiddenContent: "fatal error"},
			want:   UptimeDown,
		},
		{
			name:   "content mismatch beats slow",
			fact:   HTTPFact{StatusCode: 200, ResponseTimeMs: 9000, BodySnippet: "nope"},
			policy: UptimePolicy{ExpectedStatus: 200, MaxResponseTimeMs: 5000, ExpectedContent: "Welcome"},
			want:   UptimeContentMismatch,
		},
		{
			name:   "no latency budget means never slow",
			fact:   HTTPFact{StatusCode: 200, ResponseTimeMs: 60000},
			policy: UptimePolicy{ExpectedStatus: 200},
			want:   UptimeUp,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, reason := ClassifyUptime(tc.fact, tc.policy)
			if got != tc.want {
				t.Fatalf("ClassifyUptime = %q (reason %q), want %q", got, reason, tc.want)
			}
			if tc.wantReason != "" && reason != tc.wantReason {
				t.Fatalf("reason = %q, want %q", reason, tc.wantReason)
			}
		})
	}
}

func TestCurrentUptime(t *testing.T) {
	t.Parallel()

	now := baseTime

	cases := []struct {
		name      string
		latest    UptimeStatus
		checkedAt time.Time
		enabled   bool
		want      UptimeStatus
	}{
		{"fresh check passes through", UptimeUp, now.Add(-10 * time.Minute), true, UptimeUp},
		{"down passes through", UptimeDown, now.Add(-10 * time.Minute), true, UptimeDown},
		{"stale check is unknown", UptimeUp, now.Add(-2 * time.Hour), true, UptimeUnknown},
		{"disabled target is unknown", UptimeUp, now.Add(-time.Minute), false, UptimeUnknown},
		{"never checked is unknown", UptimeUp, time.Time{}, true, UptimeUnknown},
		{"exactly at the stale boundary still counts", UptimeDown, now.Add(-time.Hour), true, UptimeDown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := CurrentUptime(tc.latest, tc.checkedAt, now, tc.enabled, time.Hour)
			if got != tc.want {
				t.Fatalf("CurrentUptime = %q, want %q", got, tc.want)
			}
		})
	}
}
