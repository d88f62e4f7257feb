package entity

import (
	"testing"
	"time"
)

func TestOTPRecordState(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		record OTPRecord
		want   CodeState
	}{
		{
			name:   "active before expiry",
			record: OTPRecord{ExpiresAt: now.Add(time.Minute)},
			want:   StateActive,
		},
		{
			name:   "active at exact expiry instant",
			record: OTPRecord{ExpiresAt: now},
			want:   StateActive,
		},
		{
			name:   "expired after expiry",
			record: OTPRecord{ExpiresAt: now.Add(-time.Second)},
			want:   StateExpired,
		},
		{
			name:   "consumed wins over expired",
			record: OTPRecord{ExpiresAt: now.Add(-time.Hour), Consumed: true},
			want:   StateConsumed,
		},
		{
			name:   "consumed wins over active",
			record: OTPRecord{ExpiresAt: now.Add(time.Hour), Consumed: true},
			want:   StateConsumed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.record.State(now); got != tc.want {
				t.Errorf("State() = %v, want %v", got, tc.want)
			}
		})
	}
}
