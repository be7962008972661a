package domain

import (
	"testing"
	"time"
)

func TestSeatHoldIsLive(t *testing.T) {
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	future := now.Add(5 * time.Minute)
	past := now.Add(-5 * time.Minute)

	tests := []struct {
		name string
		hold SeatHold
		want bool
	}{
		{
			name: "confirmed blocks forever",
			hold: SeatHold{Status: SeatConfirmed},
			want: true,
		},
		{
			name: "held within window blocks",
			hold: SeatHold{Status: SeatHeld, HeldUntil: &future},
			want: true,
		},
		{
			name: "held past window does not block",
			hold: SeatHold{Status: SeatHeld, HeldUntil: &past},
			want: false,
		},
		{
			name: "held exactly at boundary does not block",
			hold: SeatHold{Status: SeatHeld, HeldUntil: &now},
			want: false,
		},
		{
			name: "held without deadline does not block",
			hold: SeatHold{Status: SeatHeld},
			want: false,
		},
		{
			name: "cancelled does not block",
			hold: SeatHold{Status: SeatCancelled, HeldUntil: &future},
			want: false,
		},
		{
			name: "expired does not block",
			hold: SeatHold{Status: SeatExpired, HeldUntil: &future},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.hold.IsLive(now); got != tt.want {
				t.Errorf("IsLive() = %v, want %v", got, tt.want)
			}
		})
	}
}
