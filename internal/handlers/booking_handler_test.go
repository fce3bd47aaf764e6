package handlers

import "testing"

func TestExceedsQuota(t *testing.T) {
	quota := func(n int) *int { return &n }

	tests := []struct {
		name      string
		quota     *int
		booked    int64
		requested int
		want      bool
	}{
		{"unlimited when nil", nil, 1000, 50, false},
		{"under quota", quota(100), 40, 10, false},
		{"exact fit", quota(100), 90, 10, false},
		{"one over", quota(100), 91, 10, true},
		{"already full", quota(5), 5, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exceedsQuota(tt.quota, tt.booked, tt.requested); got != tt.want {
				t.Errorf("exceedsQuota(%v, %d, %d) = %v, want %v", tt.quota, tt.booked, tt.requested, got, tt.want)
			}
		})
	}
}
