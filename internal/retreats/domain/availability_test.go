package domain

import "testing"

func TestComputeAvailability(t *testing.T) {
	cases := []struct {
		name      string
		max       int
		confirmed int
		want      Availability
	}{
		{"empty retreat", 10, 0, Availability{0, 10, false}},
		{"partially booked", 10, 4, Availability{4, 6, false}},
		{"exactly full", 2, 2, Availability{2, 0, true}},
		{"over capacity clamps to zero", 2, 3, Availability{3, 0, true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeAvailability(tc.max, tc.confirmed)
			if got != tc.want {
				t.Fatalf("ComputeAvailability(%d, %d) = %+v, want %+v", tc.max, tc.confirmed, got, tc.want)
			}
		})
	}
}

func TestComputeAvailabilitySpotsPlusParticipantsEqualsCapacity(t *testing.T) {
	for max := 1; max <= 20; max++ {
		for confirmed := 0; confirmed <= max; confirmed++ {
			got := ComputeAvailability(max, confirmed)
			if got.AvailableSpots+got.CurrentParticipants != max {
				t.Fatalf("capacity invariant broken: max=%d confirmed=%d spots=%d", max, confirmed, got.AvailableSpots)
			}
			if got.AvailableSpots < 0 {
				t.Fatalf("negative spots for max=%d confirmed=%d", max, confirmed)
			}
		}
	}
}
