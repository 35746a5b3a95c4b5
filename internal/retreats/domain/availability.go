package domain

// Availability is the live seat picture of a retreat. It is recomputed on
// every read because confirmation state lives on leads, not on the retreat.
type Availability struct {
	CurrentParticipants int  `json:"currentParticipants"`
	AvailableSpots      int  `json:"availableSpots"`
	IsFull              bool `json:"isFull"`
}

// ComputeAvailability derives seat availability from the retreat capacity
// and the count of fully confirmed participants (confirmed status with
// completed payment). AvailableSpots is clamped at zero even if the count
// somehow exceeds capacity.
func ComputeAvailability(maxParticipants, confirmedParticipants int) Availability {
	available := maxParticipants - confirmedParticipants
	if available < 0 {
		available = 0
	}
	return Availability{
		CurrentParticipants: confirmedParticipants,
		AvailableSpots:      available,
		IsFull:              confirmedParticipants >= maxParticipants,
	}
}
