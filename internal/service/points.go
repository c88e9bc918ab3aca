package service

// Point deltas awarded by the gamification ledger. Each delta is applied
// at most once per vote/booking, inside the same transaction as the
// state change it rewards, and user points never drop below zero.
const (
	pointsVote        = 5
	pointsBooking     = 10
	pointsCancel      = -5
	pointsCheckIn     = 15
	pointsWasteRating = 2
)
