package service

import (
	"math"
	"time"

	"lodge/shared/constant"
)

const (
	premiumMultiplier = 1.3
	weekendMultiplier = 1.5
)

// ComputeTotal prices a stay over [checkIn, checkOut). Each night contributes
// the base price scaled by the room-type tier and, for Saturdays and Sundays,
// the weekend surcharge. The accumulated sum is rounded once, after all
// nights, then multiplied by the guest count. Per-night rounding would
// compound the error across long stays.
func ComputeTotal(basePricePerNight int, checkIn, checkOut time.Time, guests int, roomType string) int {
	typeMultiplier := 1.0
	if roomType == constant.RoomTypePremium {
		typeMultiplier = premiumMultiplier
	}

	sum := 0.0

	for day := checkIn; day.Before(checkOut); day = day.AddDate(0, 0, 1) {
		nightly := float64(basePricePerNight) * typeMultiplier

		if weekday := day.Weekday(); weekday == time.Saturday || weekday == time.Sunday {
			nightly *= weekendMultiplier
		}

		sum += nightly
	}

	return int(math.Round(sum)) * guests
}
