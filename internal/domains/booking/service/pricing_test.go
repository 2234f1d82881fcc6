package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lodge/internal/domains/booking/service"
	"lodge/shared/constant"
)

func date(value string) time.Time {
	parsed, err := time.Parse(constant.StayDateFormat, value)
	if err != nil {
		panic(err)
	}

	return parsed
}

func TestComputeTotal(t *testing.T) {
	tests := []struct {
		name     string
		base     int
		checkIn  string
		checkOut string
		guests   int
		roomType string
		want     int
	}{
		{
			name:     "weekday twin single guest",
			base:     100,
			checkIn:  "2024-01-01", // Mon
			checkOut: "2024-01-03",
			guests:   1,
			roomType: constant.RoomTypeTwin,
			want:     200,
		},
		{
			name:     "weekend nights surcharged",
			base:     100,
			checkIn:  "2024-01-05", // Fri
			checkOut: "2024-01-08", // Mon, nights Fri+Sat+Sun
			guests:   1,
			roomType: constant.RoomTypeTwin,
			want:     100 + 150 + 150,
		},
		{
			name:     "guest count scales the rounded sum",
			base:     100,
			checkIn:  "2024-01-05",
			checkOut: "2024-01-08",
			guests:   2,
			roomType: constant.RoomTypeTwin,
			want:     800,
		},
		{
			name:     "premium multiplier on weekdays",
			base:     100,
			checkIn:  "2024-01-01",
			checkOut: "2024-01-03",
			guests:   1,
			roomType: constant.RoomTypePremium,
			want:     260,
		},
		{
			name:     "premium and weekend multipliers stack",
			base:     100,
			checkIn:  "2024-01-06", // Sat
			checkOut: "2024-01-07",
			guests:   1,
			roomType: constant.RoomTypePremium,
			want:     195, // 100 * 1.3 * 1.5
		},
		{
			name:     "rounding happens once after summing",
			base:     33,
			checkIn:  "2024-01-06", // Sat + Sun, each 33*1.5 = 49.5
			checkOut: "2024-01-08",
			guests:   1,
			roomType: constant.RoomTypeTwin,
			want:     99, // round(99.0), not round(49.5)*2 = 100
		},
		{
			name:     "zero nights",
			base:     100,
			checkIn:  "2024-01-01",
			checkOut: "2024-01-01",
			guests:   2,
			roomType: constant.RoomTypeTwin,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.ComputeTotal(tt.base, date(tt.checkIn), date(tt.checkOut), tt.guests, tt.roomType)

			assert.Equal(t, tt.want, got)
		})
	}
}
