package model_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lodge/internal/domains/coupon/model"
	"lodge/shared/constant"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func activeCoupon(couponType string, amount int) model.Coupon {
	return model.Coupon{
		ID:     "coupon-1",
		Code:   "SAVE",
		Type:   couponType,
		Amount: amount,
		Active: true,
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "WELCOME10", model.NormalizeCode("  welcome10 "))
	assert.Equal(t, "SAVE", model.NormalizeCode("Save"))
	assert.Equal(t, "", model.NormalizeCode("   "))
}

func TestCoupon_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		coupon model.Coupon
		want   bool
	}{
		{
			name:   "active coupon",
			coupon: activeCoupon(constant.CouponTypePercent, 10),
			want:   true,
		},
		{
			name:   "zero value coupon",
			coupon: model.Coupon{},
			want:   false,
		},
		{
			name: "inactive",
			coupon: model.Coupon{
				ID:   "coupon-1",
				Code: "SAVE",
			},
			want: false,
		},
		{
			name: "expired",
			coupon: model.Coupon{
				ID:        "coupon-1",
				Code:      "SAVE",
				Active:    true,
				ExpiresAt: sql.NullTime{Time: now.Add(-time.Hour), Valid: true},
			},
			want: false,
		},
		{
			name: "expiry in the future",
			coupon: model.Coupon{
				ID:        "coupon-1",
				Code:      "SAVE",
				Active:    true,
				ExpiresAt: sql.NullTime{Time: now.Add(time.Hour), Valid: true},
			},
			want: true,
		},
		{
			name: "usage cap reached",
			coupon: model.Coupon{
				ID:        "coupon-1",
				Code:      "SAVE",
				Active:    true,
				MaxUses:   sql.NullInt64{Int64: 5, Valid: true},
				UsedCount: 5,
			},
			want: false,
		},
		{
			name: "usage cap not reached",
			coupon: model.Coupon{
				ID:        "coupon-1",
				Code:      "SAVE",
				Active:    true,
				MaxUses:   sql.NullInt64{Int64: 5, Valid: true},
				UsedCount: 4,
			},
			want: true,
		},
		{
			name: "no usage cap",
			coupon: model.Coupon{
				ID:        "coupon-1",
				Code:      "SAVE",
				Active:    true,
				UsedCount: 1000,
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.coupon.IsValid(now))
		})
	}
}

func TestCoupon_AppliesToRoom(t *testing.T) {
	open := activeCoupon(constant.CouponTypePercent, 10)
	assert.True(t, open.AppliesToRoom("any-room"))

	restricted := activeCoupon(constant.CouponTypePercent, 10)
	restricted.RoomIDs = []string{"room-1", "room-2"}

	assert.True(t, restricted.AppliesToRoom("room-2"))
	assert.False(t, restricted.AppliesToRoom("room-3"))
}

func TestCoupon_Apply(t *testing.T) {
	tests := []struct {
		name         string
		coupon       model.Coupon
		total        int
		wantFinal    int
		wantDiscount int
	}{
		{
			name:         "percent discount",
			coupon:       activeCoupon(constant.CouponTypePercent, 10),
			total:        800,
			wantFinal:    720,
			wantDiscount: 80,
		},
		{
			name:         "percent rounds to nearest unit",
			coupon:       activeCoupon(constant.CouponTypePercent, 15),
			total:        333,
			wantFinal:    283,
			wantDiscount: 50,
		},
		{
			name:         "fixed discount",
			coupon:       activeCoupon(constant.CouponTypeFixed, 100),
			total:        800,
			wantFinal:    700,
			wantDiscount: 100,
		},
		{
			name:         "fixed discount clamped to total",
			coupon:       activeCoupon(constant.CouponTypeFixed, 1000),
			total:        800,
			wantFinal:    0,
			wantDiscount: 800,
		},
		{
			name:         "negative amount discounts nothing",
			coupon:       activeCoupon(constant.CouponTypeFixed, -50),
			total:        800,
			wantFinal:    800,
			wantDiscount: 0,
		},
		{
			name:         "unknown type discounts nothing",
			coupon:       activeCoupon("mystery", 10),
			total:        800,
			wantFinal:    800,
			wantDiscount: 0,
		},
		{
			name: "invalid coupon discounts nothing",
			coupon: model.Coupon{
				ID:     "coupon-1",
				Type:   constant.CouponTypePercent,
				Amount: 10,
			},
			total:        800,
			wantFinal:    800,
			wantDiscount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			final, discount := tt.coupon.Apply(tt.total, now)

			assert.Equal(t, tt.wantFinal, final)
			assert.Equal(t, tt.wantDiscount, discount)
			assert.Equal(t, tt.total, final+discount)
		})
	}
}
