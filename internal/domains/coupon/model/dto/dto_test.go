package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lodge/internal/domains/coupon/model/dto"
	"lodge/shared/constant"
	"lodge/shared/validator"
)

func TestCreateCouponRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.CreateCouponRequest
		wantErr bool
	}{
		{
			name: "percent coupon",
			req: dto.CreateCouponRequest{
				Code:   "WELCOME10",
				Type:   constant.CouponTypePercent,
				Amount: 10,
			},
		},
		{
			name: "zero amount is a valid fixed coupon",
			req: dto.CreateCouponRequest{
				Code:   "FREEBIE",
				Type:   constant.CouponTypeFixed,
				Amount: 0,
			},
		},
		{
			name: "negative amount rejected",
			req: dto.CreateCouponRequest{
				Code:   "NEGATIVE",
				Type:   constant.CouponTypeFixed,
				Amount: -5,
			},
			wantErr: true,
		},
		{
			name: "unknown type rejected",
			req: dto.CreateCouponRequest{
				Code:   "WELCOME10",
				Type:   "bogus",
				Amount: 10,
			},
			wantErr: true,
		},
		{
			name: "missing code rejected",
			req: dto.CreateCouponRequest{
				Type:   constant.CouponTypePercent,
				Amount: 10,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
		})
	}
}
