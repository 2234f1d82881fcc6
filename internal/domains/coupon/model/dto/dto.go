package dto

import (
	"database/sql"
	"time"

	"lodge/internal/domains/coupon/model"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CreateCouponRequest struct {
	Code      string   `json:"code"       validate:"required,max=50"`
	Type      string   `json:"type"       validate:"required,oneof=percent fixed"`
	Amount    int      `json:"amount"     validate:"min=0"`
	RoomIDs   []string `json:"room_ids"   validate:"omitempty,dive,uuid"`
	Active    *bool    `json:"active"     validate:"omitempty"`
	ExpiresAt string   `json:"expires_at" validate:"omitempty"`
	MaxUses   *int     `json:"max_uses"   validate:"omitempty,min=0"`
}

func (c *CreateCouponRequest) ToModel(user string) (model.Coupon, error) {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	expiresAt := sql.NullTime{}
	if c.ExpiresAt != constant.Empty {
		parsed, err := time.Parse(time.RFC3339, c.ExpiresAt)
		if err != nil {
			return model.Coupon{}, err
		}

		expiresAt = sql.NullTime{Time: parsed, Valid: true}
	}

	maxUses := sql.NullInt64{}
	if c.MaxUses != nil {
		maxUses = sql.NullInt64{Int64: int64(*c.MaxUses), Valid: true}
	}

	return model.Coupon{
		ID:        uuid.NewString(),
		Code:      model.NormalizeCode(c.Code),
		Type:      c.Type,
		Amount:    c.Amount,
		RoomIDs:   pq.StringArray(c.RoomIDs),
		Active:    active,
		ExpiresAt: expiresAt,
		MaxUses:   maxUses,
		UsedCount: 0,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type CouponResponse struct {
	ID        string   `json:"id"`
	Code      string   `json:"code"`
	Type      string   `json:"type"`
	Amount    int      `json:"amount"`
	RoomIDs   []string `json:"room_ids"`
	Active    bool     `json:"active"`
	ExpiresAt string   `json:"expires_at,omitempty"`
	MaxUses   *int     `json:"max_uses,omitempty"`
	UsedCount int      `json:"used_count"`
	gDto.Metadata
}

func (r *CouponResponse) FromModel(model model.Coupon) {
	r.ID = model.ID
	r.Code = model.Code
	r.Type = model.Type
	r.Amount = model.Amount
	r.RoomIDs = model.RoomIDs
	r.Active = model.Active
	r.UsedCount = model.UsedCount

	if model.ExpiresAt.Valid {
		r.ExpiresAt = model.ExpiresAt.Time.Format(time.RFC3339)
	}

	if model.MaxUses.Valid {
		maxUses := int(model.MaxUses.Int64)
		r.MaxUses = &maxUses
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetCouponsResponse struct {
	Coupons   []CouponResponse `json:"coupons"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetCouponsResponse) FromModels(models []model.Coupon, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Coupons = make([]CouponResponse, len(models))
	for i, mod := range models {
		r.Coupons[i].FromModel(mod)
	}
}

// ValidateCouponResponse is the public coupon summary returned before
// checkout. It never exposes usage counters.
type ValidateCouponResponse struct {
	Code   string `json:"code"`
	Type   string `json:"type"`
	Amount int    `json:"amount"`
}

func (r *ValidateCouponResponse) FromModel(model model.Coupon) {
	r.Code = model.Code
	r.Type = model.Type
	r.Amount = model.Amount
}
