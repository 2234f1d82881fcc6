package model

import (
	"database/sql"
	"math"
	"slices"
	"strings"
	"time"

	"lodge/shared/constant"
	"lodge/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "coupons"
	EntityName = "coupon"

	FieldID        = "id"
	FieldCode      = "code"
	FieldType      = "type"
	FieldAmount    = "amount"
	FieldRoomIDs   = "room_ids"
	FieldActive    = "active"
	FieldExpiresAt = "expires_at"
	FieldMaxUses   = "max_uses"
	FieldUsedCount = "used_count"
)

type Coupon struct {
	ID        string         `db:"id"`
	Code      string         `db:"code"`
	Type      string         `db:"type"`
	Amount    int            `db:"amount"`
	RoomIDs   pq.StringArray `db:"room_ids"`
	Active    bool           `db:"active"`
	ExpiresAt sql.NullTime   `db:"expires_at"`
	MaxUses   sql.NullInt64  `db:"max_uses"`
	UsedCount int            `db:"used_count"`
	model.Metadata
}

// NormalizeCode canonicalizes user-supplied coupon codes before lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsValid reports whether the coupon can still yield a discount at the given
// instant: it must be active, unexpired, and under its usage cap.
func (c *Coupon) IsValid(at time.Time) bool {
	if c.ID == constant.Empty || !c.Active {
		return false
	}

	if c.ExpiresAt.Valid && c.ExpiresAt.Time.Before(at) {
		return false
	}

	if c.MaxUses.Valid && c.MaxUses.Int64 >= 0 && int64(c.UsedCount) >= c.MaxUses.Int64 {
		return false
	}

	return true
}

// AppliesToRoom reports whether the coupon's allow-list admits the room.
// An empty list applies to every room.
func (c *Coupon) AppliesToRoom(roomID string) bool {
	if len(c.RoomIDs) == 0 {
		return true
	}

	return slices.Contains(c.RoomIDs, roomID)
}

// Apply computes the discounted total. An invalid coupon discounts nothing.
// The discount is clamped to [0, total] so the final total never goes
// negative and finalTotal + discount always equals total.
func (c *Coupon) Apply(total int, at time.Time) (finalTotal, discount int) {
	if !c.IsValid(at) {
		return total, 0
	}

	raw := 0
	switch c.Type {
	case constant.CouponTypeFixed:
		raw = c.Amount
	case constant.CouponTypePercent:
		raw = int(math.Round(float64(c.Amount) / 100 * float64(total)))
	default:
		return total, 0
	}

	discount = min(total, max(0, raw))

	return total - discount, discount
}
