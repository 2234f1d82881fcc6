package model

import (
	"database/sql"
	"time"

	"lodge/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                = "id"
	FieldRoomID            = "room_id"
	FieldRoomName          = "room_name"
	FieldUserID            = "user_id"
	FieldRoomType          = "room_type"
	FieldCheckIn           = "check_in"
	FieldCheckOut          = "check_out"
	FieldGuests            = "guests"
	FieldOriginalTotal     = "original_total"
	FieldDiscountAmount    = "discount_amount"
	FieldTotalPrice        = "total_price"
	FieldCouponCode        = "coupon_code"
	FieldStatus            = "status"
	FieldPaymentTID        = "payment_tid"
	FieldPaymentApprovedAt = "payment_approved_at"
)

// Booking models one stay reservation. CheckOut is an exclusive upper bound.
// RoomType is nullable because rows created before room-type tracking existed
// carry no type and block every type for their room.
type Booking struct {
	ID                string         `db:"id"`
	RoomID            string         `db:"room_id"`
	RoomName          string         `db:"room_name"`
	UserID            string         `db:"user_id"`
	RoomType          sql.NullString `db:"room_type"`
	CheckIn           time.Time      `db:"check_in"`
	CheckOut          time.Time      `db:"check_out"`
	Guests            int            `db:"guests"`
	OriginalTotal     int            `db:"original_total"`
	DiscountAmount    int            `db:"discount_amount"`
	TotalPrice        int            `db:"total_price"`
	CouponCode        string         `db:"coupon_code"`
	Status            string         `db:"status"`
	PaymentTID        string         `db:"payment_tid"`
	PaymentApprovedAt sql.NullTime   `db:"payment_approved_at"`
	model.Metadata
}
