package dto

import (
	"lodge/internal/domains/booking/model"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
)

type CreateBookingRequest struct {
	RoomID     string `json:"roomId"     validate:"required,uuid"`
	CheckIn    string `json:"checkIn"    validate:"required"`
	CheckOut   string `json:"checkOut"   validate:"required"`
	Guests     int    `json:"guests"     validate:"required,min=1"`
	RoomType   string `json:"roomType"   validate:"required,oneof=twin premium"`
	CouponCode string `json:"couponCode" validate:"omitempty,max=50"`
}

type BookingResponse struct {
	ID                string `json:"id"`
	RoomID            string `json:"room_id"`
	RoomName          string `json:"room_name"`
	UserID            string `json:"user_id"`
	RoomType          string `json:"room_type,omitempty"`
	CheckIn           string `json:"check_in"`
	CheckOut          string `json:"check_out"`
	Guests            int    `json:"guests"`
	OriginalTotal     int    `json:"original_total"`
	DiscountAmount    int    `json:"discount_amount"`
	TotalPrice        int    `json:"total_price"`
	CouponCode        string `json:"coupon_code,omitempty"`
	Status            string `json:"status"`
	PaymentApprovedAt string `json:"payment_approved_at,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.RoomName = model.RoomName
	r.UserID = model.UserID
	r.CheckIn = model.CheckIn.Format(constant.StayDateFormat)
	r.CheckOut = model.CheckOut.Format(constant.StayDateFormat)
	r.Guests = model.Guests
	r.OriginalTotal = model.OriginalTotal
	r.DiscountAmount = model.DiscountAmount
	r.TotalPrice = model.TotalPrice
	r.CouponCode = model.CouponCode
	r.Status = model.Status

	if model.RoomType.Valid {
		r.RoomType = model.RoomType.String
	}

	if model.PaymentApprovedAt.Valid {
		r.PaymentApprovedAt = model.PaymentApprovedAt.Time.Format(constant.DateFormat)
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// RoomScheduleEntry is the minimal slice of a booking a calendar UI needs to
// block out dates.
type RoomScheduleEntry struct {
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
	RoomType string `json:"roomType,omitempty"`
}

type RoomScheduleResponse struct {
	Bookings []RoomScheduleEntry `json:"bookings"`
}

func (r *RoomScheduleResponse) FromModels(models []model.Booking) {
	r.Bookings = make([]RoomScheduleEntry, len(models))
	for i, mod := range models {
		r.Bookings[i] = RoomScheduleEntry{
			CheckIn:  mod.CheckIn.Format(constant.StayDateFormat),
			CheckOut: mod.CheckOut.Format(constant.StayDateFormat),
		}

		if mod.RoomType.Valid {
			r.Bookings[i].RoomType = mod.RoomType.String
		}
	}
}

type BlockedRoomsResponse struct {
	RoomIDs []string `json:"roomIds"`
}
