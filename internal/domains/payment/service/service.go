package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"lodge/config"
	"lodge/infras/kakaopay"
	"lodge/infras/otel"
	bookingDto "lodge/internal/domains/booking/model/dto"
	bookingService "lodge/internal/domains/booking/service"
	couponRepo "lodge/internal/domains/coupon/repository"
	"lodge/internal/domains/payment/model/dto"
	"lodge/shared/constant"
	"lodge/shared/failure"

	"github.com/rs/zerolog/log"
)

type Payment interface {
	Ready(ctx context.Context, req bookingDto.CreateBookingRequest) (dto.ReadyResponse, error)
	Approve(ctx context.Context, bookingID, pgToken string) (bookingDto.BookingResponse, error)
	Cancel(ctx context.Context, bookingID string) error
	Fail(ctx context.Context, bookingID string) error
}

type serviceImpl struct {
	bookings bookingService.Booking
	coupons  couponRepo.Coupon
	provider kakaopay.Client
	cfg      *config.Config
	otel     otel.Otel
}

func New(
	bookings bookingService.Booking,
	coupons couponRepo.Coupon,
	provider kakaopay.Client,
	cfg *config.Config,
	otel otel.Otel,
) Payment {
	return &serviceImpl{
		bookings: bookings,
		coupons:  coupons,
		provider: provider,
		cfg:      cfg,
		otel:     otel,
	}
}

// Ready creates a pending booking and opens a payment session for it. If the
// provider refuses the session the pending booking is force-cancelled so the
// dates are released immediately.
func (s *serviceImpl) Ready(ctx context.Context, req bookingDto.CreateBookingRequest) (res dto.ReadyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Ready")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.bookings.CreatePending(ctx, req)
	if err != nil {
		return res, err
	}

	roomType := constant.Empty
	if booking.RoomType.Valid {
		roomType = booking.RoomType.String
	}

	callback := s.cfg.Payment.Kakao.BaseURL + "/v1/payments"

	ready, err := s.provider.Ready(ctx, kakaopay.ReadyRequest{
		OrderID:     booking.ID,
		UserID:      booking.UserID,
		ItemName:    fmt.Sprintf("%s (%s)", booking.RoomName, roomType),
		Quantity:    1,
		TotalAmount: booking.TotalPrice,
		ApprovalURL: callback + "/approve?bookingId=" + booking.ID,
		CancelURL:   callback + "/cancel?bookingId=" + booking.ID,
		FailURL:     callback + "/fail?bookingId=" + booking.ID,
	})
	if err != nil {
		log.Error().Err(err).Str("bookingId", booking.ID).Msg("payment ready failed, cancelling pending booking")

		if cancelErr := s.bookings.ForceCancel(ctx, booking.ID); cancelErr != nil {
			log.Error().Err(cancelErr).Str("bookingId", booking.ID).Msg("failed to cancel booking after payment ready failure")
		}

		return res, failure.BadGateway("payment provider is unavailable") // nolint:wrapcheck
	}

	if err = s.bookings.AttachPaymentTID(ctx, booking.ID, ready.TID); err != nil {
		return res, err
	}

	// Usage counts on session open rather than approval; an abandoned checkout
	// keeps the slot consumed, matching how single-use codes are handed out.
	if booking.DiscountAmount > 0 && booking.CouponCode != constant.Empty {
		if err := s.coupons.IncrementUsage(ctx, booking.CouponCode); err != nil {
			log.Error().Err(err).Str("coupon", booking.CouponCode).Msg("failed to increment coupon usage")
		}
	}

	res.BookingID = booking.ID
	res.RedirectURL = ready.NextRedirectPC

	return res, nil
}

// Approve lands the provider's success callback. The booking must exist and
// hold the transaction id from Ready; on provider failure the booking stays
// pending so the user can retry checkout.
func (s *serviceImpl) Approve(ctx context.Context, bookingID, pgToken string) (res bookingDto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Approve")
	defer scope.End()
	defer scope.TraceIfError(err)

	if bookingID == constant.Empty || pgToken == constant.Empty {
		return res, failure.BadRequestFromString("bookingId and pg_token are required") // nolint:wrapcheck
	}

	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return res, err
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if booking.PaymentTID == constant.Empty {
		return res, failure.BadRequestFromString("booking has no payment session") // nolint:wrapcheck
	}

	// Cancelled is terminal. A cancel/fail callback or a user cancellation may
	// land before the approve redirect does; approving afterwards would
	// re-occupy dates the cancellation already released.
	if booking.Status == constant.BookingStatusCancelled {
		return res, failure.Conflict("booking has been cancelled") // nolint:wrapcheck
	}

	_, err = s.provider.Approve(ctx, kakaopay.ApproveRequest{
		TID:     booking.PaymentTID,
		OrderID: booking.ID,
		UserID:  booking.UserID,
		PgToken: pgToken,
	})
	if err != nil {
		log.Error().Err(err).Str("bookingId", booking.ID).Msg("payment approve failed")

		return res, failure.BadGateway("payment approval failed") // nolint:wrapcheck
	}

	if err = s.bookings.ConfirmPayment(ctx, booking.ID); err != nil {
		return res, err
	}

	confirmed, err := s.bookings.FindByID(ctx, booking.ID)
	if err != nil {
		return res, err
	}

	res.FromModel(confirmed)

	return res, nil
}

// Cancel lands the provider's user-abort callback and releases the dates.
func (s *serviceImpl) Cancel(ctx context.Context, bookingID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	if bookingID == constant.Empty {
		return failure.BadRequestFromString("bookingId is required") // nolint:wrapcheck
	}

	return s.bookings.ForceCancel(ctx, bookingID)
}

// Fail lands the provider's failure callback; same effect as Cancel.
func (s *serviceImpl) Fail(ctx context.Context, bookingID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Fail")
	defer scope.End()
	defer scope.TraceIfError(err)

	if bookingID == constant.Empty {
		return failure.BadRequestFromString("bookingId is required") // nolint:wrapcheck
	}

	return s.bookings.ForceCancel(ctx, bookingID)
}
