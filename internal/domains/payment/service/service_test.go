package service_test

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"lodge/config"
	"lodge/infras/kakaopay"
	kakaopayMocks "lodge/infras/kakaopay/mocks"
	otelMocks "lodge/infras/otel/mocks"
	bookingModel "lodge/internal/domains/booking/model"
	bookingDto "lodge/internal/domains/booking/model/dto"
	bookingMocks "lodge/internal/domains/booking/service/mocks"
	couponMocks "lodge/internal/domains/coupon/mocks"
	"lodge/internal/domains/payment/service"
	"lodge/shared/constant"
	"lodge/shared/failure"
)

type paymentServiceMocks struct {
	bookings *bookingMocks.MockBooking
	coupons  *couponMocks.MockCoupon
	provider *kakaopayMocks.MockClient
}

func newPaymentService(t *testing.T) (service.Payment, paymentServiceMocks) {
	ctrl := gomock.NewController(t)

	mocks := paymentServiceMocks{
		bookings: bookingMocks.NewMockBooking(ctrl),
		coupons:  couponMocks.NewMockCoupon(ctrl),
		provider: kakaopayMocks.NewMockClient(ctrl),
	}

	cfg := &config.Config{}
	cfg.Payment.Kakao.BaseURL = "https://lodge.example.com"

	svc := service.New(mocks.bookings, mocks.coupons, mocks.provider, cfg, otelMocks.NewOtel())

	return svc, mocks
}

func pendingBooking() bookingModel.Booking {
	return bookingModel.Booking{
		ID:         "booking-1",
		RoomID:     "room-1",
		RoomName:   "Han River Loft",
		UserID:     "user-1",
		RoomType:   sql.NullString{String: constant.RoomTypeTwin, Valid: true},
		Guests:     2,
		TotalPrice: 800,
		Status:     constant.BookingStatusPending,
	}
}

func TestPaymentService_Ready(t *testing.T) {
	req := bookingDto.CreateBookingRequest{
		RoomID:   "room-1",
		CheckIn:  "2024-01-05",
		CheckOut: "2024-01-08",
		Guests:   2,
		RoomType: constant.RoomTypeTwin,
	}

	t.Run("session opened", func(t *testing.T) {
		svc, mocks := newPaymentService(t)

		mocks.bookings.EXPECT().CreatePending(gomock.Any(), req).Return(pendingBooking(), nil)
		mocks.provider.EXPECT().Ready(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, readyReq kakaopay.ReadyRequest) (kakaopay.ReadyResponse, error) {
				assert.Equal(t, "booking-1", readyReq.OrderID)
				assert.Equal(t, 800, readyReq.TotalAmount)
				assert.Equal(t, "https://lodge.example.com/v1/payments/approve?bookingId=booking-1", readyReq.ApprovalURL)

				return kakaopay.ReadyResponse{
					TID:            "T1234",
					NextRedirectPC: "https://pay.example.com/checkout",
				}, nil
			})
		mocks.bookings.EXPECT().AttachPaymentTID(gomock.Any(), "booking-1", "T1234").Return(nil)

		res, err := svc.Ready(context.Background(), req)

		assert.NoError(t, err)
		assert.Equal(t, "booking-1", res.BookingID)
		assert.Equal(t, "https://pay.example.com/checkout", res.RedirectURL)
	})

	t.Run("coupon usage counted when session opens", func(t *testing.T) {
		svc, mocks := newPaymentService(t)

		booking := pendingBooking()
		booking.CouponCode = "WELCOME10"
		booking.DiscountAmount = 80
		booking.TotalPrice = 720

		mocks.bookings.EXPECT().CreatePending(gomock.Any(), gomock.Any()).Return(booking, nil)
		mocks.provider.EXPECT().Ready(gomock.Any(), gomock.Any()).Return(kakaopay.ReadyResponse{
			TID:            "T1234",
			NextRedirectPC: "https://pay.example.com/checkout",
		}, nil)
		mocks.bookings.EXPECT().AttachPaymentTID(gomock.Any(), "booking-1", "T1234").Return(nil)
		mocks.coupons.EXPECT().IncrementUsage(gomock.Any(), "WELCOME10").Return(nil)

		_, err := svc.Ready(context.Background(), req)

		assert.NoError(t, err)
	})

	t.Run("provider failure cancels the pending booking", func(t *testing.T) {
		svc, mocks := newPaymentService(t)

		booking := pendingBooking()
		booking.CouponCode = "WELCOME10"
		booking.DiscountAmount = 80

		mocks.bookings.EXPECT().CreatePending(gomock.Any(), gomock.Any()).Return(booking, nil)
		mocks.provider.EXPECT().Ready(gomock.Any(), gomock.Any()).Return(kakaopay.ReadyResponse{}, errors.New("provider down"))
		mocks.bookings.EXPECT().ForceCancel(gomock.Any(), "booking-1").Return(nil)
		// No IncrementUsage: the discount was never consumed.

		_, err := svc.Ready(context.Background(), req)

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadGateway, failure.GetCode(err))
	})

	t.Run("booking creation failure propagates", func(t *testing.T) {
		svc, mocks := newPaymentService(t)

		mocks.bookings.EXPECT().CreatePending(gomock.Any(), gomock.Any()).
			Return(bookingModel.Booking{}, failure.Conflict("room is already booked for the selected dates"))

		_, err := svc.Ready(context.Background(), req)

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestPaymentService_Approve(t *testing.T) {
	t.Run("payment confirmed", func(t *testing.T) {
		svc, mocks := newPaymentService(t)

		booking := pendingBooking()
		booking.PaymentTID = "T1234"

		confirmed := booking
		confirmed.Status = constant.BookingStatusConfirmed

		mocks.bookings.EXPECT().FindByID(gomock.Any(), "booking-1").Return(booking, nil)
		mocks.provider.EXPECT().Approve(gomock.Any(), kakaopay.ApproveRequest{
			TID:     "T1234",
			OrderID: "booking-1",
			UserID:  "user-1",
			PgToken: "pg-token",
		}).Return(kakaopay.ApproveResponse{AID: "A1", TID: "T1234"}, nil)
		mocks.bookings.EXPECT().ConfirmPayment(gomock.Any(), "booking-1").Return(nil)
		mocks.bookings.EXPECT().FindByID(gomock.Any(), "booking-1").Return(confirmed, nil)

		res, err := svc.Approve(context.Background(), "booking-1", "pg-token")

		assert.NoError(t, err)
		assert.Equal(t, constant.BookingStatusConfirmed, res.Status)
	})

	t.Run("missing params", func(t *testing.T) {
		svc, _ := newPaymentService(t)

		_, err := svc.Approve(context.Background(), "", "pg-token")

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("unknown booking", func(t *testing.T) {
		svc, mocks := newPaymentService(t)

		mocks.bookings.EXPECT().FindByID(gomock.Any(), "booking-1").Return(bookingModel.Booking{}, nil)

		_, err := svc.Approve(context.Background(), "booking-1", "pg-token")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("booking without payment session", func(t *testing.T) {
		svc, mocks := newPaymentService(t)

		mocks.bookings.EXPECT().FindByID(gomock.Any(), "booking-1").Return(pendingBooking(), nil)

		_, err := svc.Approve(context.Background(), "booking-1", "pg-token")

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("cancelled booking cannot be approved", func(t *testing.T) {
		svc, mocks := newPaymentService(t)

		booking := pendingBooking()
		booking.PaymentTID = "T1234"
		booking.Status = constant.BookingStatusCancelled

		mocks.bookings.EXPECT().FindByID(gomock.Any(), "booking-1").Return(booking, nil)
		// Neither the provider nor ConfirmPayment is reached: the cancellation
		// already released the dates and must stay terminal.

		_, err := svc.Approve(context.Background(), "booking-1", "pg-token")

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("provider rejection keeps booking pending", func(t *testing.T) {
		svc, mocks := newPaymentService(t)

		booking := pendingBooking()
		booking.PaymentTID = "T1234"

		mocks.bookings.EXPECT().FindByID(gomock.Any(), "booking-1").Return(booking, nil)
		mocks.provider.EXPECT().Approve(gomock.Any(), gomock.Any()).
			Return(kakaopay.ApproveResponse{}, errors.New("approval rejected"))
		// No ConfirmPayment and no ForceCancel: the user may retry checkout.

		_, err := svc.Approve(context.Background(), "booking-1", "pg-token")

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadGateway, failure.GetCode(err))
	})
}

func TestPaymentService_CancelAndFail(t *testing.T) {
	t.Run("cancel releases the booking", func(t *testing.T) {
		svc, mocks := newPaymentService(t)

		mocks.bookings.EXPECT().ForceCancel(gomock.Any(), "booking-1").Return(nil)

		assert.NoError(t, svc.Cancel(context.Background(), "booking-1"))
	})

	t.Run("fail releases the booking", func(t *testing.T) {
		svc, mocks := newPaymentService(t)

		mocks.bookings.EXPECT().ForceCancel(gomock.Any(), "booking-1").Return(nil)

		assert.NoError(t, svc.Fail(context.Background(), "booking-1"))
	})

	t.Run("missing booking id", func(t *testing.T) {
		svc, _ := newPaymentService(t)

		assert.Error(t, svc.Cancel(context.Background(), ""))
		assert.Error(t, svc.Fail(context.Background(), ""))
	})
}
