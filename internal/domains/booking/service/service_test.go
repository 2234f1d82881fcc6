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
	otelMocks "lodge/infras/otel/mocks"
	activityMocks "lodge/internal/domains/activity/service/mocks"
	bookingMocks "lodge/internal/domains/booking/mocks"
	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/model/dto"
	"lodge/internal/domains/booking/repository"
	"lodge/internal/domains/booking/service"
	couponMocks "lodge/internal/domains/coupon/mocks"
	couponModel "lodge/internal/domains/coupon/model"
	roomMocks "lodge/internal/domains/room/mocks"
	roomModel "lodge/internal/domains/room/model"
	"lodge/shared/cache"
	cacheMocks "lodge/shared/cache/mocks"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/timezone"
)

type bookingServiceMocks struct {
	repo     *bookingMocks.MockBooking
	roomRepo *roomMocks.MockRoom
	coupons  *couponMocks.MockCoupon
	activity *activityMocks.MockActivity
	cache    *cacheMocks.MockRedisCache
}

func newBookingService(t *testing.T) (service.Booking, bookingServiceMocks) {
	ctrl := gomock.NewController(t)

	mocks := bookingServiceMocks{
		repo:     bookingMocks.NewMockBooking(ctrl),
		roomRepo: roomMocks.NewMockRoom(ctrl),
		coupons:  couponMocks.NewMockCoupon(ctrl),
		activity: activityMocks.NewMockActivity(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
	}

	// List cache invalidation runs detached from the request.
	mocks.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mocks.repo, mocks.roomRepo, mocks.coupons, mocks.activity, cfg, mocks.cache, otelMocks.NewOtel())

	return svc, mocks
}

func userContext(userID string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
}

func adminContext(userID string) context.Context {
	ctx := userContext(userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
}

func testRoom() roomModel.Room {
	return roomModel.Room{
		ID:            "room-1",
		Name:          "Han River Loft",
		PricePerNight: 100,
		MaxGuests:     4,
	}
}

func TestBookingService_Create(t *testing.T) {
	validReq := dto.CreateBookingRequest{
		RoomID:   "room-1",
		CheckIn:  "2024-01-05",
		CheckOut: "2024-01-08",
		Guests:   2,
		RoomType: constant.RoomTypeTwin,
	}

	tests := []struct {
		name      string
		req       dto.CreateBookingRequest
		setupMock func(m bookingServiceMocks)
		wantErr   bool
		wantCode  int
		check     func(t *testing.T, res dto.BookingResponse)
	}{
		{
			name: "successful creation",
			req:  validReq,
			setupMock: func(m bookingServiceMocks) {
				m.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil)
				m.repo.EXPECT().HasOverlap(gomock.Any(), "room-1", constant.RoomTypeTwin, gomock.Any(), gomock.Any()).Return(false, nil)
				m.repo.EXPECT().InsertChecked(gomock.Any(), gomock.Any()).Return(nil)
				m.activity.EXPECT().Record(gomock.Any(), gomock.Any())
			},
			check: func(t *testing.T, res dto.BookingResponse) {
				// Fri 100 + Sat 150 + Sun 150, times 2 guests.
				assert.Equal(t, 800, res.TotalPrice)
				assert.Equal(t, constant.BookingStatusConfirmed, res.Status)
				assert.Equal(t, "user-1", res.UserID)
			},
		},
		{
			name: "coupon applied and usage counted",
			req: dto.CreateBookingRequest{
				RoomID:     "room-1",
				CheckIn:    "2024-01-05",
				CheckOut:   "2024-01-08",
				Guests:     2,
				RoomType:   constant.RoomTypeTwin,
				CouponCode: " welcome10 ",
			},
			setupMock: func(m bookingServiceMocks) {
				m.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil)
				m.repo.EXPECT().HasOverlap(gomock.Any(), "room-1", constant.RoomTypeTwin, gomock.Any(), gomock.Any()).Return(false, nil)
				m.coupons.EXPECT().GetByCode(gomock.Any(), "WELCOME10").Return(couponModel.Coupon{
					ID:     "coupon-1",
					Code:   "WELCOME10",
					Type:   constant.CouponTypePercent,
					Amount: 10,
					Active: true,
				}, nil)
				m.repo.EXPECT().InsertChecked(gomock.Any(), gomock.Any()).Return(nil)
				m.coupons.EXPECT().IncrementUsage(gomock.Any(), "WELCOME10").Return(nil)
				m.activity.EXPECT().Record(gomock.Any(), gomock.Any())
			},
			check: func(t *testing.T, res dto.BookingResponse) {
				assert.Equal(t, 800, res.OriginalTotal)
				assert.Equal(t, 80, res.DiscountAmount)
				assert.Equal(t, 720, res.TotalPrice)
				assert.Equal(t, "WELCOME10", res.CouponCode)
			},
		},
		{
			name: "invalid check-in date",
			req: dto.CreateBookingRequest{
				RoomID:   "room-1",
				CheckIn:  "05-01-2024",
				CheckOut: "2024-01-08",
				Guests:   2,
				RoomType: constant.RoomTypeTwin,
			},
			setupMock: func(m bookingServiceMocks) {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "check-out not after check-in",
			req: dto.CreateBookingRequest{
				RoomID:   "room-1",
				CheckIn:  "2024-01-08",
				CheckOut: "2024-01-05",
				Guests:   2,
				RoomType: constant.RoomTypeTwin,
			},
			setupMock: func(m bookingServiceMocks) {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "room not found",
			req:  validReq,
			setupMock: func(m bookingServiceMocks) {
				m.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "guest count exceeds room capacity",
			req: dto.CreateBookingRequest{
				RoomID:   "room-1",
				CheckIn:  "2024-01-05",
				CheckOut: "2024-01-08",
				Guests:   5,
				RoomType: constant.RoomTypeTwin,
			},
			setupMock: func(m bookingServiceMocks) {
				m.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "dates already booked",
			req:  validReq,
			setupMock: func(m bookingServiceMocks) {
				m.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil)
				m.repo.EXPECT().HasOverlap(gomock.Any(), "room-1", constant.RoomTypeTwin, gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "concurrent writer loses at insert",
			req:  validReq,
			setupMock: func(m bookingServiceMocks) {
				m.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil)
				m.repo.EXPECT().HasOverlap(gomock.Any(), "room-1", constant.RoomTypeTwin, gomock.Any(), gomock.Any()).Return(false, nil)
				m.repo.EXPECT().InsertChecked(gomock.Any(), gomock.Any()).Return(repository.ErrOverlap)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "expired coupon rejected",
			req: dto.CreateBookingRequest{
				RoomID:     "room-1",
				CheckIn:    "2024-01-05",
				CheckOut:   "2024-01-08",
				Guests:     2,
				RoomType:   constant.RoomTypeTwin,
				CouponCode: "OLD",
			},
			setupMock: func(m bookingServiceMocks) {
				m.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil)
				m.repo.EXPECT().HasOverlap(gomock.Any(), "room-1", constant.RoomTypeTwin, gomock.Any(), gomock.Any()).Return(false, nil)
				m.coupons.EXPECT().GetByCode(gomock.Any(), "OLD").Return(couponModel.Coupon{
					ID:        "coupon-2",
					Code:      "OLD",
					Type:      constant.CouponTypeFixed,
					Amount:    100,
					Active:    true,
					ExpiresAt: sql.NullTime{Time: timezone.Now().AddDate(-1, 0, 0), Valid: true},
				}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "coupon restricted to other rooms",
			req: dto.CreateBookingRequest{
				RoomID:     "room-1",
				CheckIn:    "2024-01-05",
				CheckOut:   "2024-01-08",
				Guests:     2,
				RoomType:   constant.RoomTypeTwin,
				CouponCode: "ELSEWHERE",
			},
			setupMock: func(m bookingServiceMocks) {
				m.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil)
				m.repo.EXPECT().HasOverlap(gomock.Any(), "room-1", constant.RoomTypeTwin, gomock.Any(), gomock.Any()).Return(false, nil)
				m.coupons.EXPECT().GetByCode(gomock.Any(), "ELSEWHERE").Return(couponModel.Coupon{
					ID:      "coupon-3",
					Code:    "ELSEWHERE",
					Type:    constant.CouponTypeFixed,
					Amount:  100,
					Active:  true,
					RoomIDs: []string{"room-2"},
				}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "repository failure",
			req:  validReq,
			setupMock: func(m bookingServiceMocks) {
				m.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(roomModel.Room{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mocks := newBookingService(t)
			tt.setupMock(mocks)

			res, err := svc.Create(userContext("user-1"), tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)

			if tt.check != nil {
				tt.check(t, res)
			}
		})
	}
}

func TestBookingService_CreatePending(t *testing.T) {
	svc, mocks := newBookingService(t)

	mocks.roomRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(testRoom(), nil)
	mocks.repo.EXPECT().HasOverlap(gomock.Any(), "room-1", constant.RoomTypeTwin, gomock.Any(), gomock.Any()).Return(false, nil)
	mocks.repo.EXPECT().InsertChecked(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, booking model.Booking) error {
			assert.Equal(t, constant.BookingStatusPending, booking.Status)

			return nil
		})

	booking, err := svc.CreatePending(userContext("user-1"), dto.CreateBookingRequest{
		RoomID:   "room-1",
		CheckIn:  "2024-01-01",
		CheckOut: "2024-01-03",
		Guests:   1,
		RoomType: constant.RoomTypeTwin,
	})

	assert.NoError(t, err)
	assert.Equal(t, constant.BookingStatusPending, booking.Status)
	assert.Equal(t, 200, booking.TotalPrice)
}

func TestBookingService_Cancel(t *testing.T) {
	confirmed := func(userID string) model.Booking {
		return model.Booking{
			ID:     "booking-1",
			RoomID: "room-1",
			UserID: userID,
			Status: constant.BookingStatusConfirmed,
		}
	}

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func(m bookingServiceMocks)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "owner cancels",
			ctx:  userContext("user-1"),
			setupMock: func(m bookingServiceMocks) {
				m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed("user-1"), nil)
				m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				m.activity.EXPECT().Record(gomock.Any(), gomock.Any())
			},
		},
		{
			name: "admin cancels someone else's booking",
			ctx:  adminContext("admin-1"),
			setupMock: func(m bookingServiceMocks) {
				m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed("user-1"), nil)
				m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				m.activity.EXPECT().Record(gomock.Any(), gomock.Any())
			},
		},
		{
			name: "non-owner forbidden",
			ctx:  userContext("user-2"),
			setupMock: func(m bookingServiceMocks) {
				m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed("user-1"), nil)
			},
			wantErr:  true,
			wantCode: http.StatusForbidden,
		},
		{
			name: "missing booking",
			ctx:  userContext("user-1"),
			setupMock: func(m bookingServiceMocks) {
				m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "second cancel is a no-op",
			ctx:  userContext("user-1"),
			setupMock: func(m bookingServiceMocks) {
				cancelled := confirmed("user-1")
				cancelled.Status = constant.BookingStatusCancelled

				m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(cancelled, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mocks := newBookingService(t)
			tt.setupMock(mocks)

			err := svc.Cancel(tt.ctx, "booking-1")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestBookingService_ForceCancel(t *testing.T) {
	t.Run("missing booking tolerated", func(t *testing.T) {
		svc, mocks := newBookingService(t)

		mocks.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		assert.NoError(t, svc.ForceCancel(context.Background(), "gone"))
	})

	t.Run("pending booking cancelled without ownership check", func(t *testing.T) {
		svc, mocks := newBookingService(t)

		mocks.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{
			ID:     "booking-1",
			UserID: "user-1",
			Status: constant.BookingStatusPending,
		}, nil)
		mocks.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, svc.ForceCancel(context.Background(), "booking-1"))
	})
}

func TestBookingService_GetAll(t *testing.T) {
	countOwnerFilters := func(filter gDto.FilterGroup) int {
		n := 0

		for _, raw := range filter.Filters {
			if f, ok := raw.(gDto.Filter); ok && f.Field == model.FieldUserID {
				n++
			}
		}

		return n
	}

	t.Run("non-admin listing carries the owner predicate exactly once", func(t *testing.T) {
		svc, mocks := newBookingService(t)

		mocks.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).Times(2)
		mocks.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		mocks.repo.EXPECT().Count(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				assert.Equal(t, 1, countOwnerFilters(filter))

				return 1, nil
			})
		mocks.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
				assert.Equal(t, 1, countOwnerFilters(filter))

				return []model.Booking{{ID: "booking-1", UserID: "user-1"}}, nil
			})

		res, err := svc.GetAll(userContext("user-1"), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd})

		assert.NoError(t, err)
		assert.Len(t, res.Bookings, 1)
	})

	t.Run("admin listing is unscoped", func(t *testing.T) {
		svc, mocks := newBookingService(t)

		mocks.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).Times(2)
		mocks.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		mocks.repo.EXPECT().Count(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				assert.Equal(t, 0, countOwnerFilters(filter))

				return 0, nil
			})
		mocks.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
				assert.Equal(t, 0, countOwnerFilters(filter))

				return nil, nil
			})

		_, err := svc.GetAll(adminContext("admin-1"), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd})

		assert.NoError(t, err)
	})
}

func TestBookingService_ConfirmPayment(t *testing.T) {
	t.Run("pending booking confirmed", func(t *testing.T) {
		svc, mocks := newBookingService(t)

		mocks.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{
			ID:     "booking-1",
			RoomID: "room-1",
			Status: constant.BookingStatusPending,
		}, nil)
		mocks.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		mocks.activity.EXPECT().Record(gomock.Any(), gomock.Any())

		assert.NoError(t, svc.ConfirmPayment(context.Background(), "booking-1"))
	})

	t.Run("cancelled booking stays cancelled", func(t *testing.T) {
		svc, mocks := newBookingService(t)

		mocks.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{
			ID:     "booking-1",
			RoomID: "room-1",
			Status: constant.BookingStatusCancelled,
		}, nil)

		err := svc.ConfirmPayment(context.Background(), "booking-1")

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("missing booking", func(t *testing.T) {
		svc, mocks := newBookingService(t)

		mocks.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		err := svc.ConfirmPayment(context.Background(), "booking-1")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_BlockedRooms(t *testing.T) {
	t.Run("invalid range", func(t *testing.T) {
		svc, _ := newBookingService(t)

		_, err := svc.BlockedRooms(context.Background(), "2024-01-08", "2024-01-05")

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("empty result is an empty list", func(t *testing.T) {
		svc, mocks := newBookingService(t)

		mocks.repo.EXPECT().BlockedRoomIDs(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		res, err := svc.BlockedRooms(context.Background(), "2024-01-05", "2024-01-08")

		assert.NoError(t, err)
		assert.NotNil(t, res.RoomIDs)
		assert.Empty(t, res.RoomIDs)
	})

	t.Run("blocked rooms returned", func(t *testing.T) {
		svc, mocks := newBookingService(t)

		mocks.repo.EXPECT().BlockedRoomIDs(gomock.Any(), gomock.Any(), gomock.Any()).Return([]string{"room-1", "room-2"}, nil)

		res, err := svc.BlockedRooms(context.Background(), "2024-01-05", "2024-01-08")

		assert.NoError(t, err)
		assert.Equal(t, []string{"room-1", "room-2"}, res.RoomIDs)
	})
}
