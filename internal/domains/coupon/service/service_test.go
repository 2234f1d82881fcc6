package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"lodge/config"
	otelMocks "lodge/infras/otel/mocks"
	couponMocks "lodge/internal/domains/coupon/mocks"
	"lodge/internal/domains/coupon/model"
	"lodge/internal/domains/coupon/model/dto"
	"lodge/internal/domains/coupon/service"
	cacheMocks "lodge/shared/cache/mocks"
	"lodge/shared/constant"
	"lodge/shared/failure"
)

func newCouponService(t *testing.T) (service.Coupon, *couponMocks.MockCoupon, *cacheMocks.MockRedisCache) {
	ctrl := gomock.NewController(t)

	mockRepo := couponMocks.NewMockCoupon(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, otelMocks.NewOtel())

	return svc, mockRepo, mockCache
}

func TestCouponService_Create(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		svc, mockRepo, _ := newCouponService(t)

		mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		err := svc.Create(context.Background(), dto.CreateCouponRequest{
			Code:   "welcome10",
			Type:   constant.CouponTypePercent,
			Amount: 10,
		})

		assert.NoError(t, err)
	})

	t.Run("duplicate code", func(t *testing.T) {
		svc, mockRepo, _ := newCouponService(t)

		mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			Return(&pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeUniqueViolation)})

		err := svc.Create(context.Background(), dto.CreateCouponRequest{
			Code:   "welcome10",
			Type:   constant.CouponTypePercent,
			Amount: 10,
		})

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("bad expiry format", func(t *testing.T) {
		svc, _, _ := newCouponService(t)

		err := svc.Create(context.Background(), dto.CreateCouponRequest{
			Code:      "welcome10",
			Type:      constant.CouponTypePercent,
			Amount:    10,
			ExpiresAt: "next tuesday",
		})

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestCouponService_Validate(t *testing.T) {
	validCoupon := model.Coupon{
		ID:     "coupon-1",
		Code:   "WELCOME10",
		Type:   constant.CouponTypePercent,
		Amount: 10,
		Active: true,
	}

	t.Run("valid coupon", func(t *testing.T) {
		svc, mockRepo, _ := newCouponService(t)

		mockRepo.EXPECT().GetByCode(gomock.Any(), "WELCOME10").Return(validCoupon, nil)

		res, err := svc.Validate(context.Background(), " welcome10 ", "")

		assert.NoError(t, err)
		assert.Equal(t, "WELCOME10", res.Code)
		assert.Equal(t, constant.CouponTypePercent, res.Type)
		assert.Equal(t, 10, res.Amount)
	})

	t.Run("empty code", func(t *testing.T) {
		svc, _, _ := newCouponService(t)

		_, err := svc.Validate(context.Background(), "   ", "")

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("unknown or unusable coupon", func(t *testing.T) {
		svc, mockRepo, _ := newCouponService(t)

		mockRepo.EXPECT().GetByCode(gomock.Any(), "MISSING").Return(model.Coupon{}, nil)

		_, err := svc.Validate(context.Background(), "missing", "")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("room restriction enforced", func(t *testing.T) {
		svc, mockRepo, _ := newCouponService(t)

		restricted := validCoupon
		restricted.RoomIDs = []string{"room-2"}

		mockRepo.EXPECT().GetByCode(gomock.Any(), "WELCOME10").Return(restricted, nil)

		_, err := svc.Validate(context.Background(), "welcome10", "room-1")

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("restriction ignored without a room", func(t *testing.T) {
		svc, mockRepo, _ := newCouponService(t)

		restricted := validCoupon
		restricted.RoomIDs = []string{"room-2"}

		mockRepo.EXPECT().GetByCode(gomock.Any(), "WELCOME10").Return(restricted, nil)

		_, err := svc.Validate(context.Background(), "welcome10", "")

		assert.NoError(t, err)
	})
}
