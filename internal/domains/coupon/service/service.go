package service

import (
	"context"
	"errors"
	"fmt"

	"lodge/config"
	"lodge/infras/otel"
	"lodge/internal/domains/coupon/model"
	"lodge/internal/domains/coupon/model/dto"
	"lodge/internal/domains/coupon/repository"
	"lodge/shared"
	"lodge/shared/cache"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/timezone"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllCoupon = "coupon:gets"
	cacheCountCoupon  = "coupon:count"
)

type Coupon interface {
	Create(ctx context.Context, req dto.CreateCouponRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetCouponsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Validate(ctx context.Context, code, roomID string) (dto.ValidateCouponResponse, error)
}

type serviceImpl struct {
	repo  repository.Coupon
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Coupon, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Coupon {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateCouponRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user := shared.UserID(ctx)

	coupon, err := req.ToModel(user)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse coupon request")

		return failure.BadRequestFromString(fmt.Sprintf("invalid expiry format: %v", err)) // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, coupon); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
			return failure.Conflict("coupon code already exists") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create coupon")

		return fmt.Errorf("failed to create coupon: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllCoupon)
		shared.InvalidateCaches(c, s.cache, cacheCountCoupon)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetCouponsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllCoupon, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for coupons")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count coupons")

		return res, fmt.Errorf("failed to count coupons: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get coupons")

		return res, fmt.Errorf("failed to get coupons: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save coupons to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountCoupon, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count coupons")

		return res, fmt.Errorf("failed to count coupons: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save coupon count to cache")
		}
	}()

	return res, nil
}

// Validate looks up a coupon by its normalized code and answers whether it can
// be applied right now, optionally scoped to one room. An unusable coupon is
// indistinguishable from a missing one.
func (s *serviceImpl) Validate(ctx context.Context, code, roomID string) (res dto.ValidateCouponResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Validate")
	defer scope.End()
	defer scope.TraceIfError(err)

	normalized := model.NormalizeCode(code)
	if normalized == constant.Empty {
		return res, failure.BadRequestFromString("coupon code is required") // nolint:wrapcheck
	}

	coupon, err := s.repo.GetByCode(ctx, normalized)
	if err != nil {
		log.Error().Err(err).Msg("failed to get coupon")

		return res, fmt.Errorf("failed to get coupon: %w", err)
	}

	if !coupon.IsValid(timezone.Now()) {
		return res, failure.NotFound("invalid coupon") // nolint:wrapcheck
	}

	if roomID != constant.Empty && !coupon.AppliesToRoom(roomID) {
		return res, failure.BadRequestFromString("coupon not applicable to this stay") // nolint:wrapcheck
	}

	res.FromModel(coupon)

	return res, nil
}
