package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lodge/config"
	"lodge/infras/otel"
	activityService "lodge/internal/domains/activity/service"
	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/model/dto"
	"lodge/internal/domains/booking/repository"
	couponModel "lodge/internal/domains/coupon/model"
	couponRepo "lodge/internal/domains/coupon/repository"
	roomModel "lodge/internal/domains/room/model"
	roomRepo "lodge/internal/domains/room/repository"
	"lodge/shared"
	"lodge/shared/cache"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	CreatePending(ctx context.Context, req dto.CreateBookingRequest) (model.Booking, error)
	FindByID(ctx context.Context, id string) (model.Booking, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Cancel(ctx context.Context, id string) error
	ForceCancel(ctx context.Context, id string) error
	AttachPaymentTID(ctx context.Context, id, tid string) error
	ConfirmPayment(ctx context.Context, id string) error
	RoomSchedule(ctx context.Context, roomID, roomType string) (dto.RoomScheduleResponse, error)
	BlockedRooms(ctx context.Context, checkIn, checkOut string) (dto.BlockedRoomsResponse, error)
}

type serviceImpl struct {
	repo     repository.Booking
	roomRepo roomRepo.Room
	coupons  couponRepo.Coupon
	activity activityService.Activity
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	coupons couponRepo.Coupon,
	activity activityService.Activity,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		coupons:  coupons,
		activity: activity,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

// build runs the shared half of both creation paths: validation, availability
// gating, pricing, and coupon application. The returned booking has no status;
// the caller decides between confirmed (direct) and pending (payment).
func (s *serviceImpl) build(ctx context.Context, req dto.CreateBookingRequest) (model.Booking, error) {
	checkIn, err := time.Parse(constant.StayDateFormat, req.CheckIn)
	if err != nil {
		return model.Booking{}, failure.BadRequestFromString("invalid check-in date, expected YYYY-MM-DD") // nolint:wrapcheck
	}

	checkOut, err := time.Parse(constant.StayDateFormat, req.CheckOut)
	if err != nil {
		return model.Booking{}, failure.BadRequestFromString("invalid check-out date, expected YYYY-MM-DD") // nolint:wrapcheck
	}

	if !checkOut.After(checkIn) {
		return model.Booking{}, failure.BadRequestFromString("check-out must be after check-in") // nolint:wrapcheck
	}

	if req.Guests < 1 {
		return model.Booking{}, failure.BadRequestFromString("guest count must be at least 1") // nolint:wrapcheck
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return model.Booking{}, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return model.Booking{}, failure.NotFound("room not found") // nolint:wrapcheck
	}

	if room.MaxGuests > 0 && req.Guests > room.MaxGuests {
		return model.Booking{}, failure.BadRequestFromString("guest count exceeds room capacity") // nolint:wrapcheck
	}

	overlap, err := s.repo.HasOverlap(ctx, req.RoomID, req.RoomType, checkIn, checkOut)
	if err != nil {
		log.Error().Err(err).Msg("failed to check booking overlap")

		return model.Booking{}, fmt.Errorf("failed to check booking overlap: %w", err)
	}

	if overlap {
		return model.Booking{}, failure.Conflict("room is already booked for the selected dates") // nolint:wrapcheck
	}

	originalTotal := ComputeTotal(room.PricePerNight, checkIn, checkOut, req.Guests, req.RoomType)
	totalPrice, discount := originalTotal, 0
	couponCode := constant.Empty

	if req.CouponCode != constant.Empty {
		normalized := couponModel.NormalizeCode(req.CouponCode)

		coupon, err := s.coupons.GetByCode(ctx, normalized)
		if err != nil {
			log.Error().Err(err).Msg("failed to get coupon")

			return model.Booking{}, fmt.Errorf("failed to get coupon: %w", err)
		}

		now := timezone.Now()
		if !coupon.IsValid(now) {
			return model.Booking{}, failure.NotFound("invalid coupon") // nolint:wrapcheck
		}

		if !coupon.AppliesToRoom(req.RoomID) {
			return model.Booking{}, failure.BadRequestFromString("coupon not applicable to this stay") // nolint:wrapcheck
		}

		totalPrice, discount = coupon.Apply(originalTotal, now)
		couponCode = normalized
	}

	user := shared.UserID(ctx)

	return model.Booking{
		ID:             uuid.NewString(),
		RoomID:         room.ID,
		RoomName:       room.Name,
		UserID:         user,
		RoomType:       sql.NullString{String: req.RoomType, Valid: true},
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		Guests:         req.Guests,
		OriginalTotal:  originalTotal,
		DiscountAmount: discount,
		TotalPrice:     totalPrice,
		CouponCode:     couponCode,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

func (s *serviceImpl) insertChecked(ctx context.Context, booking model.Booking) error {
	err := s.repo.InsertChecked(ctx, booking)
	if errors.Is(err, repository.ErrOverlap) {
		return failure.Conflict("room is already booked for the selected dates") // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// Create persists a directly confirmed booking: no payment provider is
// involved, so the stay is committed in one step.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.build(ctx, req)
	if err != nil {
		return res, err
	}

	booking.Status = constant.BookingStatusConfirmed

	if err = s.insertChecked(ctx, booking); err != nil {
		return res, err
	}

	if booking.DiscountAmount > 0 && booking.CouponCode != constant.Empty {
		if err := s.coupons.IncrementUsage(ctx, booking.CouponCode); err != nil {
			log.Error().Err(err).Str("coupon", booking.CouponCode).Msg("failed to increment coupon usage")
		}
	}

	s.activity.Record(ctx, activityService.Entry{
		Type:      constant.ActivityBookingCreated,
		RoomID:    booking.RoomID,
		BookingID: booking.ID,
		Message:   fmt.Sprintf("Booked %s from %s to %s", booking.RoomName, req.CheckIn, req.CheckOut),
	})

	s.invalidateListCaches(ctx)

	res.FromModel(booking)

	return res, nil
}

// CreatePending persists the booking ahead of the payment provider's "ready"
// call. Coupon usage is not counted here; it is deferred until the provider
// accepts the payment.
func (s *serviceImpl) CreatePending(ctx context.Context, req dto.CreateBookingRequest) (res model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreatePending")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.build(ctx, req)
	if err != nil {
		return res, err
	}

	booking.Status = constant.BookingStatusPending

	if err = s.insertChecked(ctx, booking); err != nil {
		return res, err
	}

	s.invalidateListCaches(ctx)

	return booking, nil
}

func (s *serviceImpl) FindByID(ctx context.Context, id string) (res model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".FindByID")
	defer scope.End()
	defer scope.TraceIfError(err)

	res, err = s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter = s.scopeToCaller(ctx, filter)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.count(ctx, req, s.scopeToCaller(ctx, filter))
}

// count expects a filter already scoped to the caller; GetAll shares it so the
// owner predicate is appended exactly once per request.
func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

// Cancel is the user-initiated transition. Only the booking's owner or an
// admin may cancel, and cancelling an already-cancelled booking succeeds
// without touching anything.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if !shared.CanAccess(ctx, booking.UserID) {
		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	if booking.Status == constant.BookingStatusCancelled {
		return nil
	}

	if err = s.setStatus(ctx, id, constant.BookingStatusCancelled, false); err != nil {
		return err
	}

	s.activity.Record(ctx, activityService.Entry{
		Type:      constant.ActivityBookingCancelled,
		RoomID:    booking.RoomID,
		BookingID: booking.ID,
		Message:   fmt.Sprintf("Cancelled booking for %s", booking.RoomName),
	})

	s.invalidateListCaches(ctx)

	return nil
}

// ForceCancel is the provider-callback transition: no ownership check, a
// missing booking is tolerated, and the operation is idempotent.
func (s *serviceImpl) ForceCancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ForceCancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if booking.ID == constant.Empty || booking.Status == constant.BookingStatusCancelled {
		return nil
	}

	if err = s.setStatus(ctx, id, constant.BookingStatusCancelled, false); err != nil {
		return err
	}

	s.invalidateListCaches(ctx)

	return nil
}

func (s *serviceImpl) AttachPaymentTID(ctx context.Context, id, tid string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AttachPaymentTID")
	defer scope.End()
	defer scope.TraceIfError(err)

	fields := map[string]any{
		model.FieldPaymentTID:    tid,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: shared.UserID(ctx),
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to attach payment tid")

		return fmt.Errorf("failed to attach payment tid: %w", err)
	}

	s.invalidateListCaches(ctx)

	return nil
}

// ConfirmPayment finalizes the payment path: pending becomes confirmed and the
// approval instant is recorded.
func (s *serviceImpl) ConfirmPayment(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ConfirmPayment")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	// Cancelled is terminal; a late approve callback must not resurrect the
	// booking and re-occupy released dates.
	if booking.Status == constant.BookingStatusCancelled {
		return failure.Conflict("booking has been cancelled") // nolint:wrapcheck
	}

	if err = s.setStatus(ctx, id, constant.BookingStatusConfirmed, true); err != nil {
		return err
	}

	s.activity.Record(ctx, activityService.Entry{
		Type:      constant.ActivityBookingCreated,
		RoomID:    booking.RoomID,
		BookingID: booking.ID,
		Message:   fmt.Sprintf("Booked %s from %s to %s", booking.RoomName, booking.CheckIn.Format(constant.StayDateFormat), booking.CheckOut.Format(constant.StayDateFormat)),
	})

	s.invalidateListCaches(ctx)

	return nil
}

// RoomSchedule lists the active stays blocking a room's calendar, optionally
// narrowed to one room type. Legacy rows without a type always appear.
func (s *serviceImpl) RoomSchedule(ctx context.Context, roomID, roomType string) (res dto.RoomScheduleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RoomSchedule")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRoomID,
				Operator: gDto.FilterOperatorEq,
				Value:    roomID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorIn,
				Value:    []string{constant.BookingStatusConfirmed, constant.BookingStatusPending},
				Table:    model.TableName,
			},
		},
	}

	if roomType != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{
					Field:    model.FieldRoomType,
					Operator: gDto.FilterOperatorEq,
					Value:    roomType,
					Table:    model.TableName,
				},
				gDto.Filter{
					Field:    model.FieldRoomType,
					Operator: gDto.FilterIsNull,
					Table:    model.TableName,
				},
			},
		})
	}

	params := gDto.QueryParams{
		SortBy:  model.FieldCheckIn,
		SortDir: "ASC",
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room schedule")

		return res, fmt.Errorf("failed to get room schedule: %w", err)
	}

	res.FromModels(models)

	return res, nil
}

// BlockedRooms answers the cross-room search query: which rooms have any
// active booking overlapping the range, regardless of room type.
func (s *serviceImpl) BlockedRooms(ctx context.Context, checkIn, checkOut string) (res dto.BlockedRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".BlockedRooms")
	defer scope.End()
	defer scope.TraceIfError(err)

	in, err := time.Parse(constant.StayDateFormat, checkIn)
	if err != nil {
		return res, failure.BadRequestFromString("invalid check-in date, expected YYYY-MM-DD") // nolint:wrapcheck
	}

	out, err := time.Parse(constant.StayDateFormat, checkOut)
	if err != nil {
		return res, failure.BadRequestFromString("invalid check-out date, expected YYYY-MM-DD") // nolint:wrapcheck
	}

	if !out.After(in) {
		return res, failure.BadRequestFromString("check-out must be after check-in") // nolint:wrapcheck
	}

	roomIDs, err := s.repo.BlockedRoomIDs(ctx, in, out)
	if err != nil {
		log.Error().Err(err).Msg("failed to list blocked rooms")

		return res, fmt.Errorf("failed to list blocked rooms: %w", err)
	}

	if roomIDs == nil {
		roomIDs = []string{}
	}

	res.RoomIDs = roomIDs

	return res, nil
}

// scopeToCaller restricts listings to the caller's own bookings unless the
// caller is an admin.
func (s *serviceImpl) scopeToCaller(ctx context.Context, filter gDto.FilterGroup) gDto.FilterGroup {
	if shared.IsAdmin(ctx) {
		return filter
	}

	if filter.Operator == constant.Empty {
		filter.Operator = gDto.FilterGroupOperatorAnd
	}

	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldUserID,
		Operator: gDto.FilterOperatorEq,
		Value:    shared.UserID(ctx),
		Table:    model.TableName,
	})

	return filter
}

func (s *serviceImpl) setStatus(ctx context.Context, id, status string, approved bool) error {
	fields := map[string]any{
		model.FieldStatus:        status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: shared.UserID(ctx),
	}

	if approved {
		fields[model.FieldPaymentApprovedAt] = timezone.Now()
	}

	if err := s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("status", status).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	return nil
}

func (s *serviceImpl) invalidateListCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}
