package booking

import (
	"net/http"

	"lodge/infras/otel"
	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/model/dto"
	"lodge/internal/domains/booking/service"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/validator"
	"lodge/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/room/{roomId}", handler.GetRoomSchedule)
		routerGroup.Get("/availability", handler.GetBlockedRooms)
		routerGroup.Patch("/{id}/cancel", handler.CancelBooking)
	})
}

// CreateBooking books a stay directly, without going through the payment
// provider. The booking comes back confirmed.
func (handler *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking created successfully by user " + shared.UserID(ctx))

	response.WithJSON(w, http.StatusCreated, booking)
}

// GetBookings lists the caller's bookings, or every booking for admins, with
// an optional status filter.
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	status := r.URL.Query().Get(model.FieldStatus)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if status != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Bookings retrieved successfully")

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetRoomSchedule exposes a room's blocked date ranges for calendar views.
// Public.
func (handler *Handler) GetRoomSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomSchedule")
	defer scope.End()

	roomID := chi.URLParam(r, constant.RequestParamRoomID)
	roomType := r.URL.Query().Get(constant.RequestParamRoomType)

	schedule, err := handler.service.RoomSchedule(ctx, roomID, roomType)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room schedule")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Room schedule retrieved successfully")

	response.WithJSON(w, http.StatusOK, schedule)
}

// GetBlockedRooms lists the rooms that have any active booking overlapping
// the requested range. Public.
func (handler *Handler) GetBlockedRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBlockedRooms")
	defer scope.End()

	checkIn := r.URL.Query().Get(constant.RequestParamCheckIn)
	checkOut := r.URL.Query().Get(constant.RequestParamCheckOut)

	blocked, err := handler.service.BlockedRooms(ctx, checkIn, checkOut)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get blocked rooms")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Blocked rooms retrieved successfully")

	response.WithJSON(w, http.StatusOK, blocked)
}

// CancelBooking cancels a booking on behalf of its owner or an admin.
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Cancel(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking cancelled successfully by user " + shared.UserID(ctx))

	response.WithMessage(w, http.StatusOK, "Booking cancelled successfully")
}
