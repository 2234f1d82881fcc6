package coupon

import (
	"net/http"

	"lodge/infras/otel"
	"lodge/internal/domains/coupon/model"
	"lodge/internal/domains/coupon/model/dto"
	"lodge/internal/domains/coupon/service"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/validator"
	"lodge/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Coupon
	otel    otel.Otel
}

func New(service service.Coupon, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/coupons", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetCoupons)
		routerGroup.Post("/", handler.CreateCoupon)
		routerGroup.Get("/validate", handler.ValidateCoupon)
	})
}

// CreateCoupon registers a new coupon. Admin only.
func (handler *Handler) CreateCoupon(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateCoupon")
	defer scope.End()

	req := dto.CreateCouponRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create coupon")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Coupon created successfully by user " + shared.UserID(ctx))

	response.WithMessage(writer, http.StatusCreated, "Coupon created successfully")
}

// GetCoupons lists all coupons. Admin only.
func (handler *Handler) GetCoupons(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCoupons")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	active := shared.ConvertStringToBool(r.URL.Query().Get(model.FieldActive))

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if active != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldActive,
			Operator: gDto.FilterOperatorEq,
			Value:    *active,
			Table:    model.TableName,
		})
	}

	coupons, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get coupons")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Coupons retrieved successfully")

	response.WithJSON(w, http.StatusOK, coupons)
}

// ValidateCoupon answers whether a coupon code can be applied, optionally
// scoped to a room.
func (handler *Handler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ValidateCoupon")
	defer scope.End()

	code := r.URL.Query().Get(constant.RequestParamCode)
	roomID := r.URL.Query().Get(constant.RequestParamRoomID)

	coupon, err := handler.service.Validate(ctx, code, roomID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate coupon")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Coupon validated successfully")

	response.WithJSON(w, http.StatusOK, coupon)
}
