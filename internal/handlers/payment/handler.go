package payment

import (
	"net/http"

	"lodge/infras/otel"
	bookingDto "lodge/internal/domains/booking/model/dto"
	"lodge/internal/domains/payment/service"
	"lodge/shared"
	"lodge/shared/constant"
	"lodge/shared/validator"
	"lodge/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// Router mounts the payment flow. The three GET callbacks are hit by the
// provider redirecting the user's browser, so they carry no auth token and are
// skipped by the auth middleware.
func (handler *Handler) Router(router chi.Router) {
	router.Route("/payments", func(routerGroup chi.Router) {
		routerGroup.Post("/ready", handler.Ready)
		routerGroup.Get("/approve", handler.Approve)
		routerGroup.Get("/cancel", handler.Cancel)
		routerGroup.Get("/fail", handler.Fail)
	})
}

// Ready opens a payment session for a new pending booking and returns the
// provider's checkout redirect URL.
func (handler *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Ready")
	defer scope.End()

	req := bookingDto.CreateBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	ready, err := handler.service.Ready(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to prepare payment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment session opened by user " + shared.UserID(ctx))

	response.WithJSON(w, http.StatusCreated, ready)
}

// Approve finalizes the booking after the provider confirms the payment.
func (handler *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Approve")
	defer scope.End()

	bookingID := r.URL.Query().Get(constant.RequestParamBookingID)
	pgToken := r.URL.Query().Get(constant.RequestParamPgToken)

	booking, err := handler.service.Approve(ctx, bookingID, pgToken)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to approve payment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment approved for booking " + bookingID)

	response.WithJSON(w, http.StatusOK, booking)
}

// Cancel releases the pending booking after the user aborts checkout.
func (handler *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Cancel")
	defer scope.End()

	bookingID := r.URL.Query().Get(constant.RequestParamBookingID)

	if err := handler.service.Cancel(ctx, bookingID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel payment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment cancelled for booking " + bookingID)

	response.WithMessage(w, http.StatusOK, "Payment cancelled")
}

// Fail releases the pending booking after the provider reports a failure.
func (handler *Handler) Fail(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Fail")
	defer scope.End()

	bookingID := r.URL.Query().Get(constant.RequestParamBookingID)

	if err := handler.service.Fail(ctx, bookingID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to mark payment as failed")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment failed for booking " + bookingID)

	response.WithMessage(w, http.StatusOK, "Payment marked as failed")
}
