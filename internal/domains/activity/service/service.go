package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"fmt"

	"lodge/config"
	"lodge/infras/kafka"
	"lodge/infras/otel"
	"lodge/internal/domains/activity/model"
	"lodge/internal/domains/activity/model/dto"
	"lodge/internal/domains/activity/repository"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Entry describes one auditable event. Room and booking references are
// optional; review events carry neither.
type Entry struct {
	Type      string `json:"type"`
	RoomID    string `json:"room_id,omitempty"`
	BookingID string `json:"booking_id,omitempty"`
	Message   string `json:"message"`
}

type Activity interface {
	Record(ctx context.Context, entry Entry)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetActivitiesResponse, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type serviceImpl struct {
	repo  repository.Activity
	kafka kafka.Client
	cfg   *config.Config
	otel  otel.Otel
}

func New(repo repository.Activity, kafkaClient kafka.Client, cfg *config.Config, otel otel.Otel) Activity {
	return &serviceImpl{
		repo:  repo,
		kafka: kafkaClient,
		cfg:   cfg,
		otel:  otel,
	}
}

// Record appends an activity entry and publishes it to the activity topic.
// Both writes are best-effort: they run detached from the caller's request and
// their failures are logged, never propagated. A lost activity entry must not
// fail the booking it describes.
func (s *serviceImpl) Record(ctx context.Context, entry Entry) {
	userID := shared.UserID(ctx)

	activity := model.Activity{
		ID:      uuid.NewString(),
		UserID:  userID,
		Type:    entry.Type,
		Message: entry.Message,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  userID,
			ModifiedBy: userID,
		},
	}

	if entry.RoomID != constant.Empty {
		activity.RoomID = sql.NullString{String: entry.RoomID, Valid: true}
	}

	if entry.BookingID != constant.Empty {
		activity.BookingID = sql.NullString{String: entry.BookingID, Valid: true}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.repo.Insert(c, activity); err != nil {
			log.Warn().Err(err).Str("type", entry.Type).Msg("failed to record activity")
		}

		if s.cfg.Kafka.ActivityTopic == constant.Empty {
			return
		}

		message := kafka.Message{
			Key:   activity.UserID,
			Value: activity,
		}

		if err := s.kafka.SendMessages(c, s.cfg.Kafka.ActivityTopic, message); err != nil {
			log.Warn().Err(err).Str("type", entry.Type).Msg("failed to publish activity event")
		}
	}()
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetActivitiesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	// Non-admin callers only ever see their own feed.
	if !shared.IsAdmin(ctx) {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldUserID,
			Operator: gDto.FilterOperatorEq,
			Value:    shared.UserID(ctx),
			Table:    model.TableName,
		})
	}

	total, err := s.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count activities")

		return res, fmt.Errorf("failed to count activities: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get activities")

		return res, fmt.Errorf("failed to get activities: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count activities")

		return res, fmt.Errorf("failed to count activities: %w", err)
	}

	return res, nil
}
