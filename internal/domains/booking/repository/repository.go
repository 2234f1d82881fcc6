package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lodge/infras/otel"
	"lodge/infras/postgres"
	"lodge/internal/domains/booking/model"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/logger"
	gRepo "lodge/shared/repository"

	"github.com/rs/zerolog/log"
)

// ErrOverlap is returned by InsertChecked when the requested range collides
// with an existing confirmed or pending booking.
var ErrOverlap = errors.New("overlapping booking")

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	InsertChecked(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	HasOverlap(ctx context.Context, roomID, roomType string, checkIn, checkOut time.Time) (bool, error)
	BlockedRoomIDs(ctx context.Context, checkIn, checkOut time.Time) ([]string, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// overlapFilter encodes the collision rule: an active booking collides when
// its [check_in, check_out) strictly intersects the candidate range and its
// room type matches or is NULL (legacy rows block every type).
func overlapFilter(roomID, roomType string, checkIn, checkOut time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
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
			gDto.Filter{
				Field:    model.FieldCheckIn,
				ArgName:  "overlap_check_out",
				Operator: gDto.FilterOperatorLess,
				Value:    checkOut,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldCheckOut,
				ArgName:  "overlap_check_in",
				Operator: gDto.FilterOperatorGreater,
				Value:    checkIn,
				Table:    model.TableName,
			},
			gDto.FilterGroup{
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
			},
		},
	}
}

func (repo *repositoryImpl) HasOverlap(ctx context.Context, roomID, roomType string, checkIn, checkOut time.Time) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.HasOverlap")
	defer scope.End()

	return repo.Exist(ctx, overlapFilter(roomID, roomType, checkIn, checkOut)) //nolint:wrapcheck
}

// InsertChecked serializes the overlap check and the insert against all other
// writers for the same room, closing the race where two concurrent requests
// both pass HasOverlap before either commits. The advisory lock is scoped to
// the transaction and released on commit or rollback.
func (repo *repositoryImpl) InsertChecked(ctx context.Context, booking model.Booking) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.InsertChecked")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		return err //nolint:wrapcheck
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("failed to rollback booking insert")
			}
		}
	}()

	_, err = tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", booking.RoomID)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to acquire room lock (%s): %w", model.EntityName, err)
	}

	roomType := constant.Empty
	if booking.RoomType.Valid {
		roomType = booking.RoomType.String
	}

	overlap, err := repo.ExistTx(ctx, tx, overlapFilter(booking.RoomID, roomType, booking.CheckIn, booking.CheckOut))
	if err != nil {
		return err //nolint:wrapcheck
	}

	if overlap {
		err = ErrOverlap

		return err
	}

	if err = repo.InsertTx(ctx, tx, booking); err != nil {
		return err //nolint:wrapcheck
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit booking insert (%s): %w", model.EntityName, err)
	}

	return nil
}

func (repo *repositoryImpl) BlockedRoomIDs(ctx context.Context, checkIn, checkOut time.Time) (res []string, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.BlockedRoomIDs")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"SELECT DISTINCT %s FROM %s WHERE %s IN (:status_confirmed, :status_pending) AND %s < :check_out AND %s > :check_in",
		model.FieldRoomID, model.TableName, model.FieldStatus, model.FieldCheckIn, model.FieldCheckOut)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"status_confirmed": constant.BookingStatusConfirmed,
		"status_pending":   constant.BookingStatusPending,
		"check_in":         checkIn,
		"check_out":        checkOut,
	}

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	if err = prepare.SelectContext(ctx, &res, args); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to list blocked rooms (%s): %w", model.EntityName, err)
	}

	return res, nil
}
