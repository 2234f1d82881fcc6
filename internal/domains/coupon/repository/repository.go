package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"lodge/infras/otel"
	"lodge/infras/postgres"
	"lodge/internal/domains/coupon/model"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/logger"
	gRepo "lodge/shared/repository"
)

type Coupon interface {
	Insert(ctx context.Context, model model.Coupon) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Coupon, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Coupon, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	GetByCode(ctx context.Context, code string) (model.Coupon, error)
	IncrementUsage(ctx context.Context, code string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Coupon]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Coupon {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Coupon](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) GetByCode(ctx context.Context, code string) (model.Coupon, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCode,
				Operator: gDto.FilterOperatorEq,
				Value:    code,
				Table:    model.TableName,
			},
		},
	}

	return repo.Get(ctx, filter) //nolint:wrapcheck
}

// IncrementUsage bumps used_count as an atomic delta so concurrent bookings
// never lose an increment to a read-modify-write race.
func (repo *repositoryImpl) IncrementUsage(ctx context.Context, code string) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".coupon.IncrementUsage")
	defer scope.End()

	query := fmt.Sprintf("UPDATE %s SET %s = %s + 1, %s = NOW() WHERE %s = :code",
		model.TableName, model.FieldUsedCount, model.FieldUsedCount, constant.FieldModifiedAt, model.FieldCode)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	_, err := repo.db.Write.NamedExecContext(ctx, query, map[string]any{"code": code})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to increment coupon usage (%s): %w", model.EntityName, err)
	}

	return nil
}
