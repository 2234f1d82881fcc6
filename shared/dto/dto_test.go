package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lodge/shared/dto"
)

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name: "eq with table prefix",
			filter: dto.Filter{
				Field:    "status",
				Operator: dto.FilterOperatorEq,
				Value:    "confirmed",
				Table:    "bookings",
			},
			wantWhere: "bookings.status = :status",
			wantArgs:  map[string]any{"status": "confirmed"},
		},
		{
			name: "arg name overrides the bind parameter",
			filter: dto.Filter{
				Field:    "check_in",
				ArgName:  "overlap_check_out",
				Operator: dto.FilterOperatorLess,
				Value:    "2024-01-08",
				Table:    "bookings",
			},
			wantWhere: "bookings.check_in < :overlap_check_out",
			wantArgs:  map[string]any{"overlap_check_out": "2024-01-08"},
		},
		{
			name: "in expands slice values",
			filter: dto.Filter{
				Field:    "status",
				Operator: dto.FilterOperatorIn,
				Value:    []string{"confirmed", "pending"},
				Table:    "bookings",
			},
			wantWhere: "bookings.status IN (:status_0, :status_1) ",
			wantArgs:  map[string]any{"status_0": "confirmed", "status_1": "pending"},
		},
		{
			name: "is null has no args",
			filter: dto.Filter{
				Field:    "room_type",
				Operator: dto.FilterIsNull,
				Table:    "bookings",
			},
			wantWhere: "bookings.room_type IS NULL",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	t.Run("empty group", func(t *testing.T) {
		group := dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd}

		where, args := group.GetWhereClause()

		assert.Empty(t, where)
		assert.Empty(t, args)
	})

	t.Run("nested or group", func(t *testing.T) {
		group := dto.FilterGroup{
			Operator: dto.FilterGroupOperatorAnd,
			Filters: []any{
				dto.Filter{
					Field:    "room_id",
					Operator: dto.FilterOperatorEq,
					Value:    "room-1",
					Table:    "bookings",
				},
				dto.FilterGroup{
					Operator: dto.FilterGroupOperatorOr,
					Filters: []any{
						dto.Filter{
							Field:    "room_type",
							Operator: dto.FilterOperatorEq,
							Value:    "twin",
							Table:    "bookings",
						},
						dto.Filter{
							Field:    "room_type",
							Operator: dto.FilterIsNull,
							Table:    "bookings",
						},
					},
				},
			},
		}

		where, args := group.GetWhereClause()

		assert.Equal(t, "(bookings.room_id = :room_id AND (bookings.room_type = :room_type OR bookings.room_type IS NULL))", where)
		assert.Equal(t, map[string]any{"room_id": "room-1", "room_type": "twin"}, args)
	})
}
