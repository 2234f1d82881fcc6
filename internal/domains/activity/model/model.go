package model

import (
	"database/sql"

	"lodge/shared/model"
)

const (
	TableName  = "activities"
	EntityName = "activity"

	FieldID        = "id"
	FieldUserID    = "user_id"
	FieldType      = "type"
	FieldRoomID    = "room_id"
	FieldBookingID = "booking_id"
	FieldMessage   = "message"
)

// Activity is an append-only audit entry. Rows are never updated or deleted.
type Activity struct {
	ID        string         `db:"id"`
	UserID    string         `db:"user_id"`
	Type      string         `db:"type"`
	RoomID    sql.NullString `db:"room_id"`
	BookingID sql.NullString `db:"booking_id"`
	Message   string         `db:"message"`
	model.Metadata
}
