package model

import "lodge/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID            = "id"
	FieldName          = "name"
	FieldLocation      = "location"
	FieldRegion        = "region"
	FieldPricePerNight = "price_per_night"
	FieldMaxGuests     = "max_guests"
	FieldDescription   = "description"
	FieldRatingAverage = "rating_average"
	FieldReviewCount   = "review_count"
	FieldAvailable     = "available"
)

type Room struct {
	ID            string  `db:"id"`
	Name          string  `db:"name"`
	Location      string  `db:"location"`
	Region        string  `db:"region"`
	PricePerNight int     `db:"price_per_night"`
	MaxGuests     int     `db:"max_guests"`
	Description   string  `db:"description"`
	RatingAverage float64 `db:"rating_average"`
	ReviewCount   int     `db:"review_count"`
	Available     bool    `db:"available"`
	model.Metadata
}
