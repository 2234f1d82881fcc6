package dto

import (
	"lodge/internal/domains/room/model"
	"lodge/shared"
	gDto "lodge/shared/dto"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	Name          string `json:"name"            validate:"required,max=100"`
	Location      string `json:"location"        validate:"omitempty,max=100"`
	Region        string `json:"region"          validate:"omitempty,max=100"`
	PricePerNight int    `json:"price_per_night" validate:"required,min=0"`
	MaxGuests     int    `json:"max_guests"      validate:"omitempty,min=0"`
	Description   string `json:"description"     validate:"omitempty"`
	Available     *bool  `json:"available"       validate:"omitempty"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	available := true
	if c.Available != nil {
		available = *c.Available
	}

	return model.Room{
		ID:            uuid.NewString(),
		Name:          c.Name,
		Location:      c.Location,
		Region:        c.Region,
		PricePerNight: c.PricePerNight,
		MaxGuests:     c.MaxGuests,
		Description:   c.Description,
		Available:     available,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	Name          string `db:"name"            json:"name"            validate:"omitempty,max=100"`
	Location      string `db:"location"        json:"location"        validate:"omitempty,max=100"`
	Region        string `db:"region"          json:"region"          validate:"omitempty,max=100"`
	PricePerNight *int   `db:"price_per_night" json:"price_per_night" validate:"omitempty,min=0"`
	MaxGuests     *int   `db:"max_guests"      json:"max_guests"      validate:"omitempty,min=0"`
	Description   string `db:"description"     json:"description"     validate:"omitempty"`
	Available     *bool  `db:"available"       json:"available"       validate:"omitempty"`
}

type RoomResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Location      string  `json:"location"`
	Region        string  `json:"region"`
	PricePerNight int     `json:"price_per_night"`
	MaxGuests     int     `json:"max_guests"`
	Description   string  `json:"description"`
	RatingAverage float64 `json:"rating_average"`
	ReviewCount   int     `json:"review_count"`
	Available     bool    `json:"available"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Name = model.Name
	r.Location = model.Location
	r.Region = model.Region
	r.PricePerNight = model.PricePerNight
	r.MaxGuests = model.MaxGuests
	r.Description = model.Description
	r.RatingAverage = model.RatingAverage
	r.ReviewCount = model.ReviewCount
	r.Available = model.Available
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
