package dto

import (
	"lodge/internal/domains/activity/model"
	"lodge/shared"
	gDto "lodge/shared/dto"
)

type ActivityResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Type      string `json:"type"`
	RoomID    string `json:"room_id,omitempty"`
	BookingID string `json:"booking_id,omitempty"`
	Message   string `json:"message"`
	gDto.Metadata
}

func (r *ActivityResponse) FromModel(model model.Activity) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.Type = model.Type
	r.Message = model.Message

	if model.RoomID.Valid {
		r.RoomID = model.RoomID.String
	}

	if model.BookingID.Valid {
		r.BookingID = model.BookingID.String
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetActivitiesResponse struct {
	Activities []ActivityResponse `json:"activities"`
	TotalPage  int                `json:"total_page"`
	TotalData  int                `json:"total_data"`
}

func (r *GetActivitiesResponse) FromModels(models []model.Activity, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Activities = make([]ActivityResponse, len(models))
	for i, mod := range models {
		r.Activities[i].FromModel(mod)
	}
}
