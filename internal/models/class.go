package models

import "time"

// ScheduledClass is a live class on the timetable
type ScheduledClass struct {
	ID              string    `json:"id"`
	Title           string    `json:"title" validate:"required,max=200"`
	Description     string    `json:"description"`
	Instructor      string    `json:"instructor"`
	StartsAt        time.Time `json:"date" validate:"required"`
	DurationMinutes int       `json:"durationMinutes" validate:"gte=0,lte=600"`
	CreatedAt       time.Time `json:"createdAt"`
}

// LiveRoomID is the key of the singleton live-room pointer
const LiveRoomID = "live-config"

// LiveRoom indicates whether a live session is currently running
type LiveRoom struct {
	IsActive  bool      `json:"isLive"`
	RoomID    string    `json:"roomId"`
	UpdatedAt time.Time `json:"updatedAt"`
}
