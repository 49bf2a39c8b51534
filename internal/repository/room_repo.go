package repository

import (
	"database/sql"
	"fmt"
	"time"

	"codeclass/internal/database"
	"codeclass/internal/models"
)

// RoomRepository stores the singleton live-room pointer
type RoomRepository struct {
	db *database.DB
}

// NewRoomRepository creates a new room repository
func NewRoomRepository(db *database.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Get returns the live-room pointer. A missing row reads as inactive.
func (r *RoomRepository) Get() (*models.LiveRoom, error) {
	room := &models.LiveRoom{}
	err := r.db.QueryRow("SELECT is_active, room_id, updated_at FROM rooms WHERE id = ?", models.LiveRoomID).
		Scan(&room.IsActive, &room.RoomID, &room.UpdatedAt)
	if err == sql.ErrNoRows {
		return &models.LiveRoom{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get live room: %w", database.Classify(r.db.Dialect, err))
	}
	return room, nil
}

// Set replaces the live-room pointer
func (r *RoomRepository) Set(room *models.LiveRoom) error {
	room.UpdatedAt = time.Now().UTC()
	query := r.db.Dialect.UpsertQuery("rooms", []string{"id", "is_active", "room_id", "updated_at"}, []string{"id"})
	if _, err := r.db.Exec(query, models.LiveRoomID, room.IsActive, room.RoomID, room.UpdatedAt); err != nil {
		return fmt.Errorf("failed to set live room: %w", database.Classify(r.db.Dialect, err))
	}
	return nil
}
