package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"codeclass/internal/live"
	"codeclass/internal/models"
	"codeclass/internal/repository"
)

// TicketDuration is how long a classroom ticket stays valid
const TicketDuration = 2 * time.Hour

const ticketIssuer = "codeclass"

// RoomClaims identify an account admitted to a live room
type RoomClaims struct {
	jwt.RegisteredClaims
	RoomID      string `json:"room"`
	DisplayName string `json:"name"`
	Host        bool   `json:"host,omitempty"`
}

// Ticket is handed to the classroom page on join
type Ticket struct {
	Token     string    `json:"token"`
	RoomID    string    `json:"roomId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RoomService manages the live-room pointer and classroom tickets
type RoomService struct {
	rooms     *repository.RoomRepository
	secret    []byte
	publisher Publisher
}

// NewRoomService creates a new room service. secret signs classroom tickets.
func NewRoomService(rooms *repository.RoomRepository, secret string, publisher Publisher) *RoomService {
	return &RoomService{
		rooms:     rooms,
		secret:    []byte(secret),
		publisher: publisherOrNop(publisher),
	}
}

// Get returns the live-room pointer
func (s *RoomService) Get() (*models.LiveRoom, error) {
	room, err := s.rooms.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get live room: %w", err)
	}
	return room, nil
}

// Set starts or stops the live session. Starting without a room ID
// generates one.
func (s *RoomService) Set(actor *models.Account, active bool, roomID string) (*models.LiveRoom, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	roomID = strings.TrimSpace(roomID)
	if active && roomID == "" {
		name, err := live.GenerateRoomName()
		if err != nil {
			return nil, fmt.Errorf("failed to generate room name: %w", err)
		}
		roomID = name
	}

	room := &models.LiveRoom{IsActive: active, RoomID: roomID, UpdatedAt: time.Now().UTC()}
	if err := s.rooms.Set(room); err != nil {
		return nil, fmt.Errorf("failed to set live room: %w", err)
	}
	publish(s.publisher, live.TopicLive, room)
	return room, nil
}

// Join issues a ticket for the running room
func (s *RoomService) Join(account *models.Account) (*Ticket, error) {
	if account.Status != models.StatusActive && !account.IsAdmin() {
		return nil, ErrInactiveAccount
	}
	room, err := s.Get()
	if err != nil {
		return nil, err
	}
	if !room.IsActive || room.RoomID == "" {
		return nil, ErrRoomClosed
	}

	now := time.Now()
	expiresAt := now.Add(TicketDuration)
	claims := RoomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ticketIssuer,
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		RoomID:      room.RoomID,
		DisplayName: account.DisplayName,
		Host:        account.IsAdmin(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign ticket: %w", err)
	}
	return &Ticket{Token: token, RoomID: room.RoomID, ExpiresAt: expiresAt.UTC()}, nil
}

// VerifyTicket checks the signature and expiry of a classroom ticket
func (s *RoomService) VerifyTicket(token string) (*RoomClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}), jwt.WithIssuer(ticketIssuer))
	claims := &RoomClaims{}

	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: expired", ErrInvalidTicket)
		}
		return nil, ErrInvalidTicket
	}
	if !parsed.Valid {
		return nil, ErrInvalidTicket
	}
	return claims, nil
}
