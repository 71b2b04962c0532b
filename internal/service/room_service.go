package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/room-reservation/internal/domain"
	"github.com/spec-kit/room-reservation/internal/repository"
)

// RoomService manages the room catalogue.
type RoomService struct {
	rooms  repository.RoomRepository
	logger *zap.Logger
}

// RoomInput describes a room to create or replace.
type RoomInput struct {
	Name      string
	Capacity  int
	Location  string
	Equipment string
	Available *bool
}

// NewRoomService constructs the service.
func NewRoomService(rooms repository.RoomRepository, logger *zap.Logger) *RoomService {
	return &RoomService{rooms: rooms, logger: loggerOrNop(logger)}
}

func (in RoomInput) validate() error {
	if strings.TrimSpace(in.Name) == "" || in.Capacity <= 0 {
		return domain.ErrInvalidRoom
	}
	return nil
}

// ListAvailable returns rooms open for booking, ordered by name.
func (s *RoomService) ListAvailable(ctx context.Context) ([]domain.Room, error) {
	return s.rooms.ListAvailable(ctx)
}

// ListAll returns every room, including unavailable ones.
func (s *RoomService) ListAll(ctx context.Context, admin domain.Actor) ([]domain.Room, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	return s.rooms.ListAll(ctx)
}

// Get loads a room.
func (s *RoomService) Get(ctx context.Context, id string) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "room")
	}
	return room, nil
}

// Create adds a room. Rooms are available unless input says otherwise.
func (s *RoomService) Create(ctx context.Context, admin domain.Actor, input RoomInput) (*domain.Room, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	room := &domain.Room{
		Name:      strings.TrimSpace(input.Name),
		Capacity:  input.Capacity,
		Location:  strings.TrimSpace(input.Location),
		Equipment: strings.TrimSpace(input.Equipment),
		Available: true,
	}
	if input.Available != nil {
		room.Available = *input.Available
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	s.logger.Info("room created", zap.String("room_id", room.ID), zap.String("name", room.Name))
	return room, nil
}

// Update replaces a room's attributes. Availability is kept when input leaves it unset.
func (s *RoomService) Update(ctx context.Context, admin domain.Actor, id string, input RoomInput) (*domain.Room, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	room.Name = strings.TrimSpace(input.Name)
	room.Capacity = input.Capacity
	room.Location = strings.TrimSpace(input.Location)
	room.Equipment = strings.TrimSpace(input.Equipment)
	if input.Available != nil {
		room.Available = *input.Available
	}
	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, notFound(err, "room")
	}
	s.logger.Info("room updated", zap.String("room_id", room.ID))
	return room, nil
}

// SetAvailability opens or closes a room for new bookings. Existing
// reservations are untouched.
func (s *RoomService) SetAvailability(ctx context.Context, admin domain.Actor, id string, available bool) (*domain.Room, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	if err := s.rooms.SetAvailability(ctx, id, available); err != nil {
		return nil, notFound(err, "room")
	}
	s.logger.Info("room availability changed", zap.String("room_id", id), zap.Bool("available", available))
	return s.Get(ctx, id)
}
