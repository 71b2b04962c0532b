package service

import (
	"context"

	"github.com/spec-kit/room-reservation/internal/domain"
	"github.com/spec-kit/room-reservation/internal/repository"
)

// dashboardListLimit caps the pending lists shown on the dashboard.
const dashboardListLimit = 10

// Dashboard summarizes the admin work queue.
type Dashboard struct {
	PendingAccounts     []domain.Account
	PendingReservations []domain.Reservation
	TotalAccounts       int
	TotalRooms          int
	PendingAccountCount int
	StatusCounts        map[domain.ReservationStatus]int
}

// AdminService assembles administrator views.
type AdminService struct {
	stores repository.Stores
}

// NewAdminService constructs the service.
func NewAdminService(stores repository.Stores) *AdminService {
	return &AdminService{stores: stores}
}

// Dashboard returns counts and the oldest pending accounts and reservations.
func (s *AdminService) Dashboard(ctx context.Context, admin domain.Actor) (*Dashboard, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	pendingAccounts, err := s.stores.Accounts.ListPending(ctx, dashboardListLimit)
	if err != nil {
		return nil, err
	}
	pendingReservations, err := s.stores.Reservations.ListWithFilter(ctx, repository.ReservationFilter{
		Statuses: []domain.ReservationStatus{domain.StatusPending},
		Oldest:   true,
		Limit:    dashboardListLimit,
	})
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		PendingAccounts:     pendingAccounts,
		PendingReservations: pendingReservations,
		StatusCounts:        make(map[domain.ReservationStatus]int, 4),
	}
	if d.TotalAccounts, err = s.stores.Accounts.Count(ctx); err != nil {
		return nil, err
	}
	if d.PendingAccountCount, err = s.stores.Accounts.CountPending(ctx); err != nil {
		return nil, err
	}
	if d.TotalRooms, err = s.stores.Rooms.Count(ctx); err != nil {
		return nil, err
	}
	for _, status := range []domain.ReservationStatus{domain.StatusPending, domain.StatusConfirmed, domain.StatusRejected, domain.StatusCompleted} {
		n, err := s.stores.Reservations.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		d.StatusCounts[status] = n
	}
	return d, nil
}
