package booking

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

const (
	reservationEndpoint   = "/reservation/"
	myReservationEndpoint = "/reservation/my/"
)

// reservationService implements the ReservationService interface
type reservationService struct {
	client *Client
}

// List retrieves reservations visible to the user
func (s *reservationService) List(ctx context.Context) ([]*Reservation, error) {
	var reservations []*Reservation
	if err := s.client.call(ctx, http.MethodGet, reservationEndpoint, nil, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

// Mine retrieves the signed-in user's reservations
func (s *reservationService) Mine(ctx context.Context) ([]*Reservation, error) {
	var reservations []*Reservation
	if err := s.client.call(ctx, http.MethodGet, myReservationEndpoint, nil, &reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

// Create books seats on an event
func (s *reservationService) Create(ctx context.Context, eventID string, seats int) (*Reservation, error) {
	if eventID == "" {
		return nil, errors.New("event id is required")
	}
	if seats <= 0 {
		return nil, errors.Errorf("seats must be positive, got %d", seats)
	}

	body := map[string]interface{}{
		"event_id": eventID,
		"seats":    seats,
	}

	var reservation Reservation
	if err := s.client.call(ctx, http.MethodPost, reservationEndpoint, body, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Get retrieves a single reservation
func (s *reservationService) Get(ctx context.Context, reservationID string) (*Reservation, error) {
	if reservationID == "" {
		return nil, errors.New("reservation id is required")
	}

	var reservation Reservation
	if err := s.client.call(ctx, http.MethodGet, reservationPath(reservationID), nil, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Update changes seats or status
func (s *reservationService) Update(ctx context.Context, reservationID string, params *UpdateReservationParams) (*Reservation, error) {
	if reservationID == "" {
		return nil, errors.New("reservation id is required")
	}
	if params == nil {
		params = &UpdateReservationParams{}
	}
	if params.Seats != nil && *params.Seats <= 0 {
		return nil, errors.Errorf("seats must be positive, got %d", *params.Seats)
	}

	var reservation Reservation
	if err := s.client.call(ctx, http.MethodPatch, reservationPath(reservationID), params, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Cancel deletes a reservation
func (s *reservationService) Cancel(ctx context.Context, reservationID string) error {
	if reservationID == "" {
		return errors.New("reservation id is required")
	}
	return s.client.call(ctx, http.MethodDelete, reservationPath(reservationID), nil, nil)
}

func reservationPath(reservationID string) string {
	return reservationEndpoint + url.PathEscape(reservationID)
}
