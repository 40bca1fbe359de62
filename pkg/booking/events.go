package booking

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/eshaffer321/booking-go/internal/transport"
	"github.com/pkg/errors"
)

// DefaultNearbyRadius is the search radius in meters when none is given
const DefaultNearbyRadius = 3000.0

const (
	eventsEndpoint       = "/events/"
	myEventsEndpoint     = "/events/my/"
	nearbyEventsEndpoint = "/events/nearby/"
)

// eventService implements the EventService interface
type eventService struct {
	client *Client
}

// List retrieves events page by page
func (s *eventService) List(ctx context.Context, page Page) ([]*Event, error) {
	var events []*Event
	if err := s.client.call(ctx, http.MethodGet, eventsEndpoint, nil, &events, pageQuery(page)...); err != nil {
		return nil, err
	}
	return events, nil
}

// Get retrieves a single event
func (s *eventService) Get(ctx context.Context, eventID string) (*Event, error) {
	if eventID == "" {
		return nil, errors.New("event id is required")
	}

	var event Event
	if err := s.client.call(ctx, http.MethodGet, eventPath(eventID), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// Mine retrieves the events hosted by the signed-in user
func (s *eventService) Mine(ctx context.Context) ([]*Event, error) {
	var events []*Event
	if err := s.client.call(ctx, http.MethodGet, myEventsEndpoint, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Create creates a new event
func (s *eventService) Create(ctx context.Context, params *CreateEventParams) (*Event, error) {
	if params == nil {
		return nil, errors.New("event params are required")
	}

	body := *params
	if body.OwnerID == "" {
		if current, err := s.client.sessions.Load(ctx); err == nil {
			body.OwnerID = current.UserID
		}
	}

	var event Event
	if err := s.client.call(ctx, http.MethodPost, eventsEndpoint, &body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// Update updates an existing event
func (s *eventService) Update(ctx context.Context, eventID string, params *UpdateEventParams) (*Event, error) {
	if eventID == "" {
		return nil, errors.New("event id is required")
	}
	if params == nil {
		params = &UpdateEventParams{}
	}

	var event Event
	if err := s.client.call(ctx, http.MethodPatch, eventPath(eventID), params, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// Delete deletes an event
func (s *eventService) Delete(ctx context.Context, eventID string) error {
	if eventID == "" {
		return errors.New("event id is required")
	}
	return s.client.call(ctx, http.MethodDelete, eventPath(eventID), nil, nil)
}

// Reserve books seats on an event
func (s *eventService) Reserve(ctx context.Context, eventID string, seats int) (*Reservation, error) {
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
	if err := s.client.call(ctx, http.MethodPost, eventPath(eventID)+"/reserve/", body, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Nearby finds events within a radius of a point
func (s *eventService) Nearby(ctx context.Context, params *NearbyParams) ([]*Event, error) {
	if params == nil {
		return nil, errors.New("nearby params are required")
	}

	radius := params.Radius
	if radius <= 0 {
		radius = DefaultNearbyRadius
	}

	var events []*Event
	err := s.client.call(ctx, http.MethodPost, nearbyEventsEndpoint, nil, &events,
		transport.WithQuery("latitude", formatFloat(params.Latitude)),
		transport.WithQuery("longitude", formatFloat(params.Longitude)),
		transport.WithQuery("radius", formatFloat(radius)),
	)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func eventPath(eventID string) string {
	return "/events/" + url.PathEscape(eventID)
}

func pageQuery(page Page) []transport.CallOption {
	var opts []transport.CallOption
	if page.Offset > 0 {
		opts = append(opts, transport.WithQuery("offset", strconv.Itoa(page.Offset)))
	}
	if page.Limit > 0 {
		opts = append(opts, transport.WithQuery("limit", strconv.Itoa(page.Limit)))
	}
	return opts
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
