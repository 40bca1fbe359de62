package main

import (
	"context"
	"fmt"
	"time"

	"github.com/eshaffer321/booking-go/pkg/booking"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// reserveWait bounds how long reserve_seats waits for confirmation
const reserveWait = 10 * time.Second

// bookingTools holds the booking client and implements all tool handlers
type bookingTools struct {
	client *booking.Client
}

// EventEntry is one screening as shown to the model
type EventEntry struct {
	ID             string `json:"id" jsonschema:"Event ID"`
	Film           string `json:"film" jsonschema:"Film title, or the film ID when the title is unknown"`
	StartsAt       string `json:"startsAt" jsonschema:"Start time in RFC 3339 format"`
	Venue          string `json:"venue,omitempty" jsonschema:"Venue address"`
	Capacity       int    `json:"capacity" jsonschema:"Total number of seats"`
	AvailableSeats *int   `json:"availableSeats,omitempty" jsonschema:"Seats still free, when known"`
	Host           string `json:"host,omitempty" jsonschema:"Host name"`
}

type EventsOutput struct {
	Events []EventEntry `json:"events" jsonschema:"List of screenings"`
	Count  int          `json:"count" jsonschema:"Number of screenings returned"`
}

// ListEvents tool - lists upcoming screenings
type ListEventsInput struct {
	Offset int `json:"offset,omitempty" jsonschema:"Number of events to skip (optional)"`
	Limit  int `json:"limit,omitempty" jsonschema:"Maximum number of events to return (optional)"`
}

func (t *bookingTools) ListEvents(ctx context.Context, req *mcp.CallToolRequest, input ListEventsInput) (*mcp.CallToolResult, EventsOutput, error) {
	events, err := t.client.Events.List(ctx, booking.Page{Offset: input.Offset, Limit: input.Limit})
	if err != nil {
		return nil, EventsOutput{}, fmt.Errorf("failed to fetch events: %w", err)
	}
	return nil, toEventsOutput(events), nil
}

// NearbyEvents tool - finds screenings around a point
type NearbyEventsInput struct {
	Latitude  float64 `json:"latitude" jsonschema:"Latitude of the point"`
	Longitude float64 `json:"longitude" jsonschema:"Longitude of the point"`
	Radius    float64 `json:"radius,omitempty" jsonschema:"Search radius in meters (default: 3000)"`
}

func (t *bookingTools) NearbyEvents(ctx context.Context, req *mcp.CallToolRequest, input NearbyEventsInput) (*mcp.CallToolResult, EventsOutput, error) {
	events, err := t.client.Events.Nearby(ctx, &booking.NearbyParams{
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Radius:    input.Radius,
	})
	if err != nil {
		return nil, EventsOutput{}, fmt.Errorf("failed to fetch nearby events: %w", err)
	}
	return nil, toEventsOutput(events), nil
}

// GetEvent tool - one screening
type GetEventInput struct {
	EventID string `json:"eventId" jsonschema:"Event ID"`
}

type GetEventOutput struct {
	Event       EventEntry `json:"event" jsonschema:"The screening"`
	Description string     `json:"description,omitempty" jsonschema:"Film description"`
}

func (t *bookingTools) GetEvent(ctx context.Context, req *mcp.CallToolRequest, input GetEventInput) (*mcp.CallToolResult, GetEventOutput, error) {
	if input.EventID == "" {
		return nil, GetEventOutput{}, fmt.Errorf("eventId is required")
	}

	event, err := t.client.Events.Get(ctx, input.EventID)
	if err != nil {
		return nil, GetEventOutput{}, fmt.Errorf("failed to fetch event: %w", err)
	}

	out := GetEventOutput{Event: toEventEntry(event)}
	if event.Movie != nil {
		out.Description = event.Movie.Description
	}
	return nil, out, nil
}

// MyReservations tool - the user's bookings
type MyReservationsInput struct{}

type ReservationEntry struct {
	ID      string `json:"id" jsonschema:"Reservation ID"`
	EventID string `json:"eventId" jsonschema:"Event ID"`
	Seats   int    `json:"seats" jsonschema:"Number of booked seats"`
	Status  string `json:"status" jsonschema:"pending, success or canceled"`
}

type MyReservationsOutput struct {
	Reservations []ReservationEntry `json:"reservations" jsonschema:"List of bookings"`
	Count        int                `json:"count" jsonschema:"Number of bookings returned"`
}

func (t *bookingTools) MyReservations(ctx context.Context, req *mcp.CallToolRequest, input MyReservationsInput) (*mcp.CallToolResult, MyReservationsOutput, error) {
	reservations, err := t.client.Reservations.Mine(ctx)
	if err != nil {
		return nil, MyReservationsOutput{}, fmt.Errorf("failed to fetch reservations: %w", err)
	}

	entries := make([]ReservationEntry, 0, len(reservations))
	for _, r := range reservations {
		entries = append(entries, toReservationEntry(r))
	}

	return nil, MyReservationsOutput{
		Reservations: entries,
		Count:        len(entries),
	}, nil
}

// ReserveSeats tool - books seats and waits for the outcome
type ReserveSeatsInput struct {
	EventID string `json:"eventId" jsonschema:"Event ID"`
	Seats   int    `json:"seats,omitempty" jsonschema:"Number of seats (default: 1)"`
}

type ReserveSeatsOutput struct {
	Reservation ReservationEntry `json:"reservation" jsonschema:"The booking"`
	Confirmed   bool             `json:"confirmed" jsonschema:"Whether the booking was confirmed"`
}

func (t *bookingTools) ReserveSeats(ctx context.Context, req *mcp.CallToolRequest, input ReserveSeatsInput) (*mcp.CallToolResult, ReserveSeatsOutput, error) {
	if input.EventID == "" {
		return nil, ReserveSeatsOutput{}, fmt.Errorf("eventId is required")
	}
	if input.Seats == 0 {
		input.Seats = 1
	}

	reservation, err := t.client.Events.Reserve(ctx, input.EventID, input.Seats)
	if err != nil {
		return nil, ReserveSeatsOutput{}, fmt.Errorf("failed to reserve seats: %w", err)
	}

	// A booking still pending after the wait is reported as such
	if !reservation.Status.Settled() {
		settled, err := t.client.Reservations.WaitForStatus(ctx, reservation.ID, reserveWait)
		if err == nil {
			reservation = settled
		}
	}

	return nil, ReserveSeatsOutput{
		Reservation: toReservationEntry(reservation),
		Confirmed:   reservation.Status == booking.ReservationSuccess,
	}, nil
}

// SearchFilms tool - searches the catalog
type SearchFilmsInput struct {
	Query    string `json:"query" jsonschema:"Film title or part of it"`
	PageSize int    `json:"pageSize,omitempty" jsonschema:"Maximum number of films to return (default: 10)"`
}

type FilmEntry struct {
	ID         string   `json:"id" jsonschema:"Film ID"`
	Title      string   `json:"title" jsonschema:"Film title"`
	IMDBRating *float64 `json:"imdbRating,omitempty" jsonschema:"IMDb rating, when known"`
}

type SearchFilmsOutput struct {
	Films []FilmEntry `json:"films" jsonschema:"Matching films"`
	Count int         `json:"count" jsonschema:"Number of films returned"`
}

func (t *bookingTools) SearchFilms(ctx context.Context, req *mcp.CallToolRequest, input SearchFilmsInput) (*mcp.CallToolResult, SearchFilmsOutput, error) {
	films, err := t.client.Films.Search(ctx, input.Query, input.PageSize)
	if err != nil {
		return nil, SearchFilmsOutput{}, fmt.Errorf("failed to search films: %w", err)
	}

	entries := make([]FilmEntry, 0, len(films))
	for _, f := range films {
		entries = append(entries, FilmEntry{ID: f.ID, Title: f.Title, IMDBRating: f.IMDBRating})
	}

	return nil, SearchFilmsOutput{Films: entries, Count: len(entries)}, nil
}

func toEventsOutput(events []*booking.Event) EventsOutput {
	entries := make([]EventEntry, 0, len(events))
	for _, e := range events {
		entries = append(entries, toEventEntry(e))
	}
	return EventsOutput{Events: entries, Count: len(entries)}
}

func toEventEntry(e *booking.Event) EventEntry {
	entry := EventEntry{
		ID:             e.ID,
		Film:           e.MovieID,
		StartsAt:       e.StartDatetime.String(),
		Capacity:       e.Capacity,
		AvailableSeats: e.AvailableSeats,
	}

	if e.Movie != nil && e.Movie.Title != "" {
		entry.Film = e.Movie.Title
	}

	if a := e.Address; a != nil {
		entry.Venue = fmt.Sprintf("%s, %s %s", a.City, a.Street, a.House)
	}

	if e.Author != nil {
		entry.Host = e.Author.Name
		if entry.Host == "" {
			entry.Host = e.Author.Username
		}
	}

	return entry
}

func toReservationEntry(r *booking.Reservation) ReservationEntry {
	return ReservationEntry{
		ID:      r.ID,
		EventID: r.EventID,
		Seats:   r.Seats,
		Status:  string(r.Status),
	}
}
