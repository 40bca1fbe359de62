package booking

import (
	"github.com/eshaffer321/booking-go/internal/auth"
	"github.com/eshaffer321/booking-go/internal/guard"
	"github.com/eshaffer321/booking-go/internal/notify"
	"github.com/eshaffer321/booking-go/internal/suggest"
	"github.com/eshaffer321/booking-go/internal/types"
)

// Shared types re-exported from the internal packages
type (
	// Session is the persisted authentication state
	Session = types.Session

	// RetryConfig configures retry behavior
	RetryConfig = types.RetryConfig

	// Hooks provides lifecycle hooks for requests
	Hooks = types.Hooks

	// Notification is one toast shown for a failed call
	Notification = notify.Notification

	// Decision is the outcome of an access check
	Decision = guard.Decision

	// Suggestion is one address candidate from the suggestion service
	Suggestion = suggest.Suggestion

	RegisterParams = auth.RegisterRequest
	TokenResponse  = auth.TokenResponse
	Profile        = auth.Profile
	LoginSession   = auth.LoginSession
)

// Page selects a window of a list. Zero values leave the server defaults.
type Page struct {
	Offset int
	Limit  int
}

// Author is the public card of a user who hosts events
type Author struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
}

// Movie is the film screened at an event
type Movie struct {
	ID             string   `json:"id,omitempty"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Genres         []string `json:"genres,omitempty"`
	DirectorsNames []string `json:"directors_names,omitempty"`
	ActorsNames    []string `json:"actors_names,omitempty"`
}

// Address is a venue
type Address struct {
	ID        string  `json:"id"`
	Country   string  `json:"country"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Street    string  `json:"street"`
	House     string  `json:"house"`
	Flat      *string `json:"flat,omitempty"`
}

// CreateAddressParams creates an address
type CreateAddressParams struct {
	Country   string  `json:"country"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Street    string  `json:"street"`
	House     string  `json:"house"`
	Flat      *string `json:"flat,omitempty"`
}

// UpdateAddressParams changes the fields that are set
type UpdateAddressParams struct {
	Country *string `json:"country,omitempty"`
	City    *string `json:"city,omitempty"`
	Street  *string `json:"street,omitempty"`
	House   *string `json:"house,omitempty"`
	Flat    *string `json:"flat,omitempty"`
}

// Event is a screening hosted by a user
type Event struct {
	ID             string         `json:"id"`
	MovieID        string         `json:"movie_id"`
	AddressID      string         `json:"address_id"`
	OwnerID        string         `json:"owner_id"`
	Capacity       int            `json:"capacity"`
	AvailableSeats *int           `json:"available_seats,omitempty"`
	StartDatetime  Timestamp      `json:"start_datetime"`
	Address        *Address       `json:"address,omitempty"`
	Movie          *Movie         `json:"movie,omitempty"`
	Author         *Author        `json:"author,omitempty"`
	Reservations   []*Reservation `json:"reservations,omitempty"`
}

// CreateEventParams creates an event. OwnerID defaults to the signed-in user.
type CreateEventParams struct {
	MovieID       string    `json:"movie_id"`
	AddressID     string    `json:"address_id"`
	OwnerID       string    `json:"owner_id,omitempty"`
	Capacity      int       `json:"capacity"`
	StartDatetime Timestamp `json:"start_datetime"`
}

// UpdateEventParams changes an event. The backend expects every field; nil
// ones are sent as null and left unchanged. The film and the owner are fixed.
type UpdateEventParams struct {
	AddressID     *string    `json:"address_id"`
	Capacity      *int       `json:"capacity"`
	StartDatetime *Timestamp `json:"start_datetime"`
}

// NearbyParams locates events around a point
type NearbyParams struct {
	Latitude  float64
	Longitude float64

	// Radius in meters, DefaultNearbyRadius when zero
	Radius float64
}

// ReservationStatus is the lifecycle state of a reservation
type ReservationStatus string

const (
	ReservationPending  ReservationStatus = "pending"
	ReservationSuccess  ReservationStatus = "success"
	ReservationCanceled ReservationStatus = "canceled"
)

// Settled reports whether the backend has finished processing
func (s ReservationStatus) Settled() bool {
	return s != "" && s != ReservationPending
}

// Reservation is a seat booking for an event
type Reservation struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id,omitempty"`
	EventID   string            `json:"event_id"`
	Seats     int               `json:"seats"`
	Status    ReservationStatus `json:"status"`
	CreatedAt *Timestamp        `json:"created_at,omitempty"`
	Event     *Event            `json:"event,omitempty"`
}

// UpdateReservationParams changes the fields that are set
type UpdateReservationParams struct {
	Seats  *int               `json:"seats,omitempty"`
	Status *ReservationStatus `json:"status,omitempty"`
}

// Subscription follows a host
type Subscription struct {
	UserID string  `json:"user_id"`
	HostID string  `json:"host_id"`
	Author *Author `json:"author,omitempty"`
}

// Review is a thumbs up or down
type Review string

const (
	ReviewPositive Review = "positive"
	ReviewNegative Review = "negative"
)

// Valid reports whether r is a known review
func (r Review) Valid() bool {
	return r == ReviewPositive || r == ReviewNegative
}

// UserFeedback is a review left on a host
type UserFeedback struct {
	ID      string `json:"id"`
	UserID  string `json:"user_id"`
	OwnerID string `json:"owner_id,omitempty"`
	Review  Review `json:"review"`
}

// EventFeedback is a review left on an event
type EventFeedback struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	UserID  string `json:"user_id,omitempty"`
	Review  Review `json:"review"`
}

// FeedbackSummary aggregates reviews of a user or an event
type FeedbackSummary struct {
	UserID   string  `json:"user_id,omitempty"`
	EventID  string  `json:"event_id,omitempty"`
	My       *Review `json:"my"`
	Positive int     `json:"positive"`
	Negative int     `json:"negative"`
}

// Film is a search hit from the content service
type Film struct {
	ID          string   `json:"uuid"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	IMDBRating  *float64 `json:"imdb_rating,omitempty"`
}
