package booking

import (
	"context"
	"time"
)

// AuthService handles registration, login and the stored session
type AuthService interface {
	// Register creates an account and signs in
	Register(ctx context.Context, params *RegisterParams) (*TokenResponse, error)

	// Login signs in with email and password
	Login(ctx context.Context, email, password string) (*TokenResponse, error)

	// Logout ends the session; the local session is always cleared
	Logout(ctx context.Context) error

	// Refresh exchanges the refresh token for a new pair
	Refresh(ctx context.Context) (*TokenResponse, error)

	// Me returns the signed-in user's profile
	Me(ctx context.Context) (*Profile, error)

	// Sessions lists the user's active logins
	Sessions(ctx context.Context) ([]LoginSession, error)

	// Session returns the stored session
	Session(ctx context.Context) (*Session, error)

	// IsAuthenticated reports whether a live session is stored
	IsAuthenticated(ctx context.Context) bool
}

// EventService handles events
type EventService interface {
	// List retrieves events page by page
	List(ctx context.Context, page Page) ([]*Event, error)

	// Get retrieves a single event
	Get(ctx context.Context, eventID string) (*Event, error)

	// Mine retrieves the events hosted by the signed-in user
	Mine(ctx context.Context) ([]*Event, error)

	// Create creates a new event
	Create(ctx context.Context, params *CreateEventParams) (*Event, error)

	// Update updates an existing event
	Update(ctx context.Context, eventID string, params *UpdateEventParams) (*Event, error)

	// Delete deletes an event
	Delete(ctx context.Context, eventID string) error

	// Reserve books seats on an event
	Reserve(ctx context.Context, eventID string, seats int) (*Reservation, error)

	// Nearby finds events within a radius of a point
	Nearby(ctx context.Context, params *NearbyParams) ([]*Event, error)
}

// AddressService handles the user's venues
type AddressService interface {
	// Mine retrieves the signed-in user's addresses
	Mine(ctx context.Context) ([]*Address, error)

	// Get retrieves a single address
	Get(ctx context.Context, addressID string) (*Address, error)

	// Create creates a new address
	Create(ctx context.Context, params *CreateAddressParams) (*Address, error)

	// Update updates an existing address
	Update(ctx context.Context, addressID string, params *UpdateAddressParams) (*Address, error)

	// Delete deletes an address
	Delete(ctx context.Context, addressID string) error

	// Suggest looks up address candidates for free text
	Suggest(ctx context.Context, query string) ([]Suggestion, error)

	// FromSuggestion converts a candidate into create params
	FromSuggestion(s Suggestion) *CreateAddressParams
}

// ReservationService handles seat bookings
type ReservationService interface {
	// List retrieves reservations visible to the user
	List(ctx context.Context) ([]*Reservation, error)

	// Mine retrieves the signed-in user's reservations
	Mine(ctx context.Context) ([]*Reservation, error)

	// Create books seats on an event
	Create(ctx context.Context, eventID string, seats int) (*Reservation, error)

	// Get retrieves a single reservation
	Get(ctx context.Context, reservationID string) (*Reservation, error)

	// Update changes seats or status
	Update(ctx context.Context, reservationID string, params *UpdateReservationParams) (*Reservation, error)

	// Cancel deletes a reservation
	Cancel(ctx context.Context, reservationID string) error

	// WaitForStatus polls until the reservation leaves pending
	WaitForStatus(ctx context.Context, reservationID string, timeout time.Duration) (*Reservation, error)
}

// SubscriptionService handles follows of event hosts
type SubscriptionService interface {
	// Mine retrieves the hosts the user follows
	Mine(ctx context.Context, page Page) ([]*Subscription, error)

	// Create follows a host
	Create(ctx context.Context, hostID string) (*Subscription, error)

	// Delete unfollows a host
	Delete(ctx context.Context, hostID string) error
}

// FeedbackService handles reviews of hosts and events
type FeedbackService interface {
	// RateUser reviews a host
	RateUser(ctx context.Context, userID string, review Review) (*UserFeedback, error)

	// UnrateUser removes the user's review of a host
	UnrateUser(ctx context.Context, userID string) error

	// UserSummary aggregates the reviews of a host
	UserSummary(ctx context.Context, userID string) (*FeedbackSummary, error)

	// UserEventsSummary aggregates the reviews of a host's events
	UserEventsSummary(ctx context.Context, userID string) (*FeedbackSummary, error)

	// EventSummary aggregates the reviews of an event
	EventSummary(ctx context.Context, eventID string) (*FeedbackSummary, error)

	// RateEvent reviews an event
	RateEvent(ctx context.Context, eventID string, review Review) (*EventFeedback, error)

	// UnrateEvent removes the user's review of an event
	UnrateEvent(ctx context.Context, eventID string) error
}

// FilmService searches the content service
type FilmService interface {
	// Search finds films by title. On failure the result is an empty list
	// together with the error.
	Search(ctx context.Context, query string, pageSize int) ([]*Film, error)
}
