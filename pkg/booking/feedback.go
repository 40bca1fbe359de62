package booking

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

const (
	userFeedbackEndpoint  = "/user-feedback/"
	eventFeedbackEndpoint = "/event-feedback/"
)

// feedbackService implements the FeedbackService interface
type feedbackService struct {
	client *Client
}

// RateUser reviews a host
func (s *feedbackService) RateUser(ctx context.Context, userID string, review Review) (*UserFeedback, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	if !review.Valid() {
		return nil, ErrInvalidReview
	}

	body := map[string]string{
		"user_id": userID,
		"review":  string(review),
	}

	var feedback UserFeedback
	if err := s.client.call(ctx, http.MethodPost, userFeedbackEndpoint, body, &feedback); err != nil {
		return nil, err
	}
	return &feedback, nil
}

// UnrateUser removes the user's review of a host
func (s *feedbackService) UnrateUser(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("user id is required")
	}
	return s.client.call(ctx, http.MethodDelete, userFeedbackEndpoint+url.PathEscape(userID), nil, nil)
}

// UserSummary aggregates the reviews of a host
func (s *feedbackService) UserSummary(ctx context.Context, userID string) (*FeedbackSummary, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	var summary FeedbackSummary
	if err := s.client.call(ctx, http.MethodGet, userFeedbackEndpoint+url.PathEscape(userID), nil, &summary); err != nil {
		return nil, err
	}
	if summary.UserID == "" {
		summary.UserID = userID
	}
	return &summary, nil
}

// UserEventsSummary aggregates the reviews of a host's events
func (s *feedbackService) UserEventsSummary(ctx context.Context, userID string) (*FeedbackSummary, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	var summary FeedbackSummary
	if err := s.client.call(ctx, http.MethodGet, userFeedbackEndpoint+"events/"+url.PathEscape(userID), nil, &summary); err != nil {
		return nil, err
	}
	if summary.UserID == "" {
		summary.UserID = userID
	}
	// The events aggregate has no personal review
	summary.My = nil
	return &summary, nil
}

// EventSummary aggregates the reviews of an event
func (s *feedbackService) EventSummary(ctx context.Context, eventID string) (*FeedbackSummary, error) {
	if eventID == "" {
		return nil, errors.New("event id is required")
	}

	var summary FeedbackSummary
	if err := s.client.call(ctx, http.MethodGet, eventFeedbackEndpoint+url.PathEscape(eventID), nil, &summary); err != nil {
		return nil, err
	}
	if summary.EventID == "" {
		summary.EventID = eventID
	}
	return &summary, nil
}

// RateEvent reviews an event
func (s *feedbackService) RateEvent(ctx context.Context, eventID string, review Review) (*EventFeedback, error) {
	if eventID == "" {
		return nil, errors.New("event id is required")
	}
	if !review.Valid() {
		return nil, ErrInvalidReview
	}

	body := map[string]string{
		"event_id": eventID,
		"review":   string(review),
	}

	var feedback EventFeedback
	if err := s.client.call(ctx, http.MethodPost, eventFeedbackEndpoint, body, &feedback); err != nil {
		return nil, err
	}
	return &feedback, nil
}

// UnrateEvent removes the user's review of an event
func (s *feedbackService) UnrateEvent(ctx context.Context, eventID string) error {
	if eventID == "" {
		return errors.New("event id is required")
	}
	return s.client.call(ctx, http.MethodDelete, eventFeedbackEndpoint+url.PathEscape(eventID), nil, nil)
}
