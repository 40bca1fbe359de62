package booking

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

const (
	subscribeEndpoint   = "/subscribe/"
	mySubscribeEndpoint = "/subscribe/my/"
)

// subscriptionService implements the SubscriptionService interface
type subscriptionService struct {
	client *Client
}

// Mine retrieves the hosts the user follows
func (s *subscriptionService) Mine(ctx context.Context, page Page) ([]*Subscription, error) {
	var subscriptions []*Subscription
	if err := s.client.call(ctx, http.MethodGet, mySubscribeEndpoint, nil, &subscriptions, pageQuery(page)...); err != nil {
		return nil, err
	}
	return subscriptions, nil
}

// Create follows a host
func (s *subscriptionService) Create(ctx context.Context, hostID string) (*Subscription, error) {
	if hostID == "" {
		return nil, errors.New("host id is required")
	}

	var subscription Subscription
	if err := s.client.call(ctx, http.MethodPost, subscribeEndpoint, map[string]string{"host_id": hostID}, &subscription); err != nil {
		return nil, err
	}
	return &subscription, nil
}

// Delete unfollows a host
func (s *subscriptionService) Delete(ctx context.Context, hostID string) error {
	if hostID == "" {
		return errors.New("host id is required")
	}
	return s.client.call(ctx, http.MethodDelete, subscribeEndpoint, map[string]string{"host_id": hostID}, nil)
}
