package booking

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DefaultCountry is assumed when a suggestion carries none
const DefaultCountry = "Россия"

const (
	addressEndpoint    = "/address/"
	myAddressEndpoint  = "/address/my/"
	suggestResultCount = 10
)

// addressService implements the AddressService interface
type addressService struct {
	client *Client
}

// Mine retrieves the signed-in user's addresses
func (s *addressService) Mine(ctx context.Context) ([]*Address, error) {
	var addresses []*Address
	if err := s.client.call(ctx, http.MethodGet, myAddressEndpoint, nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

// Get retrieves a single address
func (s *addressService) Get(ctx context.Context, addressID string) (*Address, error) {
	if addressID == "" {
		return nil, errors.New("address id is required")
	}

	var address Address
	if err := s.client.call(ctx, http.MethodGet, addressPath(addressID), nil, &address); err != nil {
		return nil, err
	}
	return &address, nil
}

// Create creates a new address
func (s *addressService) Create(ctx context.Context, params *CreateAddressParams) (*Address, error) {
	if params == nil {
		return nil, errors.New("address params are required")
	}

	var address Address
	if err := s.client.call(ctx, http.MethodPost, addressEndpoint, params, &address); err != nil {
		return nil, err
	}
	return &address, nil
}

// Update updates an existing address
func (s *addressService) Update(ctx context.Context, addressID string, params *UpdateAddressParams) (*Address, error) {
	if addressID == "" {
		return nil, errors.New("address id is required")
	}
	if params == nil {
		params = &UpdateAddressParams{}
	}

	var address Address
	if err := s.client.call(ctx, http.MethodPatch, addressPath(addressID), params, &address); err != nil {
		return nil, err
	}
	return &address, nil
}

// Delete deletes an address
func (s *addressService) Delete(ctx context.Context, addressID string) error {
	if addressID == "" {
		return errors.New("address id is required")
	}
	return s.client.call(ctx, http.MethodDelete, addressPath(addressID), nil, nil)
}

// Suggest looks up address candidates for free text
func (s *addressService) Suggest(ctx context.Context, query string) ([]Suggestion, error) {
	return s.client.suggest.Suggest(ctx, query, suggestResultCount)
}

// FromSuggestion converts a candidate into create params
func (s *addressService) FromSuggestion(sg Suggestion) *CreateAddressParams {
	d := sg.Data

	params := &CreateAddressParams{
		Country: strings.TrimSpace(d.Country),
		City:    d.City,
		Street:  d.StreetWithType,
		House:   d.House,
	}
	if params.Country == "" {
		params.Country = DefaultCountry
	}
	if params.Street == "" {
		params.Street = d.Street
	}
	if d.Flat != "" {
		flat := d.Flat
		params.Flat = &flat
	}
	if lat, err := strconv.ParseFloat(d.GeoLat, 64); err == nil {
		params.Latitude = lat
	}
	if lon, err := strconv.ParseFloat(d.GeoLon, 64); err == nil {
		params.Longitude = lon
	}

	return params
}

func addressPath(addressID string) string {
	return addressEndpoint + url.PathEscape(addressID) + "/"
}
