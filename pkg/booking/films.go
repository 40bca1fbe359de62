package booking

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/eshaffer321/booking-go/internal/transport"
)

// DefaultFilmPageSize is the number of search hits when none is given
const DefaultFilmPageSize = 10

const filmSearchEndpoint = "/films/search/"

// filmService implements the FilmService interface
type filmService struct {
	client *Client
}

// Search finds films by title on the content service. A failed search has
// already been shown to the user, so the result degrades to an empty list.
func (s *filmService) Search(ctx context.Context, query string, pageSize int) ([]*Film, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*Film{}, nil
	}
	if pageSize <= 0 {
		pageSize = DefaultFilmPageSize
	}

	var films []*Film
	err := s.client.call(ctx, http.MethodGet, filmSearchEndpoint, nil, &films,
		transport.WithBaseURL(s.client.filmBaseURL),
		transport.WithQuery("query", query),
		transport.WithQuery("page_size", strconv.Itoa(pageSize)),
	)
	if err != nil {
		if logger := s.client.logger(); logger != nil {
			logger.Warn("Film search failed", "query", query, "error", err)
		}
		return []*Film{}, err
	}
	if films == nil {
		films = []*Film{}
	}
	return films, nil
}
