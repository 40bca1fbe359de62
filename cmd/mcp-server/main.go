package main

import (
	"context"
	"log"
	"os"

	"github.com/eshaffer321/booking-go/pkg/booking"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	// Get the booking access token from environment
	token := os.Getenv("BOOKING_TOKEN")
	if token == "" {
		log.Fatal("BOOKING_TOKEN environment variable is required")
	}

	// Initialize booking client; stdout belongs to the MCP transport, so
	// failures are toasted on stderr
	client, err := booking.NewClient(&booking.ClientOptions{
		Token:       token,
		BaseURL:     os.Getenv("BOOKING_API_BASE_URL"),
		AuthBaseURL: os.Getenv("BOOKING_API_AUTH_BASE_URL"),
		FilmBaseURL: os.Getenv("BOOKING_API_FILM_BASE_URL"),
		Notifier:    booking.NewToastNotifier(os.Stderr),
		SentryDSN:   os.Getenv("BOOKING_SENTRY_DSN"),
	})
	if err != nil {
		log.Fatalf("failed to initialize booking client: %v", err)
	}
	defer client.Close()

	impl := &mcp.Implementation{
		Name:    "booking",
		Version: "1.0.0",
	}

	server := mcp.NewServer(impl, nil)

	// Register all tools
	registerTools(server, client)

	// Run server over stdio transport
	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func registerTools(server *mcp.Server, client *booking.Client) {
	tools := &bookingTools{client: client}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_events",
		Description: "List upcoming film screenings. Returns event id, film title, start time, venue and free seats.",
	}, tools.ListEvents)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "nearby_events",
		Description: "Find screenings within a radius (meters) of a latitude/longitude point.",
	}, tools.NearbyEvents)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_event",
		Description: "Get one screening with its film, venue, host and free seats.",
	}, tools.GetEvent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "my_reservations",
		Description: "List the signed-in user's seat bookings with their status (pending, success, canceled).",
	}, tools.MyReservations)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "reserve_seats",
		Description: "Book seats at a screening and wait briefly for the booking to be confirmed.",
	}, tools.ReserveSeats)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_films",
		Description: "Search the film catalog by title.",
	}, tools.SearchFilms)
}
