package booking

import (
	"context"
	"testing"

	"github.com/eshaffer321/booking-go/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFeedbackService_RateUser(t *testing.T) {
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)

	mockTransport.On("Do", mock.Anything, requestTo("POST", "/user-feedback/"), mock.Anything).
		Return(`{"id":"f-1","user_id":"h-1","owner_id":"u-1","review":"positive"}`, nil).
		Run(func(args mock.Arguments) {
			req := args.Get(1).(*transport.Request)
			assert.Equal(t, map[string]string{"user_id": "h-1", "review": "positive"}, req.Body)
		})

	feedback, err := client.Feedback.RateUser(context.Background(), "h-1", ReviewPositive)
	require.NoError(t, err)
	assert.Equal(t, ReviewPositive, feedback.Review)

	_, err = client.Feedback.RateUser(context.Background(), "h-1", Review("meh"))
	assert.ErrorIs(t, err, ErrInvalidReview)
	mockTransport.AssertNumberOfCalls(t, "Do", 1)
}

func TestFeedbackService_Summaries(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		response string
		call     func(FeedbackService) (*FeedbackSummary, error)
		want     *FeedbackSummary
	}{
		{
			name:     "user summary with my review",
			path:     "/user-feedback/h-1",
			response: `{"user_id":"h-1","my":"negative","positive":3,"negative":1}`,
			call: func(s FeedbackService) (*FeedbackSummary, error) {
				return s.UserSummary(context.Background(), "h-1")
			},
			want: &FeedbackSummary{UserID: "h-1", My: reviewPtr(ReviewNegative), Positive: 3, Negative: 1},
		},
		{
			name:     "user summary defaults",
			path:     "/user-feedback/h-2",
			response: `{}`,
			call: func(s FeedbackService) (*FeedbackSummary, error) {
				return s.UserSummary(context.Background(), "h-2")
			},
			want: &FeedbackSummary{UserID: "h-2"},
		},
		{
			name:     "user events summary",
			path:     "/user-feedback/events/h-1",
			response: `{"user_id":"h-1","positive":10}`,
			call: func(s FeedbackService) (*FeedbackSummary, error) {
				return s.UserEventsSummary(context.Background(), "h-1")
			},
			want: &FeedbackSummary{UserID: "h-1", Positive: 10},
		},
		{
			name:     "event summary defaults id",
			path:     "/event-feedback/e-1",
			response: `{"my":null,"positive":2,"negative":0}`,
			call: func(s FeedbackService) (*FeedbackSummary, error) {
				return s.EventSummary(context.Background(), "e-1")
			},
			want: &FeedbackSummary{EventID: "e-1", Positive: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTransport := new(MockTransport)
			client := newTestClient(mockTransport)

			mockTransport.On("Do", mock.Anything, requestTo("GET", tt.path), mock.Anything).
				Return(tt.response, nil)

			got, err := tt.call(client.Feedback)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			mockTransport.AssertExpectations(t)
		})
	}
}

func TestFeedbackService_EventRating(t *testing.T) {
	ctx := context.Background()
	mockTransport := new(MockTransport)
	client := newTestClient(mockTransport)

	mockTransport.On("Do", mock.Anything, requestTo("POST", "/event-feedback/"), mock.Anything).
		Return(`{"id":"ef-1","event_id":"e-1","user_id":"u-1","review":"negative"}`, nil).
		Run(func(args mock.Arguments) {
			req := args.Get(1).(*transport.Request)
			assert.Equal(t, map[string]string{"event_id": "e-1", "review": "negative"}, req.Body)
		})
	mockTransport.On("Do", mock.Anything, requestTo("DELETE", "/event-feedback/e-1"), mock.Anything).
		Return(nil, nil)
	mockTransport.On("Do", mock.Anything, requestTo("DELETE", "/user-feedback/h-1"), mock.Anything).
		Return(nil, nil)

	feedback, err := client.Feedback.RateEvent(ctx, "e-1", ReviewNegative)
	require.NoError(t, err)
	assert.Equal(t, "ef-1", feedback.ID)

	require.NoError(t, client.Feedback.UnrateEvent(ctx, "e-1"))
	require.NoError(t, client.Feedback.UnrateUser(ctx, "h-1"))
	mockTransport.AssertExpectations(t)
}

func reviewPtr(r Review) *Review {
	return &r
}
