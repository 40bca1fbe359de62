package normalize

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/eshaffer321/booking-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		failure     Failure
		wantCode    string
		wantMessage string
		wantStatus  int
		wantDetails interface{}
	}{
		{
			name: "error object used verbatim",
			failure: Failure{
				HasResponse: true,
				Status:      404,
				Body:        []byte(`{"error":{"code":"EVENT_NOT_FOUND","message":"Event not found","details":{"event_id":"42"}}}`),
			},
			wantCode:    "EVENT_NOT_FOUND",
			wantMessage: "Event not found",
			wantStatus:  404,
			wantDetails: map[string]interface{}{"event_id": "42"},
		},
		{
			name: "error object beats detail",
			failure: Failure{
				HasResponse: true,
				Status:      409,
				Body:        []byte(`{"error":{"code":"NotEnoughSeats","message":"No seats left"},"detail":"ignored"}`),
			},
			wantCode:    "NotEnoughSeats",
			wantMessage: "No seats left",
			wantStatus:  409,
		},
		{
			name: "error object without code",
			failure: Failure{
				HasResponse: true,
				Status:      400,
				Body:        []byte(`{"error":{"message":"Bad input"}}`),
			},
			wantCode:    types.CodeUnknown,
			wantMessage: "Bad input",
			wantStatus:  400,
		},
		{
			name: "detail validation list",
			failure: Failure{
				HasResponse: true,
				Status:      422,
				Body:        []byte(`{"detail":[{"loc":["body","seats"],"msg":"required","type":"missing"}]}`),
			},
			wantCode:    types.CodeDetail,
			wantMessage: "body.seats: required",
			wantStatus:  422,
			wantDetails: []interface{}{
				map[string]interface{}{
					"loc":  []interface{}{"body", "seats"},
					"msg":  "required",
					"type": "missing",
				},
			},
		},
		{
			name: "detail list with several entries and index",
			failure: Failure{
				HasResponse: true,
				Status:      422,
				Body:        []byte(`{"detail":[{"loc":["body","seats"],"msg":"required"},{"loc":["query","items",0],"msg":"too short"},{"msg":"no location"}]}`),
			},
			wantCode:    types.CodeDetail,
			wantMessage: "body.seats: required; query.items.0: too short; no location",
			wantStatus:  422,
		},
		{
			name: "detail string",
			failure: Failure{
				HasResponse: true,
				Status:      401,
				Body:        []byte(`{"detail":"Could not validate credentials"}`),
			},
			wantCode:    types.CodeDetail,
			wantMessage: "Could not validate credentials",
			wantStatus:  401,
			wantDetails: "Could not validate credentials",
		},
		{
			name: "detail object rendered as json",
			failure: Failure{
				HasResponse: true,
				Status:      400,
				Body:        []byte(`{"detail":{"reason":"blocked","until":"tomorrow"}}`),
			},
			wantCode:    types.CodeDetail,
			wantMessage: `{"reason":"blocked","until":"tomorrow"}`,
			wantStatus:  400,
		},
		{
			name: "detail beats message",
			failure: Failure{
				HasResponse: true,
				Status:      400,
				Body:        []byte(`{"detail":"from detail","message":"from message"}`),
			},
			wantCode:    types.CodeDetail,
			wantMessage: "from detail",
			wantStatus:  400,
		},
		{
			name: "top-level message",
			failure: Failure{
				HasResponse: true,
				Status:      500,
				Body:        []byte(`{"message":"Internal failure"}`),
			},
			wantCode:    types.CodeUnknown,
			wantMessage: "Internal failure",
			wantStatus:  500,
		},
		{
			name: "unrecognized body falls back to status text",
			failure: Failure{
				HasResponse: true,
				Status:      502,
				Body:        []byte(`<html>Bad Gateway</html>`),
			},
			wantCode:    types.CodeUnknown,
			wantMessage: "Request failed with status code 502",
			wantStatus:  502,
		},
		{
			name: "null detail is ignored",
			failure: Failure{
				HasResponse: true,
				Status:      418,
				Body:        []byte(`{"detail":null}`),
			},
			wantCode:    types.CodeUnknown,
			wantMessage: "Request failed with status code 418",
			wantStatus:  418,
		},
		{
			name: "empty body",
			failure: Failure{
				HasResponse: true,
				Status:      503,
			},
			wantCode:    types.CodeUnknown,
			wantMessage: "Request failed with status code 503",
			wantStatus:  503,
		},
		{
			name: "connection refused",
			failure: Failure{
				Err: &net.OpError{Op: "dial", Err: errors.New("connection refused")},
			},
			wantCode:    types.CodeNetwork,
			wantMessage: msgNetwork,
			wantStatus:  0,
		},
		{
			name: "timeout is a network error",
			failure: Failure{
				Err: context.DeadlineExceeded,
			},
			wantCode:    types.CodeNetwork,
			wantMessage: msgNetwork,
			wantStatus:  0,
		},
		{
			name: "canceled by caller",
			failure: Failure{
				Err: context.Canceled,
			},
			wantCode:    types.CodeCanceled,
			wantMessage: msgCanceled,
			wantStatus:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.failure)

			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantMessage, got.Message)
			assert.Equal(t, tt.wantStatus, got.Status)
			if tt.wantDetails != nil {
				assert.Equal(t, tt.wantDetails, got.Details)
			}
		})
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	f := Failure{
		HasResponse: true,
		Status:      422,
		Body:        []byte(`{"detail":[{"loc":["body","seats"],"msg":"required"},{"loc":["body","date"],"msg":"invalid"}]}`),
		RequestID:   "req-1",
	}

	first := Normalize(f)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Normalize(f))
	}
}

func TestNormalize_KeepsCauseAndRequestID(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	got := Normalize(Failure{Err: cause, RequestID: "abc"})

	assert.Equal(t, "abc", got.RequestID)
	assert.ErrorIs(t, got, cause)
	assert.ErrorIs(t, got, types.ErrNetwork)
}

func TestNormalizer_Russian(t *testing.T) {
	n := New(language.Russian)

	got := n.Normalize(Failure{Err: errors.New("refused")})
	assert.Equal(t, "Ошибка сети. Проверьте подключение и попробуйте ещё раз.", got.Message)

	got = n.Normalize(Failure{HasResponse: true, Status: 500})
	assert.Equal(t, "Запрос завершился с кодом 500", got.Message)

	// Backend messages are never translated
	got = n.Normalize(Failure{HasResponse: true, Status: 400, Body: []byte(`{"message":"as sent"}`)})
	assert.Equal(t, "as sent", got.Message)
}

func TestNormalizer_DecodeEncode(t *testing.T) {
	n := New(language.English)
	cause := errors.New("unexpected end of JSON input")

	dec := n.Decode(200, cause, "r1")
	assert.Equal(t, types.CodeDecode, dec.Code)
	assert.Equal(t, 200, dec.Status)
	assert.Equal(t, "r1", dec.RequestID)
	assert.ErrorIs(t, dec, cause)

	enc := n.Encode(cause, "r2")
	assert.Equal(t, types.CodeEncode, enc.Code)
	assert.Equal(t, 0, enc.Status)

	unk := n.Unknown(cause)
	assert.Equal(t, types.CodeUnknown, unk.Code)
	assert.Equal(t, msgUnknown, unk.Message)
}

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, language.English, ParseLanguage(""))
	assert.Equal(t, language.English, ParseLanguage("not a tag!"))
	assert.Equal(t, language.English, ParseLanguage("en-US"))
	assert.Equal(t, language.Russian, ParseLanguage("ru"))
	assert.Equal(t, language.Russian, ParseLanguage("ru-RU"))
	assert.Equal(t, language.English, ParseLanguage("de"))
}
