// Package normalize turns raw HTTP failures into *types.Error values.
//
// Classification is first match wins:
//
//  1. a nested "error" object ({code, message, details}) is used verbatim
//  2. a "detail" field (validation list, string, or any other value)
//  3. a top-level "message" string
//  4. no response at all (refused, DNS, timeout)
//  5. the transport-level status text
package normalize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/eshaffer321/booking-go/internal/types"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Failure is everything known about a failed call
type Failure struct {
	// HasResponse is false when the request never produced an HTTP response
	HasResponse bool
	Status      int
	Body        []byte
	Err         error
	RequestID   string
}

// Normalizer classifies failures, rendering fallback messages in one language
type Normalizer struct {
	printer *message.Printer
}

// New creates a normalizer whose fallback messages use tag
func New(tag language.Tag) *Normalizer {
	return &Normalizer{printer: message.NewPrinter(tag)}
}

var defaultNormalizer = New(language.English)

// Normalize classifies f with English fallback messages
func Normalize(f Failure) *types.Error {
	return defaultNormalizer.Normalize(f)
}

// Normalize classifies f. The result depends only on f.
func (n *Normalizer) Normalize(f Failure) *types.Error {
	if !f.HasResponse {
		return n.noResponse(f)
	}

	env := parseEnvelope(f.Body)
	out := &types.Error{
		Code:      types.CodeUnknown,
		Status:    f.Status,
		RequestID: f.RequestID,
		Err:       f.Err,
	}

	switch env.kind {
	case kindErrorObject:
		if env.errObj.Code != "" {
			out.Code = env.errObj.Code
		}
		out.Message = env.errObj.Message
		out.Details = env.errObj.Details
	case kindDetail:
		out.Code = types.CodeDetail
		out.Message = formatDetail(env.detail)
		out.Details = env.detail
	case kindMessage:
		out.Message = env.message
	default:
		out.Message = n.printer.Sprintf(msgStatus, f.Status)
	}

	if out.Message == "" {
		out.Message = n.printer.Sprintf(msgUnknown)
	}
	return out
}

func (n *Normalizer) noResponse(f Failure) *types.Error {
	if errors.Is(f.Err, context.Canceled) {
		return &types.Error{
			Code:      types.CodeCanceled,
			Message:   n.printer.Sprintf(msgCanceled),
			RequestID: f.RequestID,
			Err:       f.Err,
		}
	}

	return &types.Error{
		Code:      types.CodeNetwork,
		Message:   n.printer.Sprintf(msgNetwork),
		RequestID: f.RequestID,
		Err:       f.Err,
	}
}

// Decode builds the error for a successful response whose body did not
// decode into the caller's result.
func (n *Normalizer) Decode(status int, err error, requestID string) *types.Error {
	return &types.Error{
		Code:      types.CodeDecode,
		Message:   n.printer.Sprintf(msgDecode),
		Status:    status,
		RequestID: requestID,
		Err:       err,
	}
}

// Encode builds the error for a request body that could not be marshaled
func (n *Normalizer) Encode(err error, requestID string) *types.Error {
	return &types.Error{
		Code:      types.CodeEncode,
		Message:   n.printer.Sprintf(msgEncode),
		RequestID: requestID,
		Err:       err,
	}
}

// Unknown builds the generic error used when nothing better is known
func (n *Normalizer) Unknown(err error) *types.Error {
	return &types.Error{
		Code:    types.CodeUnknown,
		Message: n.printer.Sprintf(msgUnknown),
		Err:     err,
	}
}

type envelopeKind int

const (
	kindUnknown envelopeKind = iota
	kindErrorObject
	kindDetail
	kindMessage
)

type errorObject struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

type envelope struct {
	kind    envelopeKind
	errObj  errorObject
	detail  interface{}
	message string
}

// parseEnvelope decodes body once and reports the highest priority shape it matches
func parseEnvelope(body []byte) envelope {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return envelope{}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return envelope{}
	}

	if v, ok := raw["error"]; ok && isObject(v) {
		var obj errorObject
		if err := json.Unmarshal(v, &obj); err == nil {
			return envelope{kind: kindErrorObject, errObj: obj}
		}
	}

	if v, ok := raw["detail"]; ok && !isNull(v) {
		var detail interface{}
		if err := json.Unmarshal(v, &detail); err == nil {
			return envelope{kind: kindDetail, detail: detail}
		}
	}

	if v, ok := raw["message"]; ok {
		var msg string
		if err := json.Unmarshal(v, &msg); err == nil && msg != "" {
			return envelope{kind: kindMessage, message: msg}
		}
	}

	return envelope{}
}

func isObject(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) > 0 && v[0] == '{'
}

func isNull(v json.RawMessage) bool {
	return string(bytes.TrimSpace(v)) == "null"
}

// formatDetail renders a decoded `detail` value as one line
func formatDetail(detail interface{}) string {
	switch d := detail.(type) {
	case string:
		return d
	case []interface{}:
		parts := make([]string, 0, len(d))
		for _, entry := range d {
			parts = append(parts, formatDetailEntry(entry))
		}
		return strings.Join(parts, "; ")
	default:
		return compactJSON(d)
	}
}

// formatDetailEntry renders {loc: [...], msg} as "a.b: msg"
func formatDetailEntry(entry interface{}) string {
	m, ok := entry.(map[string]interface{})
	if !ok {
		if s, ok := entry.(string); ok {
			return s
		}
		return compactJSON(entry)
	}

	msg, ok := m["msg"].(string)
	if !ok {
		return compactJSON(entry)
	}

	loc, _ := m["loc"].([]interface{})
	if len(loc) == 0 {
		return msg
	}

	segments := make([]string, 0, len(loc))
	for _, l := range loc {
		segments = append(segments, locSegment(l))
	}
	return strings.Join(segments, ".") + ": " + msg
}

func locSegment(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return compactJSON(s)
	}
}

func compactJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
