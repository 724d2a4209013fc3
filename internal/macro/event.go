package macro

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Fragments is a parameter given either as a string or as an ordered list
// of strings, which are joined without a separator. null and absent both
// leave it empty.
type Fragments string

// UnmarshalJSON accepts a JSON string, an array of strings, or null.
// null elements inside an array are rejected.
func (f *Fragments) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = Fragments(s)
		return nil
	}

	var parts []*string
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("must be a string or an array of strings, got %s", data)
	}

	var b strings.Builder
	for i, p := range parts {
		if p == nil {
			return fmt.Errorf("element %d is null, want a string", i)
		}
		b.WriteString(*p)
	}
	*f = Fragments(b.String())
	return nil
}

// Params are the macro parameters set in the template.
type Params struct {
	LayerName         Fragments `json:"LayerName"`
	CompatibleRuntime Fragments `json:"CompatibleRuntime"`
}

// Event is the payload CloudFormation sends to a macro function. Only
// RequestID and Params drive behaviour; the other fields are kept raw and
// never validated.
type Event struct {
	RequestID               string
	Params                  Params
	Region                  json.RawMessage
	AccountID               json.RawMessage
	TransformID             json.RawMessage
	TemplateParameterValues json.RawMessage
	Fragment                json.RawMessage
}

// wireEvent is the top-level shape of the payload.
type wireEvent struct {
	RequestID               json.RawMessage `json:"requestId"`
	Params                  json.RawMessage `json:"params"`
	Region                  json.RawMessage `json:"region"`
	AccountID               json.RawMessage `json:"accountId"`
	TransformID             json.RawMessage `json:"transformId"`
	TemplateParameterValues json.RawMessage `json:"templateParameterValues"`
	Fragment                json.RawMessage `json:"fragment"`
}

var errNotObject = errors.New("event is not a JSON object")

// DecodeEvent parses payload against the Event schema. On failure the
// returned Event still carries the request id when it could be read.
func DecodeEvent(payload []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(payload, &w); err != nil {
		return Event{}, fmt.Errorf("decoding event: %w", err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(payload), []byte("{")) {
		return Event{}, fmt.Errorf("decoding event: %w", errNotObject)
	}

	ev := Event{
		RequestID:               requestIDText(w.RequestID),
		Region:                  w.Region,
		AccountID:               w.AccountID,
		TransformID:             w.TransformID,
		TemplateParameterValues: w.TemplateParameterValues,
		Fragment:                w.Fragment,
	}
	if len(w.Params) > 0 && !bytes.Equal(bytes.TrimSpace(w.Params), []byte("null")) {
		if err := json.Unmarshal(w.Params, &ev.Params); err != nil {
			return ev, fmt.Errorf("decoding params: %w", err)
		}
	}
	return ev, nil
}

// peekRequestID extracts requestId alone, ignoring every other field.
func peekRequestID(payload []byte) string {
	var w struct {
		RequestID json.RawMessage `json:"requestId"`
	}
	if err := json.Unmarshal(payload, &w); err != nil {
		return ""
	}
	return requestIDText(w.RequestID)
}

// requestIDText renders a raw requestId for the envelope: strings as
// their value, null or absent as empty, anything else as its JSON text.
func requestIDText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}
