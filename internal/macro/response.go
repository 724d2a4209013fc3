package macro

import "github.com/cbout22/latestlayer/internal/resolver"

// Status is the outcome reported to CloudFormation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Response is the macro response envelope. Exactly one of Fragment and
// ErrorMessage is set, matching Status.
type Response struct {
	RequestID    string `json:"requestId"`
	Status       Status `json:"status"`
	Fragment     string `json:"fragment,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// Succeeded returns a success envelope carrying fragment.
func Succeeded(requestID, fragment string) Response {
	return Response{RequestID: requestID, Status: StatusSuccess, Fragment: fragment}
}

// Failed returns a failure envelope carrying message.
func Failed(requestID, message string) Response {
	return Response{RequestID: requestID, Status: StatusFailed, ErrorMessage: message}
}

// NewResponse maps a resolution result to its envelope.
func NewResponse(requestID string, res resolver.Result) Response {
	if res.OK() {
		return Succeeded(requestID, res.Locator)
	}
	msg := res.Message
	if msg == "" {
		msg = resolver.MsgUnhandled
	}
	return Failed(requestID, msg)
}
