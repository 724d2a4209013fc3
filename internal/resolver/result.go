package resolver

import "fmt"

// Kind classifies the outcome of a resolution.
type Kind int

const (
	KindSuccess                    Kind = iota // newest version found
	KindMissingParameter                       // no layer name supplied
	KindMalformedResponse                      // API answered with an unexpected shape
	KindNotFound                               // no matching layer or version
	KindInvalidIdentifier                      // API rejected the layer name
	KindInvalidCompatibilityFilter             // API rejected the runtime filter
	KindUnhandled                              // anything else
)

// Fixed user-facing messages. The orchestrator only ever sees these.
const (
	MsgMissingParameter           = `Missing mandatory "LayerName" parameter.`
	MsgMalformedResponse          = "Unexpected response from the API."
	MsgInvalidIdentifier          = "Invalid layer name."
	MsgInvalidCompatibilityFilter = `Parameter "CompatibleRuntime" failed to satisfy constraint.`
	MsgUnhandled                  = "Unhandled exception."
)

var kindNames = map[Kind]string{
	KindSuccess:                    "Success",
	KindMissingParameter:           "MissingParameter",
	KindMalformedResponse:          "MalformedResponse",
	KindNotFound:                   "NotFound",
	KindInvalidIdentifier:          "InvalidIdentifier",
	KindInvalidCompatibilityFilter: "InvalidCompatibilityFilter",
	KindUnhandled:                  "Unhandled",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Message renders the user-facing message for k. The not-found message
// names the layer, and the runtime when a filter was requested.
func (k Kind) Message(q Query) string {
	switch k {
	case KindSuccess:
		return ""
	case KindMissingParameter:
		return MsgMissingParameter
	case KindMalformedResponse:
		return MsgMalformedResponse
	case KindNotFound:
		if q.CompatibleRuntime != "" {
			return fmt.Sprintf(`Layer "%s" with compatible runtime "%s" does not exist.`, q.Name, q.CompatibleRuntime)
		}
		return fmt.Sprintf(`Layer "%s" does not exist.`, q.Name)
	case KindInvalidIdentifier:
		return MsgInvalidIdentifier
	case KindInvalidCompatibilityFilter:
		return MsgInvalidCompatibilityFilter
	}
	return MsgUnhandled
}

// Result is the outcome of one resolution: either a Locator (KindSuccess)
// or a failure Kind with its Message. Err carries the underlying cause
// for logging and is never shown to the orchestrator.
type Result struct {
	Kind    Kind
	Locator string
	Message string
	Err     error
}

// OK reports whether the result carries a locator.
func (r Result) OK() bool {
	return r.Kind == KindSuccess
}

// Success builds a successful result.
func Success(locator string) Result {
	return Result{Kind: KindSuccess, Locator: locator}
}

// Failure builds a failed result for q, rendering the kind's message.
func Failure(kind Kind, q Query, err error) Result {
	return Result{Kind: kind, Message: kind.Message(q), Err: err}
}
