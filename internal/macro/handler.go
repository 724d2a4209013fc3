// Package macro implements the CloudFormation macro that swaps a layer name
// for the ARN of its latest version.
package macro

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/charmbracelet/log"

	"github.com/cbout22/latestlayer/internal/layer"
	"github.com/cbout22/latestlayer/internal/logging"
	"github.com/cbout22/latestlayer/internal/resolver"
)

var errMissingLayerName = errors.New("LayerName")

// outcome is how a result kind is logged.
type outcome struct {
	level log.Level
	msg   string
}

var outcomes = map[resolver.Kind]outcome{
	resolver.KindSuccess:                    {log.DebugLevel, "Got latest layer version."},
	resolver.KindMissingParameter:           {log.ErrorLevel, "Missing event parameter LayerName."},
	resolver.KindMalformedResponse:          {log.ErrorLevel, "Received unexpected response from the API."},
	resolver.KindNotFound:                   {log.WarnLevel, "Lambda layer does not exist."},
	resolver.KindInvalidIdentifier:          {log.WarnLevel, "Failed to get a lambda layer version."},
	resolver.KindInvalidCompatibilityFilter: {log.WarnLevel, "Failed to get a lambda layer version: Invalid CompatibleRuntime."},
	resolver.KindUnhandled:                  {log.ErrorLevel, "Unhandled exception getting the lambda layer versions."},
}

// Handler answers macro invocations. It is safe to share across
// invocations; it holds no per-request state.
type Handler struct {
	resolver resolver.ResolverAPI
	logger   *log.Logger
}

// NewHandler creates a Handler. A nil logger discards output.
func NewHandler(res resolver.ResolverAPI, logger *log.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{resolver: res, logger: logger}
}

// Handle is the Lambda entry point. It always returns an envelope and a nil
// error; a panic becomes a failed envelope.
func (h *Handler) Handle(ctx context.Context, payload json.RawMessage) (resp Response, err error) {
	logger := h.logger
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.With("awsRequestId", lc.AwsRequestID)
	}

	defer func() {
		if p := recover(); p != nil {
			logger.Error("Unhandled exception resolving the layer version.",
				"error", resolver.KindUnhandled.String(),
				"errorDetail", fmt.Sprint(p),
				"event", eventField(payload),
				"stack", string(debug.Stack()))
			resp = Failed(peekRequestID(payload), resolver.MsgUnhandled)
			err = nil
		}
	}()

	return h.handle(ctx, logger, payload), nil
}

func (h *Handler) handle(ctx context.Context, logger *log.Logger, payload json.RawMessage) Response {
	logger.Debug("Got event.", "event", eventField(payload))

	ev, err := DecodeEvent(payload)
	if err != nil {
		res := resolver.Failure(resolver.KindMissingParameter, resolver.Query{}, err)
		report(logger, res, payload)
		return NewResponse(ev.RequestID, res)
	}

	q := resolver.Query{
		Name:              layer.Normalize(string(ev.Params.LayerName)),
		CompatibleRuntime: string(ev.Params.CompatibleRuntime),
	}
	if q.Name == "" {
		res := resolver.Failure(resolver.KindMissingParameter, q, errMissingLayerName)
		report(logger, res, payload)
		return NewResponse(ev.RequestID, res)
	}
	if layer.IsARN(string(ev.Params.LayerName)) {
		logger.Debug("LayerName is an ARN, using its name.", "layerName", q.Name)
	}

	res := h.resolver.Resolve(ctx, q.Name, q.CompatibleRuntime)
	report(logger, res, payload)
	return NewResponse(ev.RequestID, res)
}

// report logs a result at the level its kind calls for.
func report(logger *log.Logger, res resolver.Result, payload json.RawMessage) {
	o, ok := outcomes[res.Kind]
	if !ok {
		o = outcomes[resolver.KindUnhandled]
	}

	if res.OK() {
		logger.Log(o.level, o.msg, "layerVersionArn", res.Locator)
		return
	}

	detail := ""
	if res.Err != nil {
		detail = res.Err.Error()
	}
	logger.Log(o.level, o.msg,
		"error", res.Kind.String(),
		"errorDetail", detail,
		"event", eventField(payload))
}

// eventField renders the payload for a log record.
func eventField(payload json.RawMessage) string {
	return string(payload)
}
