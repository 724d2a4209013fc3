package resolver

import (
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/smithy-go"
	"github.com/charmbracelet/log"
)

// MaxResults caps the version listing; only the newest version is needed.
const MaxResults int32 = 1

// Error codes the Lambda API reports for ListLayerVersions.
const (
	codeResourceNotFound      = "ResourceNotFoundException"
	codeInvalidParameterValue = "InvalidParameterValueException"
	codeValidation            = "ValidationException"
)

var (
	errNilOutput   = errors.New("nil ListLayerVersions output")
	errNoVersions  = errors.New("no layer versions returned")
	errMissingARN  = errors.New("layer version has no LayerVersionArn")
	errMissingName = errors.New("empty layer name")
)

// Query is the single version lookup issued per request.
type Query struct {
	Name              string
	CompatibleRuntime string
}

// Input builds the ListLayerVersions request for q. The runtime filter is
// only set when one was requested.
func (q Query) Input() *lambda.ListLayerVersionsInput {
	in := &lambda.ListLayerVersionsInput{
		LayerName: aws.String(q.Name),
		MaxItems:  aws.Int32(MaxResults),
	}
	if q.CompatibleRuntime != "" {
		in.CompatibleRuntime = types.Runtime(q.CompatibleRuntime)
	}
	return in
}

// Resolver looks up the newest version of a layer.
type Resolver struct {
	client LayerVersionLister
	logger *log.Logger
}

// New creates a Resolver on top of a (long-lived) Lambda API client.
// A nil logger discards output.
func New(client LayerVersionLister, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{client: client, logger: logger}
}

// Resolve issues exactly one ListLayerVersions call for name and classifies
// the outcome. It is never retried.
func (r *Resolver) Resolve(ctx context.Context, name, compatibleRuntime string) Result {
	q := Query{Name: name, CompatibleRuntime: compatibleRuntime}
	if q.Name == "" {
		return Failure(KindMissingParameter, q, errMissingName)
	}

	r.logger.Debug("Listing layer versions.", "layerName", q.Name, "compatibleRuntime", q.CompatibleRuntime)

	out, err := r.client.ListLayerVersions(ctx, q.Input())
	res := Classify(q, out, err)
	if res.OK() {
		r.logger.Debug("Got latest layer version.", "layerVersionArn", res.Locator)
	}
	return res
}

// Classify maps the outcome of a ListLayerVersions call to a Result.
// Rules are ordered; the first match wins:
//
//  1. versions returned with an ARN: success
//  2. no output, or the newest item has no ARN: malformed response
//  3. empty list or ResourceNotFoundException: not found
//  4. InvalidParameterValueException: invalid layer name
//  5. ValidationException with a runtime filter: invalid runtime
//  6. anything else, including ValidationException without a filter: unhandled
func Classify(q Query, out *lambda.ListLayerVersionsOutput, err error) Result {
	if err != nil {
		return classifyError(q, err)
	}
	if out == nil {
		return Failure(KindMalformedResponse, q, errNilOutput)
	}
	if len(out.LayerVersions) == 0 {
		return Failure(KindNotFound, q, errNoVersions)
	}
	arn := aws.ToString(out.LayerVersions[0].LayerVersionArn)
	if arn == "" {
		return Failure(KindMalformedResponse, q, errMissingARN)
	}
	return Success(arn)
}

func classifyError(q Query, err error) Result {
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return Failure(KindNotFound, q, err)
	}

	var invalid *types.InvalidParameterValueException
	if errors.As(err, &invalid) {
		return Failure(KindInvalidIdentifier, q, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case codeResourceNotFound:
			return Failure(KindNotFound, q, err)
		case codeInvalidParameterValue:
			return Failure(KindInvalidIdentifier, q, err)
		case codeValidation:
			// Also used for bad names; only a supplied runtime is blamed.
			if q.CompatibleRuntime != "" {
				return Failure(KindInvalidCompatibilityFilter, q, err)
			}
		}
	}

	return Failure(KindUnhandled, q, err)
}
