package resolver

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/lambda"
)

// LayerVersionLister is the slice of the Lambda API the resolver consumes.
// *lambda.Client satisfies it.
type LayerVersionLister interface {
	// ListLayerVersions lists versions of a layer, newest first.
	ListLayerVersions(ctx context.Context, params *lambda.ListLayerVersionsInput, optFns ...func(*lambda.Options)) (*lambda.ListLayerVersionsOutput, error)
}

// ResolverAPI resolves a short layer name to its newest version ARN.
type ResolverAPI interface {
	Resolve(ctx context.Context, name, compatibleRuntime string) Result
}

var _ LayerVersionLister = (*lambda.Client)(nil)
