// Package awsclient builds the long-lived Lambda API client.
package awsclient

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/charmbracelet/log"

	"github.com/cbout22/latestlayer/internal/config"
)

// NewHTTPClient returns the HTTP client for AWS API calls. It stays
// buildable so LoadDefaultConfig can add a custom CA bundle
// (AWS_CA_BUNDLE or ca_bundle) to its transport. A zero timeout leaves the
// client unbounded; the Lambda invocation deadline still applies through
// the request context.
func NewHTTPClient(timeout time.Duration) *awshttp.BuildableClient {
	return awshttp.NewBuildableClient().WithTimeout(timeout)
}

// NewLambdaClient loads the default AWS configuration (env, shared files,
// execution role) and returns a Lambda client. Calls are never retried.
// optFns are applied after the settings derived from cfg.
func NewLambdaClient(ctx context.Context, cfg *config.Config, logger *log.Logger, optFns ...func(*awsconfig.LoadOptions) error) (*lambda.Client, error) {
	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithHTTPClient(NewHTTPClient(timeout)),
		awsconfig.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
	}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	opts = append(opts, optFns...)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	if awsCfg.Region == "" {
		logger.Warn("No AWS region configured; set AWS_REGION or region in the config file.")
	}

	client := lambda.NewFromConfig(awsCfg, func(o *lambda.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
		}
	})

	logger.Debug("Built Lambda client.", "region", awsCfg.Region, "endpoint", cfg.EndpointURL, "timeout", timeout)
	return client, nil
}
