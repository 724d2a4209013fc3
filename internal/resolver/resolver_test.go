package resolver

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/smithy-go"
)

// mockLister implements LayerVersionLister for testing without AWS.
type mockLister struct {
	out   *lambda.ListLayerVersionsOutput
	err   error
	calls []*lambda.ListLayerVersionsInput
}

var _ LayerVersionLister = (*mockLister)(nil)

func (m *mockLister) ListLayerVersions(_ context.Context, params *lambda.ListLayerVersionsInput, _ ...func(*lambda.Options)) (*lambda.ListLayerVersionsOutput, error) {
	m.calls = append(m.calls, params)
	return m.out, m.err
}

func versions(arns ...string) *lambda.ListLayerVersionsOutput {
	out := &lambda.ListLayerVersionsOutput{}
	for _, arn := range arns {
		out.LayerVersions = append(out.LayerVersions, types.LayerVersionsListItem{
			LayerVersionArn: aws.String(arn),
		})
	}
	return out
}

func validationErr() error {
	return &smithy.GenericAPIError{Code: "ValidationException", Message: "1 validation error detected"}
}

func TestResolve_Success(t *testing.T) {
	t.Parallel()

	want := "arn:aws:lambda:us-east-1:123456789012:layer:mylayer:5"
	lister := &mockLister{out: versions(want)}
	res := New(lister, nil).Resolve(context.Background(), "mylayer", "")

	if !res.OK() {
		t.Fatalf("Resolve: got kind %s, want Success", res.Kind)
	}
	if res.Locator != want {
		t.Errorf("Resolve: got locator %q, want %q", res.Locator, want)
	}
	if res.Message != "" {
		t.Errorf("Resolve: success carries message %q", res.Message)
	}
}

func TestResolve_BuildsSingleQuery(t *testing.T) {
	t.Parallel()

	lister := &mockLister{out: versions("arn")}
	New(lister, nil).Resolve(context.Background(), "mylayer", "")

	if len(lister.calls) != 1 {
		t.Fatalf("ListLayerVersions called %d times, want 1", len(lister.calls))
	}
	in := lister.calls[0]
	if aws.ToString(in.LayerName) != "mylayer" {
		t.Errorf("LayerName = %q, want %q", aws.ToString(in.LayerName), "mylayer")
	}
	if aws.ToInt32(in.MaxItems) != 1 {
		t.Errorf("MaxItems = %d, want 1", aws.ToInt32(in.MaxItems))
	}
	if in.CompatibleRuntime != "" {
		t.Errorf("CompatibleRuntime = %q, want unset", in.CompatibleRuntime)
	}
}

func TestResolve_RuntimeFilter(t *testing.T) {
	t.Parallel()

	lister := &mockLister{out: versions("arn")}
	New(lister, nil).Resolve(context.Background(), "mylayer", "python3.9")

	if got := lister.calls[0].CompatibleRuntime; got != types.RuntimePython39 {
		t.Errorf("CompatibleRuntime = %q, want %q", got, types.RuntimePython39)
	}
}

func TestResolve_EmptyNameSkipsCall(t *testing.T) {
	t.Parallel()

	lister := &mockLister{out: versions("arn")}
	res := New(lister, nil).Resolve(context.Background(), "", "")

	if res.Kind != KindMissingParameter {
		t.Errorf("Resolve(\"\"): got kind %s, want MissingParameter", res.Kind)
	}
	if res.Message != MsgMissingParameter {
		t.Errorf("Resolve(\"\"): got message %q", res.Message)
	}
	if len(lister.calls) != 0 {
		t.Errorf("ListLayerVersions called %d times, want 0", len(lister.calls))
	}
}

func TestResolve_Classification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		runtime string
		out     *lambda.ListLayerVersionsOutput
		err     error
		kind    Kind
		message string
	}{
		{
			name:    "empty list",
			out:     versions(),
			kind:    KindNotFound,
			message: `Layer "mylayer" does not exist.`,
		},
		{
			name:    "empty list with runtime",
			runtime: "python3.9",
			out:     versions(),
			kind:    KindNotFound,
			message: `Layer "mylayer" with compatible runtime "python3.9" does not exist.`,
		},
		{
			name:    "resource not found",
			err:     &types.ResourceNotFoundException{Message: aws.String("Layer not found")},
			kind:    KindNotFound,
			message: `Layer "mylayer" does not exist.`,
		},
		{
			name:    "resource not found by code",
			err:     &smithy.GenericAPIError{Code: "ResourceNotFoundException"},
			kind:    KindNotFound,
			message: `Layer "mylayer" does not exist.`,
		},
		{
			name:    "nil output",
			out:     nil,
			kind:    KindMalformedResponse,
			message: MsgMalformedResponse,
		},
		{
			name:    "missing arn",
			out:     &lambda.ListLayerVersionsOutput{LayerVersions: []types.LayerVersionsListItem{{Version: 3}}},
			kind:    KindMalformedResponse,
			message: MsgMalformedResponse,
		},
		{
			name:    "invalid parameter value",
			err:     &types.InvalidParameterValueException{Message: aws.String("bad name")},
			kind:    KindInvalidIdentifier,
			message: MsgInvalidIdentifier,
		},
		{
			name:    "invalid parameter value with runtime",
			runtime: "python3.9",
			err:     &types.InvalidParameterValueException{Message: aws.String("bad name")},
			kind:    KindInvalidIdentifier,
			message: MsgInvalidIdentifier,
		},
		{
			name:    "validation with runtime",
			runtime: "cobol42",
			err:     validationErr(),
			kind:    KindInvalidCompatibilityFilter,
			message: MsgInvalidCompatibilityFilter,
		},
		{
			name:    "validation without runtime",
			err:     validationErr(),
			kind:    KindUnhandled,
			message: MsgUnhandled,
		},
		{
			name:    "service exception",
			err:     &types.ServiceException{Message: aws.String("boom")},
			kind:    KindUnhandled,
			message: MsgUnhandled,
		},
		{
			name:    "throttled",
			runtime: "python3.9",
			err:     &types.TooManyRequestsException{Message: aws.String("slow down")},
			kind:    KindUnhandled,
			message: MsgUnhandled,
		},
		{
			name:    "plain error",
			err:     errors.New("no credentials"),
			kind:    KindUnhandled,
			message: MsgUnhandled,
		},
		{
			name: "wrapped operation error",
			err: &smithy.OperationError{
				ServiceID:     "Lambda",
				OperationName: "ListLayerVersions",
				Err:           fmt.Errorf("https response error: %w", validationErr()),
			},
			runtime: "nodejs20.x",
			kind:    KindInvalidCompatibilityFilter,
			message: MsgInvalidCompatibilityFilter,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			lister := &mockLister{out: tc.out, err: tc.err}
			res := New(lister, nil).Resolve(context.Background(), "mylayer", tc.runtime)

			if res.Kind != tc.kind {
				t.Errorf("kind: got %s, want %s", res.Kind, tc.kind)
			}
			if res.Message != tc.message {
				t.Errorf("message: got %q, want %q", res.Message, tc.message)
			}
			if res.Locator != "" {
				t.Errorf("failure carries locator %q", res.Locator)
			}
			if res.Err == nil {
				t.Error("failure carries no underlying error")
			}
		})
	}
}

func TestClassify_NotFoundBeatsShape(t *testing.T) {
	t.Parallel()

	// An error wins over whatever output came back with it.
	res := Classify(Query{Name: "l"}, versions("arn"), &types.ResourceNotFoundException{})
	if res.Kind != KindNotFound {
		t.Errorf("Classify: got %s, want NotFound", res.Kind)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	t.Parallel()

	q := Query{Name: "mylayer", CompatibleRuntime: "python3.9"}
	err := validationErr()
	first := Classify(q, nil, err)
	for i := 0; i < 10; i++ {
		if got := Classify(q, nil, err); got.Kind != first.Kind || got.Message != first.Message {
			t.Fatalf("iteration %d: got %s/%q, want %s/%q", i, got.Kind, got.Message, first.Kind, first.Message)
		}
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()
	cases := []struct {
		kind Kind
		want string
	}{
		{KindSuccess, "Success"},
		{KindMissingParameter, "MissingParameter"},
		{KindNotFound, "NotFound"},
		{KindInvalidCompatibilityFilter, "InvalidCompatibilityFilter"},
		{Kind(42), "Kind(42)"},
	}
	for _, tc := range cases {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tc.kind), got, tc.want)
		}
	}
}

// Verify Resolver implements ResolverAPI at compile time.
var _ ResolverAPI = (*Resolver)(nil)
