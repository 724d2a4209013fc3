package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cbout22/latestlayer/internal/config"
	"github.com/cbout22/latestlayer/internal/logging"
	"github.com/cbout22/latestlayer/internal/macro"
)

// EnvelopeHandler answers one macro invocation. *macro.Handler satisfies it.
type EnvelopeHandler interface {
	Handle(ctx context.Context, payload json.RawMessage) (macro.Response, error)
}

var _ EnvelopeHandler = (*macro.Handler)(nil)

type resolveOptions struct {
	runtime   string
	requestID string
	eventPath string
}

// newResolveCmd creates the `resolve` command.
// Usage: latestlayer resolve <layer-name-or-arn> [--runtime <runtime>]
func newResolveCmd(flags *globalFlags) *cobra.Command {
	opts := &resolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve [layer-name-or-arn]",
		Short: "Resolve a layer's latest version ARN from the command line",
		Long: `Runs a single macro invocation locally and prints the response envelope.

Either give a layer name (or layer ARN) as argument, or pass a full macro
event with --event (use - to read it from stdin).

Example:
  latestlayer resolve my-layer --runtime python3.12
  latestlayer resolve --event event.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := buildPayload(args, opts, cmd.InOrStdin())
			if err != nil {
				return err
			}

			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			applyResolveDefaults(cfg)

			h, err := newHandler(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			return runResolveWith(cmd.Context(), cmd.OutOrStdout(), h, payload)
		},
	}

	cmd.Flags().StringVar(&opts.runtime, "runtime", "", "Only consider versions compatible with this runtime (e.g. python3.12)")
	cmd.Flags().StringVar(&opts.requestID, "request-id", "", "Request id to echo in the envelope (default: random UUID)")
	cmd.Flags().StringVar(&opts.eventPath, "event", "", "Read a full macro event from this file, or - for stdin")

	return cmd
}

// applyResolveDefaults switches logging to text when neither the flag nor
// the config file chose a format.
func applyResolveDefaults(cfg *config.Config) {
	if cfg.LogFormat == "" {
		cfg.LogFormat = logging.FormatText
	}
}

// buildPayload returns the macro event to send, either read from
// --event or assembled from the positional layer name and flags.
func buildPayload(args []string, opts *resolveOptions, stdin io.Reader) (json.RawMessage, error) {
	if opts.eventPath != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("give either a layer name or --event, not both")
		}
		return readEvent(opts.eventPath, stdin)
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("missing layer name: give one as argument or use --event")
	}

	requestID := opts.requestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	params := map[string]string{"LayerName": args[0]}
	if opts.runtime != "" {
		params["CompatibleRuntime"] = opts.runtime
	}

	data, err := json.Marshal(map[string]any{
		"requestId": requestID,
		"params":    params,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding event: %w", err)
	}
	return data, nil
}

// readEvent reads a raw event from path, or from stdin when path is "-".
func readEvent(path string, stdin io.Reader) (json.RawMessage, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading event: %w", err)
	}
	return data, nil
}

// runResolveWith is the testable core of the resolve command. It prints
// the envelope and returns an error when the resolution failed.
func runResolveWith(ctx context.Context, out io.Writer, h EnvelopeHandler, payload json.RawMessage) error {
	resp, err := h.Handle(ctx, payload)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	fmt.Fprintln(out, string(data))

	if resp.Status != macro.StatusSuccess {
		return fmt.Errorf("resolution failed: %s", resp.ErrorMessage)
	}
	return nil
}
