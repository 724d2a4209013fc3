package cli

import (
	"os"

	lambdaruntime "github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
)

// newServeCmd creates the `serve` command.
// Usage: latestlayer serve
func newServeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as the Lambda function behind the CloudFormation macro",
		Long: `Starts the Lambda runtime loop. Each invocation receives a macro event
and answers with a success envelope carrying the layer version ARN, or a
failed envelope carrying an error message.

This command only works inside the Lambda execution environment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}

			h, err := newHandler(cmd.Context(), cfg, os.Stderr)
			if err != nil {
				return err
			}

			// Start blocks for the lifetime of the execution environment.
			lambdaruntime.Start(h.Handle)
			return nil
		},
	}
}
