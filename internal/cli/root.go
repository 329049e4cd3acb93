package cli

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"publisher/internal/gateway/handler/rpc"
)

// Version is set via ldflags during build.
var Version = "dev"

const (
	outputText = "text"
	outputJSON = "json"
)

type rootOptions struct {
	server  string
	output  string
	timeout time.Duration
}

func (o *rootOptions) client() *rpc.Client {
	return rpc.NewClient(&http.Client{Timeout: o.timeout}, o.server)
}

func (o *rootOptions) json() bool {
	return strings.EqualFold(o.output, outputJSON)
}

// NewRootCommand builds the publishctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "publishctl",
		Short: "Publish recipes and standards to git repositories",
		Long: `publishctl talks to a publisher gateway.

Use "publishctl publish" to render artifact versions for every active
coding agent and commit them to the targets' repositories, one commit
per repository.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch strings.ToLower(opts.output) {
			case outputText, outputJSON:
				return nil
			default:
				return fmt.Errorf("unknown output format %q", opts.output)
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.server, "server", envOr("PUBLISHER_URL", "http://localhost:8081"), "Gateway base URL")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputText, "Output format (text|json)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Request timeout")

	cmd.AddCommand(newPublishCmd(opts))
	cmd.AddCommand(newRenderModesCmd(opts))
	cmd.AddCommand(newTargetsCmd(opts))
	cmd.AddCommand(newReposCmd(opts))
	cmd.AddCommand(newDistributionsCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the publishctl version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "publishctl %s\n", Version)
		},
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
