package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"publisher/internal/gateway/handler/rpc"
)

func newRenderModesCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "render-modes",
		Aliases: []string{"rm"},
		Short:   "Inspect or change an organization's render modes",
	}

	var org string
	cmd.PersistentFlags().StringVar(&org, "org", "", "Organization id")
	_ = cmd.MarkPersistentFlagRequired("org")

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the configured and active render modes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := root.client().GetRenderModeConfiguration(cmd.Context(), &rpc.GetRenderModeConfigurationRequest{OrganizationID: org})
			if err != nil {
				return err
			}
			if root.json() {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			out := cmd.OutOrStdout()
			if resp.Configuration == nil {
				fmt.Fprintln(out, "configured: no (using defaults)")
			} else {
				fmt.Fprintf(out, "configured: %s\n", joinModes(resp.Configuration.ActiveRenderModes))
			}
			fmt.Fprintf(out, "active: %s\n", joinModes(resp.ActiveModes))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "set MODE...",
		Short:   "Replace the organization's render modes",
		Example: `  publishctl render-modes set --org acme claude cursor`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := root.client().UpdateRenderModeConfiguration(cmd.Context(), &rpc.UpdateRenderModeConfigurationRequest{
				OrganizationID:    org,
				ActiveRenderModes: args,
			})
			if err != nil {
				return err
			}
			if root.json() {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "active: %s\n", joinModes(resp.Configuration.ActiveRenderModes))
			return nil
		},
	})
	return cmd
}
