package cli

import (
	"github.com/spf13/cobra"

	"publisher/internal/gateway/handler/rpc"
)

func newDistributionsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "distributions",
		Aliases: []string{"dist"},
		Short:   "Inspect distribution history",
	}

	var req rpc.ListDistributionsRequest
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List distributions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := root.client().ListDistributions(cmd.Context(), &req)
			if err != nil {
				return err
			}
			if root.json() {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			return printDistributions(cmd.OutOrStdout(), resp.Distributions)
		},
	}
	listCmd.Flags().StringVar(&req.OrganizationID, "org", "", "Organization id")
	listCmd.Flags().StringVar(&req.TargetID, "target", "", "Only distributions of this target")
	_ = listCmd.MarkFlagRequired("org")

	cmd.AddCommand(listCmd)
	return cmd
}
