package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"publisher/internal/gateway/handler/rpc"
)

func newReposCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repos",
		Short: "Manage registered git repositories",
	}

	var req rpc.RegisterRepositoryRequest
	addCmd := &cobra.Command{
		Use:     "add",
		Short:   "Register or replace a git repository",
		Example: `  publishctl repos add --id web --owner acme --name web --clone-url https://github.com/acme/web.git`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := root.client().RegisterRepository(cmd.Context(), &req)
			if err != nil {
				return err
			}
			if root.json() {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			r := resp.Repository
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s as %s@%s\n", r.ID, r.FullName(), r.Branch)
			return nil
		},
	}
	addCmd.Flags().StringVar(&req.ID, "id", "", "Repository id")
	addCmd.Flags().StringVar(&req.Owner, "owner", "", "Repository owner")
	addCmd.Flags().StringVar(&req.Name, "name", "", "Repository name")
	addCmd.Flags().StringVar(&req.Branch, "branch", "", "Branch to publish to (default main)")
	addCmd.Flags().StringVar(&req.CloneURL, "clone-url", "", "Clone URL used by the committer")
	_ = addCmd.MarkFlagRequired("id")
	_ = addCmd.MarkFlagRequired("owner")
	_ = addCmd.MarkFlagRequired("name")

	cmd.AddCommand(addCmd)
	return cmd
}
