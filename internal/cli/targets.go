package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"publisher/internal/gateway/entity"
	"publisher/internal/gateway/handler/rpc"
)

func newTargetsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Manage publish targets",
	}

	var org string
	cmd.PersistentFlags().StringVar(&org, "org", "", "Organization id")
	_ = cmd.MarkPersistentFlagRequired("org")

	printTarget := func(w io.Writer, t entity.Target) error {
		if root.json() {
			return printJSON(w, t)
		}
		tw := newTable(w, "ID", "REPOSITORY", "NAME", "PATH")
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.RepositoryID, t.Name, t.Path)
		return tw.Flush()
	}

	var add rpc.AddTargetRequest
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a target inside a registered repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			add.OrganizationID = org
			resp, err := root.client().AddTarget(cmd.Context(), &add)
			if err != nil {
				return err
			}
			return printTarget(cmd.OutOrStdout(), resp.Target)
		},
	}
	addCmd.Flags().StringVar(&add.GitRepoID, "repo", "", "Repository id")
	addCmd.Flags().StringVar(&add.Name, "name", "", "Target name")
	addCmd.Flags().StringVar(&add.Path, "path", "/", "Absolute path inside the repository")
	_ = addCmd.MarkFlagRequired("repo")
	_ = addCmd.MarkFlagRequired("name")

	var update rpc.UpdateTargetRequest
	updateCmd := &cobra.Command{
		Use:   "update ID",
		Short: "Rename or move a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			update.OrganizationID = org
			update.ID = args[0]
			resp, err := root.client().UpdateTarget(cmd.Context(), &update)
			if err != nil {
				return err
			}
			return printTarget(cmd.OutOrStdout(), resp.Target)
		},
	}
	updateCmd.Flags().StringVar(&update.Name, "name", "", "New target name")
	updateCmd.Flags().StringVar(&update.Path, "path", "", "New path; empty keeps the current one")
	_ = updateCmd.MarkFlagRequired("name")

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a target; its distribution history is kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := root.client().DeleteTarget(cmd.Context(), &rpc.DeleteTargetRequest{OrganizationID: org, ID: args[0]})
			if err != nil {
				return err
			}
			if root.json() {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(addCmd, updateCmd, deleteCmd)
	return cmd
}
