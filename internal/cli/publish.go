package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"publisher/internal/gateway/entity"
	"publisher/internal/gateway/handler/rpc"
)

type publishOptions struct {
	org       string
	user      string
	targets   []string
	recipes   []string
	standards []string
}

func newPublishCmd(root *rootOptions) *cobra.Command {
	opts := &publishOptions{}
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish recipe and standard versions to targets",
		Example: `  publishctl publish --org acme --target t1 --target t2 --recipe rv-12 --standard sv-3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(opts.recipes)+len(opts.standards) == 0 {
				return fmt.Errorf("at least one --recipe or --standard is required")
			}
			req := &rpc.PublishArtifactsRequest{
				UserID:         opts.user,
				OrganizationID: opts.org,
				TargetIDs:      opts.targets,
			}
			for _, id := range opts.recipes {
				req.ArtifactVersions = append(req.ArtifactVersions, rpc.VersionRef{ID: id, Kind: string(entity.KindRecipe)})
			}
			for _, id := range opts.standards {
				req.ArtifactVersions = append(req.ArtifactVersions, rpc.VersionRef{ID: id, Kind: string(entity.KindStandard)})
			}

			resp, err := root.client().PublishArtifacts(cmd.Context(), req)
			if err != nil {
				return err
			}
			if root.json() {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			return printDistributions(cmd.OutOrStdout(), resp.Distributions)
		},
	}

	cmd.Flags().StringVar(&opts.org, "org", "", "Organization id")
	cmd.Flags().StringVar(&opts.user, "user", envOr("PUBLISHER_USER", ""), "Author user id")
	cmd.Flags().StringSliceVarP(&opts.targets, "target", "t", nil, "Target id (repeatable)")
	cmd.Flags().StringSliceVar(&opts.recipes, "recipe", nil, "Recipe version id (repeatable)")
	cmd.Flags().StringSliceVar(&opts.standards, "standard", nil, "Standard version id (repeatable)")
	_ = cmd.MarkFlagRequired("org")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}
