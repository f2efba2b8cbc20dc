package cli

import (
	"fmt"

	"skillsync/internal/common"

	"github.com/spf13/cobra"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap [ai|frontend|backend]",
	Short: "Show a standard learning roadmap",
	Long: `Print one of the bundled learning roadmaps. Without an argument the
first roadmap is shown; use --list to see the available names.`,
	Args: cobra.MaximumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cat, err := loadCatalog()
		if err != nil || len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return cat.RoadmapIDs(), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runRoadmap,
}

var (
	roadmapConfig common.CommandConfig
	roadmapList   bool
)

func init() {
	addOutputFlags(roadmapCmd, &roadmapConfig)
	roadmapCmd.Flags().BoolVar(&roadmapList, "list", false, "List the available roadmaps and exit")
}

func runRoadmap(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	if roadmapList {
		for _, r := range cat.Roadmaps {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", r.ID, r.Title)
		}
		return nil
	}

	cmdConfig, err := resolveOutput(cmd, roadmapConfig)
	if err != nil {
		return err
	}

	id := cat.RoadmapIDs()[0]
	if len(args) == 1 {
		id = args[0]
	}
	roadmap, err := cat.Roadmap(id)
	if err != nil {
		return err
	}

	logger.Debug("Rendering roadmap", "roadmap", roadmap.ID, "format", cmdConfig.OutputFormat)
	return common.NewOutputHandlerTo(cmd.OutOrStdout(), logger).HandleOutput(roadmap, cmdConfig)
}
