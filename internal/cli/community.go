package cli

import (
	"fmt"

	"skillsync/internal/catalog"
	"skillsync/internal/common"

	"github.com/spf13/cobra"
)

var communityCmd = &cobra.Command{
	Use:   "community",
	Short: "List career communities and resources",
	Args:  cobra.NoArgs,
	RunE:  runCommunity,
}

var communityConfig common.CommandConfig

func init() {
	addOutputFlags(communityCmd, &communityConfig)
}

func runCommunity(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	cmdConfig, err := resolveOutput(cmd, communityConfig)
	if err != nil {
		return err
	}

	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	return common.NewOutputHandlerTo(cmd.OutOrStdout(), logger).HandleOutput(cat.Community, cmdConfig)
}

// loadCatalog returns the bundled static content
func loadCatalog() (*catalog.Catalog, error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}
