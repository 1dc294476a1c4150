package cli

import (
	"fmt"

	"github.com/ariel-frischer/ccem/internal/project"
	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Short:   "List discovered project configurations",
	GroupID: GroupMerging,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		sources, err := project.Discover(cfg.ProjectsDir)
		if err != nil {
			return err
		}
		if len(sources) == 0 {
			fmt.Printf("No project configurations found under %s\n", cfg.ProjectsDir)
			return nil
		}

		for _, src := range sources {
			fmt.Printf("%-24s %d permission(s), %d integration(s), %d setting(s)\n",
				src.Name,
				len(src.Config.Permissions),
				len(src.Config.Integrations),
				len(src.Config.Settings))
			fmt.Printf("  %s\n", src.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}
