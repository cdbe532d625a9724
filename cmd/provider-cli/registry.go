// cmd/provider-cli/registry.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"provider-ranking-workers/internal/models"
	"provider-ranking-workers/pkg/registry"
)

func newRegistryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect the activity registry",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate [path]",
		Short: "Check task types and input schemas of the activity registry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Registry.Path
			if len(args) == 1 {
				path = args[0]
			}

			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return err
			}
			problems := reg.Check()

			if a.jsonOutput() {
				if err := writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"path":       path,
					"activities": len(reg.Activities),
					"problems":   problems,
				}); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s: %d activities\n", path, len(reg.Activities))
				for _, p := range problems {
					fmt.Fprintf(out, "  %s  %s\n", badge(p.ActivityID, models.ToneDanger), p.Message)
				}
			}

			if len(problems) > 0 {
				return fmt.Errorf("registry has %d problem(s)", len(problems))
			}
			return nil
		},
	})
	return cmd
}
