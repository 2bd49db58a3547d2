package main

import (
	"fmt"

	import_feature "career-console/internal/features/import"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "List target tables and their fields",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, schema := range import_feature.AvailableSchemas() {
			color.Cyan("%s (%s)", schema.DisplayName, schema.TargetTable)
			for _, f := range schema.Fields {
				marker := " "
				if f.Required {
					marker = color.RedString("*")
				}
				fmt.Printf("  %s %-22s %-28s %s\n", marker, f.Name, f.Label, f.Type)
			}
			fmt.Println()
		}
	},
}
