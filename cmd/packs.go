package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/memora/internal/catalog"
)

var packsCmd = &cobra.Command{
	Use:   "packs",
	Short: "List the question packs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load()
		if err != nil {
			return err
		}

		for _, p := range catalog.AllPacks() {
			kind := ""
			switch {
			case catalog.IsComfort(p):
				kind = " (warmup)"
			case catalog.IsSensitive(p):
				kind = " (sensitive)"
			}
			fmt.Printf("%-16s %-28s %d questions%s\n", p, catalog.DisplayName(p), len(cat.ByPack(p)), kind)
		}
		return nil
	},
}
