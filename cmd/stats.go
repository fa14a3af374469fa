package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/memora/internal/catalog"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show interview progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		p, err := e.svc.Progress(cmd.Context(), resolveUserID(cmd))
		if err != nil {
			return err
		}

		plan := "free"
		if p.IsPremium {
			plan = fmt.Sprintf("premium until %s", p.PremiumUntil.Format("2006-01-02"))
		}
		fmt.Printf("User %d (%s)\n", p.UserID, plan)
		fmt.Printf("Memories: %d  Asked: %d  Answered: %d  Skipped: %d\n\n", p.Memories, p.Asked, p.Answered, p.Skipped)

		for _, pk := range p.Packs {
			bar := renderBar(pk.Score, 20)
			fmt.Printf("%-28s %s %d asked, %d remaining\n", catalog.DisplayName(pk.Pack), bar, pk.Asked, pk.Remaining)
		}
		return nil
	},
}

// renderBar draws a fixed-width progress bar for a coverage score,
// saturating at 1.0.
func renderBar(score float64, width int) string {
	if score > 1 {
		score = 1
	}
	filled := int(score * float64(width))
	bar := make([]rune, width)
	for i := range bar {
		if i < filled {
			bar[i] = '█'
		} else {
			bar[i] = '░'
		}
	}
	return string(bar)
}
