package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var premiumCmd = &cobra.Command{
	Use:   "premium",
	Short: "Grant a premium period to a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		days, _ := cmd.Flags().GetInt("days")
		if days <= 0 {
			days = e.settings.PremiumDays
		}

		userID := resolveUserID(cmd)
		until, err := e.db.ActivatePremium(cmd.Context(), userID, days, time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("User %d is premium until %s\n", userID, until.Format("2006-01-02"))
		return nil
	},
}

func init() {
	premiumCmd.Flags().Int("days", 0, "Days to grant (default: configured premium period)")
}
