package cmd

import (
	"github.com/abhisek/memora/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "memora",
	Short: "Adaptive memoir interview engine",
	Long:  "Memora — interview engine that asks adaptive biographical questions and turns the answers into structured memories.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInterview(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MEMORA_DB env var)")
	rootCmd.PersistentFlags().Int64("user", 1, "User ID to act on")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(skipCmd)
	rootCmd.AddCommand(shuffleCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(packsCmd)
	rootCmd.AddCommand(premiumCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then MEMORA_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func resolveUserID(cmd *cobra.Command) int64 {
	id, _ := cmd.Flags().GetInt64("user")
	if id <= 0 {
		return 1
	}
	return id
}
