package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/memora/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		srv := server.New(e.db, e.svc, e.pipeline, version)
		httpSrv := &http.Server{
			Addr:              e.settings.Addr,
			Handler:           srv,
			ReadHeaderTimeout: 10 * time.Second,
		}

		fmt.Printf("memora %s listening on %s (db: %s)\n", version, e.settings.Addr, e.settings.DBPath)
		return httpSrv.ListenAndServe()
	},
}
