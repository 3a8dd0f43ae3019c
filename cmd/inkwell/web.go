package main

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/bobinette/inkwell/web"
)

var webAddr string

func init() {
	RootCmd.AddCommand(&WebCmd)
}

var WebCmd = cobra.Command{
	Use:   "web",
	Short: "Start the web server",
	Run: func(cmd *cobra.Command, args []string) {
		// Warm the replica before accepting traffic. A failed first
		// load is not fatal: the replica starts empty and a later
		// /data call retries.
		if err := engine.BulkLoad(context.Background(), true); err != nil {
			logger.Error("initial load failed:", err)
		}

		server := web.NewServer(logger, store, engine, encoder, authService)

		logger.Printf("listening on %s", webAddr)
		if err := http.ListenAndServe(webAddr, server.Handler()); err != nil {
			logger.Fatal(err)
		}
	},
}
