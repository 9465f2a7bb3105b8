package main

import (
	"os"

	"github.com/spf13/cobra"
)

// @title Land Registry API
// @version 1.0.0
// @description Property registration, mutation workflow and ownership ledger.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	root := &cobra.Command{
		Use:           "api-gateway",
		Short:         "Land registry API",
		Long:          `HTTP API for property registration, ownership mutations and the ownership ledger.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
