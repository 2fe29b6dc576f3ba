package main

import (
	"fmt"
	"os"

	"credify-backend/internal/config"
	"credify-backend/internal/infrastructure/db"
	"credify-backend/pkg/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var Version = "dev"

// opener connects to the configured database. Tests swap it for sqlite.
type opener func() (*gorm.DB, error)

func openFromEnv() (*gorm.DB, error) {
	config.LoadDotenv()
	cfg := config.Load()
	logger.Init(cfg.AppEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return db.OpenGorm(cfg.DBDriver, cfg.DSN(), cfg.AppEnv)
}

func newRootCmd(open opener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "credifyctl",
		Short:         "Credify maintenance commands",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(migrateCmd(open))
	rootCmd.AddCommand(otpCmd(open))
	rootCmd.AddCommand(loansCmd(open))
	return rootCmd
}

func main() {
	defer logger.Sync()
	if err := newRootCmd(openFromEnv).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
