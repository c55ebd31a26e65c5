// Command libctl performs one-off administrative tasks against the library database.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"library-backend/internal/config"
	"library-backend/internal/infrastructure/database"
	"library-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	logger.Init("development", os.Getenv("LOG_LEVEL"))

	root := &cobra.Command{
		Use:           "libctl",
		Short:         "Administrative commands for the library backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCreateUserCmd(), newEnsureSearchIndexCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// connect opens the pool using the same DB_* settings as the API
func connect(ctx context.Context) (*database.PostgresDB, error) {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, err
	}
	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.Connect(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
