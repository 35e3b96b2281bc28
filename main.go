// Command greengauge runs the GreenGauge API and its maintenance tasks.
//
// @title GreenGauge API
// @version 1.0
// @description Track the eco impact of purchases, compare users on a leaderboard and share greener swaps.
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"github.com/greengauge/greengauge-go/background"
	"github.com/greengauge/greengauge-go/config"
	"github.com/greengauge/greengauge-go/db"
	"github.com/greengauge/greengauge-go/leaderboard"
	"github.com/greengauge/greengauge-go/ledger"
	"github.com/greengauge/greengauge-go/logging"
	"github.com/greengauge/greengauge-go/users"
)

func main() {
	app := &cli.App{
		Name:  "greengauge",
		Usage: "eco-impact tracking API",
		Before: func(*cli.Context) error {
			if err := godotenv.Load(); err != nil {
				logging.Warnf(".env file not found or error loading it: %v", err)
			}
			return nil
		},
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API (default)",
				Action: runServe,
			},
			{
				Name:   "migrate",
				Usage:  "apply pending database migrations and exit",
				Action: runMigrate,
			},
			{
				Name:   "snapshot",
				Usage:  "take one leaderboard snapshot and exit",
				Action: runSnapshot,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logging.Fatalf("%v", err)
	}
}

// loadConfig reads the configuration and applies the log level.
func loadConfig() (*config.AppConfig, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	logging.SetDebug(cfg.Log.Debug)
	return cfg, nil
}

// stores holds the three database handles. sqlx and gorm share one *sql.DB.
type stores struct {
	pool *pgxpool.Pool
	sql  *sqlx.DB
	gorm *gorm.DB
}

func openStores(cfg *config.AppConfig) (*stores, error) {
	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.OpenSQL(cfg.DB)
	if err != nil {
		pool.Close()
		return nil, err
	}
	gormDB, err := db.OpenGorm(sqlDB.DB)
	if err != nil {
		sqlDB.Close()
		pool.Close()
		return nil, err
	}
	return &stores{pool: pool, sql: sqlDB, gorm: gormDB}, nil
}

func (s *stores) Close() {
	if err := s.sql.Close(); err != nil {
		logging.Warnf("error closing sql database: %v", err)
	}
	s.pool.Close()
}

func runMigrate(*cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return db.RunMigrations(cfg.DB, cfg.Server.MigrationsPath)
}

func runSnapshot(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	aggregator := leaderboard.NewAggregator(users.NewUserService(st.pool), ledger.NewSQLStore(st.sql))
	job := background.NewSnapshotJob(aggregator, leaderboard.NewSnapshotRepository(st.gorm), nil,
		cfg.Leaderboard.Size, cfg.Leaderboard.SnapshotKeep)

	ctx, cancel := context.WithTimeout(c.Context, 2*time.Minute)
	defer cancel()
	_, err = job.Run(ctx)
	return err
}
