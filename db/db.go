package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/padraicbc/gymapi/config"
	"github.com/padraicbc/gymapi/models"
)

// Setup opens a PostgreSQL connection using the provided config.
func Setup(cfg *config.Config) *bun.DB {
	db := Open(cfg.PostgresDSN(), cfg.Debug)

	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	return db
}

// Open builds a bun handle for dsn without checking connectivity.
func Open(dsn string, debug bool) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

type table struct {
	model       interface{}
	foreignKeys []string
}

// tables lists every table in dependency order.
var tables = []table{
	{model: (*models.User)(nil)},
	{model: (*models.TrainingType)(nil)},
	{
		model: (*models.Trainee)(nil),
		foreignKeys: []string{
			`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
		},
	},
	{
		model: (*models.Trainer)(nil),
		foreignKeys: []string{
			`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
			`("specialization_id") REFERENCES "training_types" ("id")`,
		},
	},
	{
		model: (*models.TraineeTrainer)(nil),
		foreignKeys: []string{
			`("trainee_id") REFERENCES "trainees" ("id") ON DELETE CASCADE`,
			`("trainer_id") REFERENCES "trainers" ("id") ON DELETE CASCADE`,
		},
	},
	{
		model: (*models.Training)(nil),
		foreignKeys: []string{
			`("trainee_id") REFERENCES "trainees" ("id") ON DELETE CASCADE`,
			`("trainer_id") REFERENCES "trainers" ("id") ON DELETE CASCADE`,
			`("training_type_id") REFERENCES "training_types" ("id")`,
		},
	},
}

// CreateTables creates all tables in dependency order.
func CreateTables(ctx context.Context, db bun.IDB) error {
	for _, t := range tables {
		q := db.NewCreateTable().Model(t.model).IfNotExists()
		for _, fk := range t.foreignKeys {
			q = q.ForeignKey(fk)
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", t.model, err)
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS trainings_trainee_date_idx ON trainings (trainee_id, date)`,
		`CREATE INDEX IF NOT EXISTS trainings_trainer_date_idx ON trainings (trainer_id, date)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS training_types_lower_name_idx ON training_types (LOWER(name))`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Printf("index: %v", err)
		}
	}

	return nil
}

// DropTables removes all tables in reverse dependency order. Used by integration tests.
func DropTables(ctx context.Context, db bun.IDB) error {
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := db.NewDropTable().Model(tables[i].model).IfExists().Cascade().Exec(ctx); err != nil {
			return fmt.Errorf("dropping table for %T: %w", tables[i].model, err)
		}
	}
	return nil
}
