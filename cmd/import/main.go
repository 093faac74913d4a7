// cmd/import/main.go
// Imports a legacy MySQL gym database into the local PostgreSQL database.
// Legacy passwords are stored in plain text; they are hashed on the way in.
//
// Usage:
//
//	MYSQL_DSN="user:pass@tcp(host:3306)/gym?parseTime=true" \
//	DB_PASS="pgpass" \
//	go run ./cmd/import
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"

	"github.com/padraicbc/gymapi/config"
	"github.com/padraicbc/gymapi/credentials"
	bundb "github.com/padraicbc/gymapi/db"
	"github.com/padraicbc/gymapi/models"
)

const batchSize = 500

func main() {
	ctx := context.Background()

	cfg := config.Load()

	// --- MySQL ---
	if cfg.MySQLDSN == "" {
		log.Fatal("MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/gym?parseTime=true")
	}
	myDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("open mysql: %v", err)
	}
	defer myDB.Close()
	myDB.SetMaxOpenConns(4)
	if err := myDB.PingContext(ctx); err != nil {
		log.Fatalf("ping mysql: %v", err)
	}
	log.Println("connected to MySQL")

	// --- PostgreSQL ---
	pgDB := bundb.Setup(cfg)
	defer pgDB.Close()
	log.Println("connected to PostgreSQL")

	if err := bundb.CreateTables(ctx, pgDB); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	im := &importer{my: myDB, pg: pgDB, cost: cfg.BcryptCost}
	steps := []struct {
		name string
		fn   func(context.Context) (int, error)
	}{
		{"users", im.users},
		{"training_types", im.trainingTypes},
		{"trainees", im.trainees},
		{"trainers", im.trainers},
		{"trainee_trainers", im.links},
		{"trainings", im.trainings},
	}

	for _, s := range steps {
		n, err := s.fn(ctx)
		if err != nil {
			log.Fatalf("import %s: %v", s.name, err)
		}
		log.Printf("%-17s  %d rows imported", s.name, n)
	}

	resetSequences(ctx, pgDB)
	log.Println("import complete")
}

type importer struct {
	my   *sql.DB
	pg   *bun.DB
	cost int
}

// bulkInsert inserts a batch, skipping rows that already exist (idempotent re-runs).
func bulkInsert[T any](ctx context.Context, pgDB *bun.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := pgDB.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}

// copyRows runs query against MySQL, scans each row with scan and inserts the
// results into PostgreSQL in batches. Tables are copied parent first so
// foreign keys hold at every batch.
func copyRows[T any](ctx context.Context, im *importer, query string, scan func(*sql.Rows) (T, error)) (int, error) {
	rows, err := im.my.QueryContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []T
	total := 0
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, im.pg, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := rows.Err(); err != nil {
		return total, err
	}
	if err := bulkInsert(ctx, im.pg, batch); err != nil {
		return total, err
	}
	return total + len(batch), nil
}

// --- per-table imports ---

func (im *importer) users(ctx context.Context) (int, error) {
	return copyRows(ctx, im,
		"SELECT id, first_name, last_name, username, password, is_active FROM users",
		func(rows *sql.Rows) (models.User, error) {
			var u models.User
			var plain string
			if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &plain, &u.IsActive); err != nil {
				return u, err
			}
			hash, err := credentials.HashPassword(plain, im.cost)
			if err != nil {
				return u, fmt.Errorf("hash password for %s: %w", u.Username, err)
			}
			u.Password = hash
			return u, nil
		})
}

func (im *importer) trainingTypes(ctx context.Context) (int, error) {
	return copyRows(ctx, im,
		"SELECT id, training_type_name FROM training_types",
		func(rows *sql.Rows) (models.TrainingType, error) {
			var tt models.TrainingType
			err := rows.Scan(&tt.ID, &tt.Name)
			return tt, err
		})
}

func (im *importer) trainees(ctx context.Context) (int, error) {
	return copyRows(ctx, im,
		"SELECT id, user_id, date_of_birth, address FROM trainees",
		func(rows *sql.Rows) (models.Trainee, error) {
			var t models.Trainee
			var dob sql.NullTime
			var addr sql.NullString
			if err := rows.Scan(&t.ID, &t.UserID, &dob, &addr); err != nil {
				return t, err
			}
			if dob.Valid {
				t.DateOfBirth = &dob.Time
			}
			if addr.Valid {
				t.Address = &addr.String
			}
			return t, nil
		})
}

func (im *importer) trainers(ctx context.Context) (int, error) {
	return copyRows(ctx, im,
		"SELECT id, user_id, specialization_id FROM trainers",
		func(rows *sql.Rows) (models.Trainer, error) {
			var t models.Trainer
			err := rows.Scan(&t.ID, &t.UserID, &t.SpecializationID)
			return t, err
		})
}

func (im *importer) links(ctx context.Context) (int, error) {
	return copyRows(ctx, im,
		"SELECT trainee_id, trainer_id FROM trainee_trainer",
		func(rows *sql.Rows) (models.TraineeTrainer, error) {
			var l models.TraineeTrainer
			err := rows.Scan(&l.TraineeID, &l.TrainerID)
			return l, err
		})
}

func (im *importer) trainings(ctx context.Context) (int, error) {
	return copyRows(ctx, im,
		`SELECT id, trainee_id, trainer_id, training_type_id, training_name, training_date, training_duration
		FROM trainings`,
		func(rows *sql.Rows) (models.Training, error) {
			var t models.Training
			err := rows.Scan(&t.ID, &t.TraineeID, &t.TrainerID, &t.TrainingTypeID, &t.Name, &t.Date, &t.Duration)
			return t, err
		})
}

// resetSequences moves every id sequence past the imported ids.
func resetSequences(ctx context.Context, pgDB *bun.DB) {
	for _, table := range []string{"users", "training_types", "trainees", "trainers", "trainings"} {
		q := fmt.Sprintf(
			"SELECT setval('%s_id_seq', COALESCE((SELECT MAX(id) FROM %s), 1))",
			table, table,
		)
		if _, err := pgDB.ExecContext(ctx, q); err != nil {
			log.Printf("reset seq %s: %v", table, err)
		}
	}
	log.Println("sequences reset")
}
