package repository

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/padraicbc/gymapi/models"
)

type traineeRepo struct {
	db bun.IDB
}

func (r *traineeRepo) FindByUsername(ctx context.Context, username string) (*models.Trainee, error) {
	t := &models.Trainee{}
	err := r.db.NewSelect().Model(t).
		Relation("User").
		Where(`"user"."username" = ?`, username).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (r *traineeRepo) Insert(ctx context.Context, t *models.Trainee) error {
	_, err := r.db.NewInsert().Model(t).Returning("id").Exec(ctx)
	return err
}

func (r *traineeRepo) Update(ctx context.Context, t *models.Trainee) error {
	_, err := r.db.NewUpdate().Model(t).
		Column("date_of_birth", "address").
		WherePK().
		Exec(ctx)
	return err
}

func (r *traineeRepo) Delete(ctx context.Context, t *models.Trainee) error {
	if _, err := r.db.NewDelete().Model((*models.Training)(nil)).
		Where("trainee_id = ?", t.ID).
		Exec(ctx); err != nil {
		return fmt.Errorf("deleting trainings: %w", err)
	}
	if _, err := r.db.NewDelete().Model((*models.TraineeTrainer)(nil)).
		Where("trainee_id = ?", t.ID).
		Exec(ctx); err != nil {
		return fmt.Errorf("deleting trainer links: %w", err)
	}
	_, err := r.db.NewDelete().Model(t).WherePK().Exec(ctx)
	return err
}

func (r *traineeRepo) Trainers(ctx context.Context, traineeID int64) ([]*models.Trainer, error) {
	trainers := []*models.Trainer{}
	err := r.db.NewSelect().Model(&trainers).
		Relation("User").
		Relation("Specialization").
		Join("INNER JOIN trainee_trainers AS ttr ON ttr.trainer_id = trn.id").
		Where("ttr.trainee_id = ?", traineeID).
		OrderExpr("trn.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return trainers, nil
}

func (r *traineeRepo) UnassignedTrainers(ctx context.Context, traineeID int64) ([]*models.Trainer, error) {
	trainers := []*models.Trainer{}
	err := r.db.NewSelect().Model(&trainers).
		Relation("User").
		Relation("Specialization").
		Where(`"user"."is_active" = TRUE`).
		Where("NOT EXISTS (SELECT 1 FROM trainee_trainers AS ttr WHERE ttr.trainer_id = trn.id AND ttr.trainee_id = ?)", traineeID).
		OrderExpr("trn.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return trainers, nil
}

func (r *traineeRepo) ReplaceTrainers(ctx context.Context, traineeID int64, trainerIDs []int64) error {
	if _, err := r.db.NewDelete().Model((*models.TraineeTrainer)(nil)).
		Where("trainee_id = ?", traineeID).
		Exec(ctx); err != nil {
		return fmt.Errorf("clearing trainer links: %w", err)
	}
	if len(trainerIDs) == 0 {
		return nil
	}

	links := make([]models.TraineeTrainer, 0, len(trainerIDs))
	for _, id := range trainerIDs {
		links = append(links, models.TraineeTrainer{TraineeID: traineeID, TrainerID: id})
	}
	_, err := r.db.NewInsert().Model(&links).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	return err
}

func (r *traineeRepo) AddTrainer(ctx context.Context, traineeID, trainerID int64) error {
	link := &models.TraineeTrainer{TraineeID: traineeID, TrainerID: trainerID}
	_, err := r.db.NewInsert().Model(link).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	return err
}
