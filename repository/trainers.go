package repository

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/padraicbc/gymapi/models"
)

type trainerRepo struct {
	db bun.IDB
}

func (r *trainerRepo) FindByUsername(ctx context.Context, username string) (*models.Trainer, error) {
	t := &models.Trainer{}
	err := r.db.NewSelect().Model(t).
		Relation("User").
		Relation("Specialization").
		Where(`"user"."username" = ?`, username).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (r *trainerRepo) FindByUsernames(ctx context.Context, usernames []string) ([]*models.Trainer, error) {
	trainers := []*models.Trainer{}
	if len(usernames) == 0 {
		return trainers, nil
	}
	err := r.db.NewSelect().Model(&trainers).
		Relation("User").
		Relation("Specialization").
		Where(`"user"."username" IN (?)`, bun.In(usernames)).
		OrderExpr("trn.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return trainers, nil
}

func (r *trainerRepo) Insert(ctx context.Context, t *models.Trainer) error {
	_, err := r.db.NewInsert().Model(t).Returning("id").Exec(ctx)
	return err
}

func (r *trainerRepo) Update(ctx context.Context, t *models.Trainer) error {
	_, err := r.db.NewUpdate().Model(t).
		Column("specialization_id").
		WherePK().
		Exec(ctx)
	return err
}

func (r *trainerRepo) Delete(ctx context.Context, t *models.Trainer) error {
	if _, err := r.db.NewDelete().Model((*models.Training)(nil)).
		Where("trainer_id = ?", t.ID).
		Exec(ctx); err != nil {
		return fmt.Errorf("deleting trainings: %w", err)
	}
	if _, err := r.db.NewDelete().Model((*models.TraineeTrainer)(nil)).
		Where("trainer_id = ?", t.ID).
		Exec(ctx); err != nil {
		return fmt.Errorf("deleting trainee links: %w", err)
	}
	_, err := r.db.NewDelete().Model(t).WherePK().Exec(ctx)
	return err
}
