package repository

import (
	"context"
	"strings"

	"github.com/uptrace/bun"

	"github.com/padraicbc/gymapi/models"
)

type trainingTypeRepo struct {
	db bun.IDB
}

func (r *trainingTypeRepo) FindByName(ctx context.Context, name string) (*models.TrainingType, error) {
	tt := &models.TrainingType{}
	err := r.db.NewSelect().Model(tt).
		Where("LOWER(tt.name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return tt, nil
}

func (r *trainingTypeRepo) List(ctx context.Context) ([]*models.TrainingType, error) {
	types := []*models.TrainingType{}
	if err := r.db.NewSelect().Model(&types).OrderExpr("tt.name ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return types, nil
}

func (r *trainingTypeRepo) Upsert(ctx context.Context, tt *models.TrainingType) error {
	tt.Name = strings.TrimSpace(tt.Name)
	_, err := r.db.NewInsert().Model(tt).
		On("CONFLICT (name) DO UPDATE SET name = EXCLUDED.name").
		Returning("id").
		Exec(ctx)
	return err
}
