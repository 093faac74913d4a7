package repository

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/padraicbc/gymapi/models"
)

type userRepo struct {
	db bun.IDB
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	u := &models.User{}
	err := r.db.NewSelect().Model(u).
		Where("u.username = ?", username).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (r *userRepo) LockByUsername(ctx context.Context, username string) (*models.User, error) {
	u := &models.User{}
	err := r.db.NewSelect().Model(u).
		Where("u.username = ?", username).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (r *userRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.db.NewSelect().Model((*models.User)(nil)).
		Where("u.username = ?", username).
		Exists(ctx)
}

func (r *userRepo) Insert(ctx context.Context, u *models.User) error {
	_, err := r.db.NewInsert().Model(u).Returning("id").Exec(ctx)
	return err
}

func (r *userRepo) Update(ctx context.Context, u *models.User) error {
	_, err := r.db.NewUpdate().Model(u).
		Column("first_name", "last_name", "password", "is_active").
		WherePK().
		Exec(ctx)
	return err
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.NewDelete().Model((*models.User)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
