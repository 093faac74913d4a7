package repository

import (
	"context"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/padraicbc/gymapi/models"
)

// Join aliases bun assigns to the relations loaded by trainingSelect.
const (
	traineeUserAlias = "trainee__user"
	trainerUserAlias = "trainer__user"
	typeAlias        = "training_type"
)

type trainingRepo struct {
	db bun.IDB
}

func (r *trainingRepo) Insert(ctx context.Context, t *models.Training) error {
	_, err := r.db.NewInsert().Model(t).Returning("id").Exec(ctx)
	return err
}

// FindByTraineeUsername lists the trainee's trainings; PartnerName matches the trainer.
func (r *trainingRepo) FindByTraineeUsername(ctx context.Context, username string, c TrainingCriteria) ([]*models.Training, error) {
	return r.find(ctx, traineeUserAlias, trainerUserAlias, username, c)
}

// FindByTrainerUsername lists the trainer's trainings; PartnerName matches the trainee.
func (r *trainingRepo) FindByTrainerUsername(ctx context.Context, username string, c TrainingCriteria) ([]*models.Training, error) {
	return r.find(ctx, trainerUserAlias, traineeUserAlias, username, c)
}

func (r *trainingRepo) find(ctx context.Context, anchor, partner, username string, c TrainingCriteria) ([]*models.Training, error) {
	trainings := []*models.Training{}
	if username == "" {
		return trainings, nil
	}

	q := criteriaQuery(r.db.NewSelect().Model(&trainings), anchor, partner, username, c)
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return trainings, nil
}

// criteriaQuery joins a training select to both users and the type and
// appends one parameterised predicate per criterion that is set.
func criteriaQuery(q *bun.SelectQuery, anchor, partner, username string, c TrainingCriteria) *bun.SelectQuery {
	q = q.
		Relation("Trainee.User").
		Relation("Trainer.User").
		Relation("TrainingType").
		Where("?.username = ?", bun.Ident(anchor), username)

	if !c.From.IsZero() {
		q = q.Where("tr.date >= ?::date", c.From.Format(time.DateOnly))
	}
	if !c.To.IsZero() {
		q = q.Where("tr.date <= ?::date", c.To.Format(time.DateOnly))
	}
	if name := strings.TrimSpace(c.PartnerName); name != "" {
		pattern := "%" + escapeLike(strings.ToLower(name)) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("LOWER(?.first_name) LIKE ?", bun.Ident(partner), pattern).
				WhereOr("LOWER(?.last_name) LIKE ?", bun.Ident(partner), pattern).
				WhereOr("LOWER(?0.first_name || ' ' || ?0.last_name) LIKE ?1", bun.Ident(partner), pattern)
		})
	}
	if typ := strings.TrimSpace(c.TrainingType); typ != "" {
		q = q.Where("LOWER(?.name) = ?", bun.Ident(typeAlias), strings.ToLower(typ))
	}

	return q.OrderExpr("tr.date ASC, tr.id ASC")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
