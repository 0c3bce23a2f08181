package goal

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/equilibrium-app/equilibrium/internal/money"
)

type GoalRepo interface {
	Store(ctx context.Context, userId int, goal Goal) (int, error)
	Get(ctx context.Context, userId int, goalId int) (Goal, error)
	GetBySlug(ctx context.Context, userId int, slug string) (Goal, error)
	GetAll(ctx context.Context, userId int) ([]Goal, error)
	Update(ctx context.Context, userId int, goal Goal) (bool, error)
	Delete(ctx context.Context, userId int, goalId int) (bool, error)
	// ApplyEntry commits the balance update and the ledger entry insert as
	// one transaction. The balance row is matched against expectedCurrent;
	// a mismatch means a concurrent writer won and yields
	// ErrConcurrencyConflict with nothing written.
	ApplyEntry(ctx context.Context, userId int, updated Goal, expectedCurrent money.Money, entry GoalEntry) (Goal, GoalEntry, error)
	// ListEntries returns the goal's ledger, most recent first.
	ListEntries(ctx context.Context, userId int, goalId int) ([]GoalEntry, error)
}

type GoalRepoImpl struct {
	db *pgxpool.Pool
}

func NewGoalRepo(db *pgxpool.Pool) *GoalRepoImpl {
	return &GoalRepoImpl{db: db}
}

const goalColumns = `id, title, slug, description, target_cents, current_cents, deadline, achieved, completed_at, created_at`

func (r *GoalRepoImpl) Store(ctx context.Context, userId int, goal Goal) (int, error) {
	query := `INSERT INTO goal (user_id, title, slug, description, target_cents, current_cents, deadline, achieved)
				VALUES ($1, $2, $3, $4, $5, 0, $6, FALSE) RETURNING id`
	var deadline *time.Time
	if !goal.Deadline.IsZero() {
		deadline = &goal.Deadline
	}
	var id int
	err := r.db.QueryRow(ctx, query,
		userId,
		goal.Title,
		goal.Slug,
		goal.Description,
		int64(goal.Target),
		deadline,
	).Scan(&id)
	if err != nil {
		log.Errorf("could not store goal: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *GoalRepoImpl) Get(ctx context.Context, userId int, goalId int) (Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goal WHERE id = $1 AND user_id = $2`
	return r.scanGoalRow(r.db.QueryRow(ctx, query, goalId, userId))
}

func (r *GoalRepoImpl) GetBySlug(ctx context.Context, userId int, slug string) (Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goal WHERE slug = $1 AND user_id = $2`
	return r.scanGoalRow(r.db.QueryRow(ctx, query, slug, userId))
}

func (r *GoalRepoImpl) scanGoalRow(row pgx.Row) (Goal, error) {
	goal, err := scanGoal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Goal{}, ErrGoalNotFound
	}
	if err != nil {
		log.Errorf("could not get goal: %v", err)
		return Goal{}, err
	}
	return goal, nil
}

func (r *GoalRepoImpl) GetAll(ctx context.Context, userId int) ([]Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goal WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		log.Errorf("could not query goals: %v", err)
		return nil, err
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			log.Errorf("could not scan goal: %v", err)
			return nil, err
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over goals: %v", err)
		return nil, err
	}
	return goals, nil
}

func (r *GoalRepoImpl) Update(ctx context.Context, userId int, goal Goal) (bool, error) {
	query := `UPDATE goal SET title = $1, description = $2, target_cents = $3, deadline = $4
				WHERE id = $5 AND user_id = $6`
	var deadline *time.Time
	if !goal.Deadline.IsZero() {
		deadline = &goal.Deadline
	}
	tag, err := r.db.Exec(ctx, query,
		goal.Title,
		goal.Description,
		int64(goal.Target),
		deadline,
		goal.ID,
		userId,
	)
	if err != nil {
		log.Errorf("could not update goal: %v", err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *GoalRepoImpl) Delete(ctx context.Context, userId int, goalId int) (bool, error) {
	query := `DELETE FROM goal WHERE id = $1 AND user_id = $2`
	tag, err := r.db.Exec(ctx, query, goalId, userId)
	if err != nil {
		log.Errorf("could not delete goal: %v", err)
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *GoalRepoImpl) ApplyEntry(ctx context.Context, userId int, updated Goal, expectedCurrent money.Money, entry GoalEntry) (Goal, GoalEntry, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		log.Errorf("could not begin goal transaction: %v", err)
		return Goal{}, GoalEntry{}, err
	}
	defer tx.Rollback(ctx)

	var completedAt *time.Time
	if !updated.CompletedAt.IsZero() {
		completedAt = &updated.CompletedAt
	}
	updateQuery := `UPDATE goal SET current_cents = $1, achieved = $2, completed_at = $3
					WHERE id = $4 AND user_id = $5 AND current_cents = $6`
	tag, err := tx.Exec(ctx, updateQuery,
		int64(updated.Current),
		updated.Achieved,
		completedAt,
		updated.ID,
		userId,
		int64(expectedCurrent),
	)
	if err != nil {
		log.Errorf("could not update goal balance: %v", err)
		return Goal{}, GoalEntry{}, err
	}
	if tag.RowsAffected() == 0 {
		// The service read the goal moments ago, so a missing match means the
		// balance moved underneath us, not that the goal is gone.
		return Goal{}, GoalEntry{}, ErrConcurrencyConflict
	}

	insertQuery := `INSERT INTO goal_entry (goal_id, amount_cents, note)
					VALUES ($1, $2, $3) RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insertQuery,
		updated.ID,
		int64(entry.Amount),
		entry.Note,
	).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		log.Errorf("could not insert goal entry: %v", err)
		return Goal{}, GoalEntry{}, err
	}
	entry.GoalId = updated.ID

	if err := tx.Commit(ctx); err != nil {
		log.Errorf("could not commit goal transaction: %v", err)
		return Goal{}, GoalEntry{}, err
	}
	return updated, entry, nil
}

func (r *GoalRepoImpl) ListEntries(ctx context.Context, userId int, goalId int) ([]GoalEntry, error) {
	// The join enforces ownership: entries are only reachable through the
	// caller's own goals.
	query := `SELECT e.id, e.goal_id, e.amount_cents, e.note, e.created_at
				FROM goal_entry e
				JOIN goal g ON g.id = e.goal_id
				WHERE e.goal_id = $1 AND g.user_id = $2
				ORDER BY e.created_at DESC, e.id DESC`
	rows, err := r.db.Query(ctx, query, goalId, userId)
	if err != nil {
		log.Errorf("could not query goal entries: %v", err)
		return nil, err
	}
	defer rows.Close()

	var entries []GoalEntry
	for rows.Next() {
		var entry GoalEntry
		var amountCents int64
		if err := rows.Scan(&entry.ID, &entry.GoalId, &amountCents, &entry.Note, &entry.CreatedAt); err != nil {
			log.Errorf("could not scan goal entry: %v", err)
			return nil, err
		}
		entry.Amount = money.Money(amountCents)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over goal entries: %v", err)
		return nil, err
	}
	return entries, nil
}

func scanGoal(row pgx.Row) (Goal, error) {
	var goal Goal
	var targetCents, currentCents int64
	var deadline, completedAt *time.Time
	if err := row.Scan(
		&goal.ID,
		&goal.Title,
		&goal.Slug,
		&goal.Description,
		&targetCents,
		&currentCents,
		&deadline,
		&goal.Achieved,
		&completedAt,
		&goal.CreatedAt,
	); err != nil {
		return Goal{}, err
	}
	goal.Target = money.Money(targetCents)
	goal.Current = money.Money(currentCents)
	if deadline != nil {
		goal.Deadline = *deadline
	}
	if completedAt != nil {
		goal.CompletedAt = *completedAt
	}
	return goal, nil
}
