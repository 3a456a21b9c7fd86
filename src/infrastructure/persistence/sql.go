package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"goal-app/src/database"
	"goal-app/src/domain"

	"github.com/sirupsen/logrus"
)

// SQLPersister stores the goal collection in the goals table. Rows keep
// their collection order in the position column; ids are not unique.
type SQLPersister struct {
	db     *database.DB
	logger *logrus.Logger
}

// NewSQLPersister creates a persister backed by db
func NewSQLPersister(db *database.DB, logger *logrus.Logger) *SQLPersister {
	return &SQLPersister{db: db, logger: logger}
}

// Load reads every goal ordered by position
func (p *SQLPersister) Load(ctx context.Context) ([]domain.Goal, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, title, priority, due_date, completed, archived, created_at
		FROM goals ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}
	defer rows.Close()

	goals := []domain.Goal{}
	for rows.Next() {
		var g domain.Goal
		var priority, createdAt string
		var dueDate sql.NullString

		if err := rows.Scan(&g.ID, &g.Title, &priority, &dueDate, &g.Completed, &g.Archived, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}

		g.Priority = domain.Priority(priority)
		if dueDate.Valid {
			due := dueDate.String
			g.DueDate = &due
		}
		g.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at of goal %d: %w", g.ID, err)
		}

		goals = append(goals, g)
	}

	return goals, rows.Err()
}

// Save rewrites the table with goals in one transaction
func (p *SQLPersister) Save(ctx context.Context, goals []domain.Goal) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM goals`); err != nil {
		return fmt.Errorf("failed to clear goals: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, p.insertQuery())
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, g := range goals {
		var dueDate any
		if g.DueDate != nil {
			dueDate = *g.DueDate
		}
		_, err := stmt.ExecContext(ctx,
			i, g.ID, g.Title, string(g.Priority), dueDate,
			g.Completed, g.Archived, g.CreatedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("failed to insert goal %d: %w", g.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit goals: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"driver": p.db.Driver(),
		"goals":  len(goals),
	}).Debug("goals saved")
	return nil
}

func (p *SQLPersister) insertQuery() string {
	placeholders := make([]string, 8)
	for i := range placeholders {
		placeholders[i] = p.db.Placeholder(i + 1)
	}
	return fmt.Sprintf(`
		INSERT INTO goals (position, id, title, priority, due_date, completed, archived, created_at)
		VALUES (%s)`, strings.Join(placeholders, ", "))
}
