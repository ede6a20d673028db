package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-brackets/models"
	"github.com/lib/pq"
)

type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type postgresTournamentStateRepository struct {
	db *sql.DB
}

// NewPostgresTournamentStateRepository stores each aggregate as a JSONB
// document next to the columns used for listing.
func NewPostgresTournamentStateRepository(db *sql.DB) TournamentStateRepository {
	return &postgresTournamentStateRepository{db: db}
}

func (r *postgresTournamentStateRepository) Create(ctx context.Context, state *models.TournamentState) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("commit transaction: %w", cErr)
		}
	}()

	t := &state.Tournament
	query := `
		INSERT INTO tournaments (name, format, bracket_type, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	if err = tx.QueryRowContext(ctx, query, t.Name, t.Format, t.BracketType, t.Status).Scan(&t.ID, &t.CreatedAt); err != nil {
		return handleTournamentError(err)
	}

	state.Version = 1
	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode tournament %d: %w", t.ID, err)
	}
	if _, err = tx.ExecContext(ctx, `UPDATE tournaments SET state = $1 WHERE id = $2`, string(doc), t.ID); err != nil {
		return handleTournamentError(err)
	}
	return nil
}

func (r *postgresTournamentStateRepository) GetByID(ctx context.Context, id int) (*models.TournamentState, error) {
	return getState(ctx, r.db, id)
}

func getState(ctx context.Context, exec SQLExecutor, id int) (*models.TournamentState, error) {
	var (
		doc     []byte
		version int
	)
	err := exec.QueryRowContext(ctx, `SELECT state, version FROM tournaments WHERE id = $1`, id).Scan(&doc, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	state := &models.TournamentState{}
	if err := json.Unmarshal(doc, state); err != nil {
		return nil, fmt.Errorf("decode tournament %d: %w", id, err)
	}
	state.Version = version
	return state, nil
}

func (r *postgresTournamentStateRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `
		SELECT id, name, format, bracket_type, status, created_at
		FROM tournaments
		WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}
	query += " ORDER BY id DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if err := rows.Scan(&t.ID, &t.Name, &t.Format, &t.BracketType, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentStateRepository) Save(ctx context.Context, state *models.TournamentState) error {
	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode tournament %d: %w", state.Tournament.ID, err)
	}

	t := state.Tournament
	query := `
		UPDATE tournaments
		SET name = $1, format = $2, bracket_type = $3, status = $4, state = $5,
		    version = version + 1, updated_at = now()
		WHERE id = $6 AND version = $7`
	result, err := r.db.ExecContext(ctx, query, t.Name, t.Format, t.BracketType, t.Status, string(doc), t.ID, state.Version)
	if err != nil {
		return handleTournamentError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM tournaments WHERE id = $1)`, t.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrTournamentNotFound
		}
		return ErrConcurrentModification
	}
	state.Version++
	return nil
}

func (r *postgresTournamentStateRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "tournaments_name_key":
			return ErrTournamentNameConflict
		case "tournaments_bracket_type_check", "tournaments_status_check":
			return fmt.Errorf("%w (%s)", ErrTournamentInvalid, pqErr.Constraint)
		}
	}
	return err
}
