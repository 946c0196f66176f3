package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pable/wordle-stats/internal/model"
)

// Run describes one exported pipeline run.
type Run struct {
	ID        string
	CreatedAt time.Time
	InputGlob string
	Pair      model.Pair
	Records   int
}

// NewRun stamps a fresh run with a random ID and the current time.
func NewRun(inputGlob string, pair model.Pair, records int) Run {
	return Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		InputGlob: inputGlob,
		Pair:      pair,
		Records:   records,
	}
}

// SaveRun stores the run and both aggregate tables in a single transaction.
func (db *DB) SaveRun(run Run, playerYear *model.PlayerYearTable, h2h *model.HeadToHeadTable) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO runs(id, created_at, input_glob, first_player, second_player, records)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Format(time.RFC3339), run.InputGlob,
		run.Pair.First, run.Pair.Second, run.Records,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if err := insertPlayerYearStats(tx, run.ID, playerYear.Rows()); err != nil {
		return err
	}
	if err := insertHeadToHeadStats(tx, run.ID, h2h.Rows()); err != nil {
		return err
	}
	return tx.Commit()
}

func insertPlayerYearStats(tx *sql.Tx, runID string, rows []model.PlayerYearStats) error {
	stmt, err := tx.Prepare(`
		INSERT INTO player_year_stats(
			run_id, player, year, total, wins, losses, total_attempts,
			d1, d2, d3, d4, d5, d6
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range rows {
		d := s.Distribution
		_, err = stmt.Exec(
			runID, s.Player, s.Year, s.TotalGames, s.Wins, s.Losses, s.TotalAttempts,
			d[1], d[2], d[3], d[4], d[5], d[6],
		)
		if err != nil {
			return fmt.Errorf("insert player_year_stats for %s/%d: %w", s.Player, s.Year, err)
		}
	}
	return nil
}

func insertHeadToHeadStats(tx *sql.Tx, runID string, rows []model.HeadToHeadYearStats) error {
	stmt, err := tx.Prepare(`
		INSERT INTO head_to_head_stats(run_id, year, first_wins, second_wins, ties)
		VALUES (?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range rows {
		if _, err := stmt.Exec(runID, s.Year, s.FirstWins, s.SecondWins, s.Ties); err != nil {
			return fmt.Errorf("insert head_to_head_stats for %d: %w", s.Year, err)
		}
	}
	return nil
}

// ErrNoRun is returned by GetRun when the export file holds no run.
var ErrNoRun = errors.New("export database holds no run")

// GetRun returns the run stored in the export file.
func (db *DB) GetRun() (*Run, error) {
	row := db.conn.QueryRow(`
		SELECT id, created_at, input_glob, first_player, second_player, records
		FROM runs ORDER BY created_at DESC LIMIT 1`)

	var r Run
	var created string
	err := row.Scan(&r.ID, &created, &r.InputGlob, &r.Pair.First, &r.Pair.Second, &r.Records)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRun
	}
	if err != nil {
		return nil, err
	}
	if r.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return nil, fmt.Errorf("run %s created_at: %w", r.ID, err)
	}
	return &r, nil
}

// GetPlayerYearStats returns a run's per-player/year rows ordered by player, then year.
func (db *DB) GetPlayerYearStats(runID string) ([]model.PlayerYearStats, error) {
	rows, err := db.conn.Query(`
		SELECT player, year, total, wins, losses, total_attempts, d1, d2, d3, d4, d5, d6
		FROM player_year_stats WHERE run_id = ? ORDER BY player, year`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerYearStats
	for rows.Next() {
		var s model.PlayerYearStats
		d := &s.Distribution
		if err := rows.Scan(&s.Player, &s.Year, &s.TotalGames, &s.Wins, &s.Losses, &s.TotalAttempts,
			&d[1], &d[2], &d[3], &d[4], &d[5], &d[6]); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetHeadToHeadStats returns a run's head-to-head rows ordered by year.
func (db *DB) GetHeadToHeadStats(runID string) ([]model.HeadToHeadYearStats, error) {
	rows, err := db.conn.Query(`
		SELECT year, first_wins, second_wins, ties
		FROM head_to_head_stats WHERE run_id = ? ORDER BY year`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.HeadToHeadYearStats
	for rows.Next() {
		var s model.HeadToHeadYearStats
		if err := rows.Scan(&s.Year, &s.FirstWins, &s.SecondWins, &s.Ties); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
