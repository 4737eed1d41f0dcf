package storage

import (
	"database/sql"
	"errors"

	"stridewms/internal"
)

func (d *DB) InsertSyncRun(run internal.SyncRun) (int64, error) {
	result, err := d.conn.Exec(`
INSERT INTO sync_runs (traceId, provider, status, pushed, pulled, errorMsg, startedAt, finishedAt)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, run.TraceID, run.Provider, run.Status, run.Pushed, run.Pulled, run.ErrorMsg, run.StartedAt, run.FinishedAt)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) LatestSyncRun(provider string) (*internal.SyncRun, error) {
	var run internal.SyncRun
	err := d.conn.QueryRow(`
SELECT id, traceId, provider, status, pushed, pulled, errorMsg, startedAt, finishedAt
FROM sync_runs WHERE provider = ? ORDER BY id DESC LIMIT 1`, provider).
		Scan(&run.ID, &run.TraceID, &run.Provider, &run.Status, &run.Pushed, &run.Pulled, &run.ErrorMsg, &run.StartedAt, &run.FinishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (d *DB) ListSyncRuns(provider string, limit int) ([]internal.SyncRun, error) {
	rows, err := d.conn.Query(`
SELECT id, traceId, provider, status, pushed, pulled, errorMsg, startedAt, finishedAt
FROM sync_runs WHERE provider = ? ORDER BY id DESC LIMIT ?`, provider, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.SyncRun
	for rows.Next() {
		var run internal.SyncRun
		if err := rows.Scan(&run.ID, &run.TraceID, &run.Provider, &run.Status, &run.Pushed, &run.Pulled, &run.ErrorMsg, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
