// Package repository contains data access logic separated from HTTP handlers
// and the simulation.  Its single concern here is the archive of end-of-day
// reports: one row per simulated day with the aggregate counters, plus the
// per-service breakdown stored as JSON.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/iliyamo/post-office-sim/internal/model"
)

// ErrReportNotFound is returned when no archived report exists for a day.
var ErrReportNotFound = errors.New("report not found")

// ReportRepo persists day reports to MySQL.  It depends on a sql.DB handle
// configured at startup.
type ReportRepo struct {
	db *sql.DB
}

// NewReportRepo constructs a ReportRepo with the provided DB handle.
func NewReportRepo(db *sql.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

// EnsureSchema creates the day_reports table when it does not exist yet.
// Run is keyed so that reports from successive simulation runs do not
// collide on the day number.
func (r *ReportRepo) EnsureSchema(ctx context.Context) error {
	const q = `CREATE TABLE IF NOT EXISTS day_reports (
        id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
        run VARCHAR(64) NOT NULL,
        day INT NOT NULL,
        served INT NOT NULL,
        failed INT NOT NULL,
        total_requests INT NOT NULL,
        avg_wait DOUBLE NOT NULL,
        avg_service DOUBLE NOT NULL,
        active_operators INT NOT NULL,
        pauses INT NOT NULL,
        late_users INT NOT NULL,
        detail JSON NOT NULL,
        created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
        PRIMARY KEY (id),
        UNIQUE KEY uq_run_day (run, day)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

// Insert archives one day report under the given run identifier.  The
// per-service counters and seat occupancy go into the JSON detail column;
// the scalar columns are what queries usually filter and sort on.
func (r *ReportRepo) Insert(ctx context.Context, run string, rep model.DayReport) error {
	detail, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	const q = `INSERT INTO day_reports
        (run, day, served, failed, total_requests, avg_wait, avg_service,
         active_operators, pauses, late_users, detail)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q,
		run, rep.Day,
		rep.Global.Served, rep.Global.Failed, rep.Global.TotalRequests,
		rep.Global.AvgWait(), rep.Global.AvgService(),
		rep.ActiveOperators, rep.Pauses, rep.LateUsers,
		detail)
	return err
}

// ListByRun returns every archived report of a run ordered by day.
func (r *ReportRepo) ListByRun(ctx context.Context, run string) ([]model.DayReport, error) {
	const q = `SELECT detail FROM day_reports WHERE run = ? ORDER BY day`
	rows, err := r.db.QueryContext(ctx, q, run)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DayReport
	for rows.Next() {
		var detail []byte
		if err := rows.Scan(&detail); err != nil {
			return nil, err
		}
		var rep model.DayReport
		if err := json.Unmarshal(detail, &rep); err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

// GetByRunAndDay fetches a single archived report.
func (r *ReportRepo) GetByRunAndDay(ctx context.Context, run string, day int) (*model.DayReport, error) {
	const q = `SELECT detail FROM day_reports WHERE run = ? AND day = ?`
	var detail []byte
	if err := r.db.QueryRowContext(ctx, q, run, day).Scan(&detail); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	var rep model.DayReport
	if err := json.Unmarshal(detail, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}
