package mysql

import (
	"context"
	"database/sql"

	"github.com/hqvjet/TourAI/internal/domain"
)

// Repo stores periodic aggregation snapshots. One row per category for
// trending, one row per service for owner statistics; re-running a snapshot
// overwrites the previous run.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertTrending(ctx context.Context, rows []domain.TrendingSnapshot) error {
	for _, row := range rows {
		if _, err := r.db.ExecContext(ctx, upsertTrendingSQL,
			string(row.Category),
			row.ServiceID,
			row.ServiceName,
			row.AverageRating,
			row.TakenAt,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) UpsertServiceStats(ctx context.Context, rows []domain.ServiceStatSnapshot) error {
	for _, row := range rows {
		if _, err := r.db.ExecContext(ctx, upsertServiceStatSQL,
			row.ServiceID,
			row.OwnerID,
			row.TotalComments,
			row.TotalRating,
			row.AverageRating,
			row.TakenAt,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) ListTrending(ctx context.Context) ([]domain.TrendingSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, listTrendingSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TrendingSnapshot
	for rows.Next() {
		var (
			ts  domain.TrendingSnapshot
			cat string
		)
		if err := rows.Scan(&cat, &ts.ServiceID, &ts.ServiceName, &ts.AverageRating, &ts.TakenAt); err != nil {
			return nil, err
		}
		ts.Category = domain.Category(cat)
		out = append(out, ts)
	}
	return out, rows.Err()
}

func (r *Repo) ListServiceStats(ctx context.Context, ownerID int64) ([]domain.ServiceStatSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, listServiceStatsSQL, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ServiceStatSnapshot
	for rows.Next() {
		var st domain.ServiceStatSnapshot
		if err := rows.Scan(&st.ServiceID, &st.OwnerID, &st.TotalComments, &st.TotalRating, &st.AverageRating, &st.TakenAt); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
