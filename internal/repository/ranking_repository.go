package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"skill-match/internal/database"
	"skill-match/internal/domain/ranking"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrInvalidRanking = errors.New("invalid ranking")

// RankingRepository is the Ranking Store. Upsert never touches Position;
// Reorder is the only writer of positions.
type RankingRepository interface {
	Upsert(ctx context.Context, r ranking.Ranking) (ranking.Ranking, error)
	Reorder(ctx context.Context, jobID string) ([]ranking.Ranking, error)
	ListByJob(ctx context.Context, jobID string, limit int) ([]ranking.Ranking, error)
	Get(ctx context.Context, candidateID, jobID string) (ranking.Ranking, error)
}

const rankingColumns = `id, candidate_id, job_id, overall_score, sub_scores, position, updated_at`

type PostgresRankingRepository struct {
	db    database.DB
	locks ranking.LockSet
	now   func() time.Time
}

func NewPostgresRankingRepository(db database.DB) *PostgresRankingRepository {
	return &PostgresRankingRepository{db: db, now: time.Now}
}

func (r *PostgresRankingRepository) Upsert(ctx context.Context, in ranking.Ranking) (ranking.Ranking, error) {
	if err := ValidateRanking(in); err != nil {
		return ranking.Ranking{}, err
	}
	sub, err := json.Marshal(nonNilSubScores(in.SubScores))
	if err != nil {
		return ranking.Ranking{}, err
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO rankings (id, candidate_id, job_id, overall_score, sub_scores, position, updated_at)
		 VALUES ($1,$2,$3,$4,$5,0,$6)
		 ON CONFLICT (candidate_id, job_id) DO UPDATE SET
			overall_score = EXCLUDED.overall_score,
			sub_scores = EXCLUDED.sub_scores,
			updated_at = EXCLUDED.updated_at
		 RETURNING `+rankingColumns,
		uuid.New(),
		in.CandidateID,
		in.JobID,
		in.OverallScore,
		string(sub),
		r.now().UTC(),
	)
	return scanRanking(row)
}

// Reorder renumbers the job's cohort inside one transaction. A transaction
// scoped advisory lock keyed on the job id serializes reorders across
// processes; the in-process lock set keeps local callers off the pool.
func (r *PostgresRankingRepository) Reorder(ctx context.Context, jobID string) ([]ranking.Ranking, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, fmt.Errorf("%w: job id is required", ErrInvalidRanking)
	}
	unlock := r.locks.Lock(jobID)
	defer unlock()

	var cohort []ranking.Ranking
	err := database.InTx(ctx, r.db, func(tx database.Tx) error {
		if err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, jobID); err != nil {
			return err
		}

		rows, err := tx.Query(ctx,
			`SELECT `+rankingColumns+` FROM rankings WHERE job_id = $1 FOR UPDATE`,
			jobID,
		)
		if err != nil {
			return err
		}
		cohort, err = collectRankings(rows)
		if err != nil {
			return err
		}
		if len(cohort) == 0 {
			return ranking.ErrEmptyCohort
		}

		for _, i := range ranking.AssignPositions(cohort) {
			if err := tx.Exec(ctx,
				`UPDATE rankings SET position = $1 WHERE id = $2`,
				cohort[i].Position, cohort[i].ID,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cohort, nil
}

func (r *PostgresRankingRepository) ListByJob(ctx context.Context, jobID string, limit int) ([]ranking.Ranking, error) {
	q := `SELECT ` + rankingColumns + ` FROM rankings WHERE job_id = $1
		  ORDER BY position = 0, position ASC, overall_score DESC, candidate_id ASC`
	args := []any{jobID}
	if limit > 0 {
		q += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectRankings(rows)
}

func (r *PostgresRankingRepository) Get(ctx context.Context, candidateID, jobID string) (ranking.Ranking, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+rankingColumns+` FROM rankings WHERE candidate_id = $1 AND job_id = $2`,
		candidateID, jobID,
	)
	out, err := scanRanking(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return ranking.Ranking{}, ranking.ErrNotFound
		}
		return ranking.Ranking{}, err
	}
	return out, nil
}

func ValidateRanking(r ranking.Ranking) error {
	if strings.TrimSpace(r.CandidateID) == "" || strings.TrimSpace(r.JobID) == "" {
		return fmt.Errorf("%w: candidate id and job id are required", ErrInvalidRanking)
	}
	if r.OverallScore < 0 || r.OverallScore > 100 || r.OverallScore != r.OverallScore {
		return fmt.Errorf("%w: overall score %v out of range", ErrInvalidRanking, r.OverallScore)
	}
	return nil
}

func nonNilSubScores(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}

func scanRanking(row database.Row) (ranking.Ranking, error) {
	var out ranking.Ranking
	var sub []byte
	if err := row.Scan(&out.ID, &out.CandidateID, &out.JobID, &out.OverallScore, &sub, &out.Position, &out.UpdatedAt); err != nil {
		return ranking.Ranking{}, err
	}
	out.SubScores = map[string]float64{}
	if len(sub) > 0 {
		if err := json.Unmarshal(sub, &out.SubScores); err != nil {
			return ranking.Ranking{}, err
		}
	}
	out.UpdatedAt = out.UpdatedAt.UTC()
	return out, nil
}

func collectRankings(rows database.Rows) ([]ranking.Ranking, error) {
	defer rows.Close()

	out := make([]ranking.Ranking, 0)
	for rows.Next() {
		rk, err := scanRanking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rk)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
