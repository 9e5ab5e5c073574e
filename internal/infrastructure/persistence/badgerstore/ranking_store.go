package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"skill-match/internal/domain/ranking"
	"skill-match/internal/repository"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const prefixRanking = byte(0x01)

const conflictRetries = 5

var ErrStoreClosed = errors.New("ranking store closed")

type Options struct {
	Dir      string
	InMemory bool
	Logger   *zap.Logger
}

type RankingStore struct {
	db    *badger.DB
	locks ranking.LockSet
	now   func() time.Time

	mu     sync.RWMutex
	closed bool
}

var _ repository.RankingRepository = (*RankingStore)(nil)

func Open(opts Options) (*RankingStore, error) {
	if !opts.InMemory && strings.TrimSpace(opts.Dir) == "" {
		return nil, fmt.Errorf("badger dir is required")
	}
	bopts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	if opts.Logger != nil {
		bopts = bopts.WithLogger(badgerLogger{opts.Logger.Named("badger").Sugar()})
	} else {
		bopts = bopts.WithLogger(nil)
	}
	bopts = bopts.
		WithMemTableSize(16 << 20).
		WithValueLogFileSize(64 << 20).
		WithNumMemtables(2).
		WithBlockCacheSize(32 << 20).
		WithIndexCacheSize(16 << 20)

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &RankingStore{db: db, now: time.Now}, nil
}

func OpenInMemory() (*RankingStore, error) {
	return Open(Options{InMemory: true})
}

func (s *RankingStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *RankingStore) Upsert(ctx context.Context, in ranking.Ranking) (ranking.Ranking, error) {
	if err := repository.ValidateRanking(in); err != nil {
		return ranking.Ranking{}, err
	}
	if err := checkKeyPart(in.JobID); err != nil {
		return ranking.Ranking{}, err
	}
	if err := s.open(ctx); err != nil {
		return ranking.Ranking{}, err
	}

	var out ranking.Ranking
	err := s.update(func(txn *badger.Txn) error {
		key := rankingKey(in.JobID, in.CandidateID)
		cur, err := getRanking(txn, key)
		switch {
		case errors.Is(err, ranking.ErrNotFound):
			cur = ranking.Ranking{ID: uuid.New(), CandidateID: in.CandidateID, JobID: in.JobID}
		case err != nil:
			return err
		}
		cur.OverallScore = in.OverallScore
		cur.SubScores = copySubScores(in.SubScores)
		cur.UpdatedAt = s.now().UTC()
		out = cur
		return putRanking(txn, key, cur)
	})
	return out, err
}

func (s *RankingStore) Reorder(ctx context.Context, jobID string) ([]ranking.Ranking, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, fmt.Errorf("%w: job id is required", repository.ErrInvalidRanking)
	}
	if err := s.open(ctx); err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(jobID)
	defer unlock()

	var cohort []ranking.Ranking
	err := s.update(func(txn *badger.Txn) error {
		var err error
		cohort, err = scanJob(txn, jobID)
		if err != nil {
			return err
		}
		for _, i := range ranking.AssignPositions(cohort) {
			if err := putRanking(txn, rankingKey(jobID, cohort[i].CandidateID), cohort[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(cohort) == 0 {
		return nil, ranking.ErrEmptyCohort
	}
	return cohort, nil
}

func (s *RankingStore) ListByJob(ctx context.Context, jobID string, limit int) ([]ranking.Ranking, error) {
	if err := s.open(ctx); err != nil {
		return nil, err
	}
	var out []ranking.Ranking
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		out, err = scanJob(txn, jobID)
		return err
	})
	if err != nil {
		return nil, err
	}
	sortListed(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *RankingStore) Get(ctx context.Context, candidateID, jobID string) (ranking.Ranking, error) {
	if err := s.open(ctx); err != nil {
		return ranking.Ranking{}, err
	}
	var out ranking.Ranking
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		out, err = getRanking(txn, rankingKey(jobID, candidateID))
		return err
	})
	return out, err
}

func (s *RankingStore) open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

func (s *RankingStore) update(fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < conflictRetries; attempt++ {
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

func rankingKey(jobID, candidateID string) []byte {
	key := make([]byte, 0, 2+len(jobID)+len(candidateID))
	key = append(key, prefixRanking)
	key = append(key, jobID...)
	key = append(key, 0x00)
	return append(key, candidateID...)
}

func jobPrefix(jobID string) []byte {
	key := make([]byte, 0, 2+len(jobID))
	key = append(key, prefixRanking)
	key = append(key, jobID...)
	return append(key, 0x00)
}

func checkKeyPart(s string) error {
	if strings.IndexByte(s, 0x00) >= 0 {
		return fmt.Errorf("%w: id contains NUL byte", repository.ErrInvalidRanking)
	}
	return nil
}

func getRanking(txn *badger.Txn, key []byte) (ranking.Ranking, error) {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return ranking.Ranking{}, ranking.ErrNotFound
	}
	if err != nil {
		return ranking.Ranking{}, err
	}
	var out ranking.Ranking
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &out)
	})
	return out, err
}

func putRanking(txn *badger.Txn, key []byte, r ranking.Ranking) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return txn.Set(key, b)
}

func scanJob(txn *badger.Txn, jobID string) ([]ranking.Ranking, error) {
	prefix := jobPrefix(jobID)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	out := make([]ranking.Ranking, 0)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var r ranking.Ranking
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &r)
		}); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func sortListed(rs []ranking.Ranking) {
	sort.SliceStable(rs, func(i, j int) bool {
		pi, pj := rs[i].Position, rs[j].Position
		if (pi == 0) != (pj == 0) {
			return pj == 0
		}
		if pi != pj {
			return pi < pj
		}
		if rs[i].OverallScore != rs[j].OverallScore {
			return rs[i].OverallScore > rs[j].OverallScore
		}
		return rs[i].CandidateID < rs[j].CandidateID
	})
}

func copySubScores(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type badgerLogger struct {
	s *zap.SugaredLogger
}

func (l badgerLogger) Errorf(f string, v ...any)   { l.s.Errorf(strings.TrimSpace(f), v...) }
func (l badgerLogger) Warningf(f string, v ...any) { l.s.Warnf(strings.TrimSpace(f), v...) }
func (l badgerLogger) Infof(f string, v ...any)    { l.s.Debugf(strings.TrimSpace(f), v...) }
func (l badgerLogger) Debugf(f string, v ...any)   { l.s.Debugf(strings.TrimSpace(f), v...) }
