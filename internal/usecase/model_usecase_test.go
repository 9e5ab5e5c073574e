package usecase

import (
	"os"
	"testing"
	"time"

	"skill-match/internal/domain/mlmodel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelUsecase_Reload(t *testing.T) {
	dir := t.TempDir()
	pred := mlmodel.NewPredictor(nil)
	uc := NewModelUsecase(pred, dir, nil)

	_, err := uc.Reload()
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, uc.Status().Trained)

	snap := &mlmodel.Snapshot{
		Scaler:    &mlmodel.Scaler{},
		Tree:      &mlmodel.Tree{},
		TrainedAt: time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC),
	}
	require.NoError(t, mlmodel.Save(dir, snap))

	info, err := uc.Reload()
	require.NoError(t, err)
	assert.Equal(t, "2026-05-06T07:08:09Z", info.Version)
	assert.Equal(t, info.Version, pred.Version())

	require.NoError(t, os.WriteFile(mlmodel.SnapshotPath(dir), []byte("{not json"), 0o600))
	_, err = uc.Reload()
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, "2026-05-06T07:08:09Z", pred.Version())
}
