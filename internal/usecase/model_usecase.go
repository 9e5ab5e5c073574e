package usecase

import (
	"errors"

	"skill-match/internal/domain/mlmodel"
	"skill-match/internal/logger"

	"go.uber.org/zap"
)

type ModelUsecase struct {
	predictor *mlmodel.Predictor
	dir       string
	logger    *zap.Logger
}

func NewModelUsecase(p *mlmodel.Predictor, dir string, l *zap.Logger) *ModelUsecase {
	return &ModelUsecase{predictor: p, dir: dir, logger: logger.OrNop(l).Named("models")}
}

func (u *ModelUsecase) Status() mlmodel.Info {
	return u.predictor.Info()
}

// Reload swaps in the snapshot currently on disk, typically after `train`.
// Without a snapshot the running one is kept and ErrNotFound is returned.
func (u *ModelUsecase) Reload() (mlmodel.Info, error) {
	snap, err := mlmodel.Load(u.dir)
	if err != nil {
		if errors.Is(err, mlmodel.ErrNoTrainedModel) {
			return mlmodel.Info{}, ErrNotFound
		}
		u.logger.Error("ml snapshot reload failed", zap.String("dir", u.dir), zap.Error(err))
		return mlmodel.Info{}, ErrInternal
	}

	prev := u.predictor.Version()
	u.predictor.Swap(snap)
	info := u.predictor.Info()
	u.logger.Info("ml snapshot swapped", zap.String("previous", prev), zap.String("version", info.Version))
	return info, nil
}
