package mlmodel

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const snapshotFile = "ensemble.json"

func SnapshotPath(dir string) string {
	return filepath.Join(dir, snapshotFile)
}

func Save(dir string, snap *Snapshot) error {
	if snap == nil {
		return ErrNoTrainedModel
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tmp, err := os.CreateTemp(dir, snapshotFile+".*")
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return os.Rename(tmp.Name(), SnapshotPath(dir))
}

func Load(dir string) (*Snapshot, error) {
	b, err := os.ReadFile(SnapshotPath(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoTrainedModel
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Scaler == nil {
		return nil, ErrNoTrainedModel
	}
	return &snap, nil
}

func ReadSamples(path string) ([]Sample, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read training data: %w", err)
	}
	var samples []Sample
	if err := json.Unmarshal(b, &samples); err != nil {
		return nil, fmt.Errorf("decode training data: %w", err)
	}
	return samples, nil
}
