package main

import (
	"fmt"

	"skill-match/internal/domain/mlmodel"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Fit the ML sub-models from a JSON training file and persist the snapshot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, _ := cmd.Flags().GetString("data")
		out, _ := cmd.Flags().GetString("out")
		opts := mlmodel.DefaultTrainOptions()
		opts.Trees, _ = cmd.Flags().GetInt("trees")
		opts.MaxDepth, _ = cmd.Flags().GetInt("max-depth")
		opts.Neighbours, _ = cmd.Flags().GetInt("neighbours")
		seed, _ := cmd.Flags().GetUint64("seed")
		opts.Seed = seed
		return train(data, out, opts)
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)

	def := mlmodel.DefaultTrainOptions()
	trainCmd.Flags().String("data", "", "JSON array of training samples (required)")
	trainCmd.Flags().String("out", "", "directory for the snapshot (default models.dir)")
	trainCmd.Flags().Int("trees", def.Trees, "random forest size")
	trainCmd.Flags().Int("max-depth", def.MaxDepth, "maximum tree depth")
	trainCmd.Flags().Int("neighbours", def.Neighbours, "k for the nearest-neighbour model")
	trainCmd.Flags().Uint64("seed", def.Seed, "shuffle and bootstrap seed")
	_ = trainCmd.MarkFlagRequired("data")
}

func train(dataPath, outDir string, opts mlmodel.TrainOptions) error {
	cfg, l, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	if outDir == "" {
		outDir = cfg.Models.Dir
	}

	samples, err := mlmodel.ReadSamples(dataPath)
	if err != nil {
		return err
	}
	l.Info("training sub-models", zap.String("data", dataPath), zap.Int("samples", len(samples)))

	snap, err := mlmodel.Train(samples, opts)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	for _, name := range []string{mlmodel.ModelForest, mlmodel.ModelKNN, mlmodel.ModelTree} {
		l.Info("model trained", zap.String("model", name), zap.Float64("r2", snap.Metrics[name]))
	}

	if err := mlmodel.Save(outDir, snap); err != nil {
		return err
	}
	l.Info("snapshot saved", zap.String("path", mlmodel.SnapshotPath(outDir)))
	return nil
}
