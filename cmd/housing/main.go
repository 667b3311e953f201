package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"maps"
	"os/signal"
	"slices"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/google/uuid"

	"housingml/pkg/config"
	"housingml/pkg/data"
	"housingml/pkg/dataprep"
	"housingml/pkg/explore"
	"housingml/pkg/model"
	"housingml/pkg/pipeline"
	"housingml/pkg/split"
	"housingml/pkg/stats"
)

//
// ---------------------- CLI FLAGS ----------------------
//
// --config     : YAML file overlaid on the built-in defaults
// --figs       : Directory for the exploration figures (overrides config)
// --skip-plots : Do not render figures
// --seed       : Seed for every random split (overrides config)
// --debug      : Dump the effective config to stderr
//
// Example:
//   go run ./cmd/housing --figs images --seed 42
//
// -------------------------------------------------------
//

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func main() {
	configPath := flag.String("config", "", "YAML config file")
	figs := flag.String("figs", "", "Directory for figures")
	skipPlots := flag.Bool("skip-plots", false, "Do not render figures")
	seed := flag.Int64("seed", 42, "Seed for random splits")
	debug := flag.Bool("debug", false, "Dump the effective config")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)).With("run", uuid.NewString()))

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fatal("load config", err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "figs":
			cfg.Figures = *figs
		case "seed":
			cfg.Split.Seed = *seed
		}
	})
	if *debug {
		spew.Fdump(os.Stderr, cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, cfg, *skipPlots); err != nil {
		fatal("housing", err)
	}
}

func run(ctx context.Context, cfg *config.Config, skipPlots bool) error {
	start := time.Now()
	housing, err := data.LoadHousing(ctx, cfg.Fetcher(), cfg.CSVPath())
	if err != nil {
		return fmt.Errorf("load housing: %w", err)
	}
	slog.Info("loaded", "rows", housing.Len(), "columns", len(housing.Names()), "took", time.Since(start))

	if err := explore.Report(os.Stdout, housing, 5); err != nil {
		return err
	}

	if err := dataprep.AddIncomeCategory(housing, cfg.Income.Edges); err != nil {
		return err
	}
	if !skipPlots {
		paths, err := explore.RenderAll(ctx, housing, cfg.Figures, "income_cat")
		if err != nil {
			return fmt.Errorf("render figures: %w", err)
		}
		for _, p := range paths {
			slog.Info("saved figure", "path", p)
		}
	}

	train, test, err := stratifiedSplit(cfg, housing)
	if err != nil {
		return err
	}
	if err := hashSplit(cfg, housing); err != nil {
		return err
	}

	// income_cat only served the split.
	train = train.Drop("income_cat")
	test = test.Drop("income_cat")

	if err := correlations(cfg, train); err != nil {
		return err
	}
	return fitModels(cfg, train, test)
}

// stratifiedSplit draws NSplits folds, keeps the first and compares the test
// proportions with a purely random split.
func stratifiedSplit(cfg *config.Config, housing *data.Table) (train, test *data.Table, err error) {
	labels, err := housing.Categorical(cfg.Split.Stratify)
	if err != nil {
		return nil, nil, err
	}
	sss := &split.StratifiedShuffleSplit{NSplits: cfg.Split.NSplits, TestSize: cfg.Split.TestRatio, Seed: cfg.Split.Seed}
	folds, err := sss.Split(labels)
	if err != nil {
		return nil, nil, fmt.Errorf("stratified split: %w", err)
	}
	train, test = split.Apply(housing, folds[0])
	explore.Section(os.Stdout, "stratified split")
	fmt.Printf("%d folds, using fold 0: %d train / %d test\n", len(folds), train.Len(), test.Len())

	random, err := split.ShuffleSplit(housing.Len(), cfg.Split.TestRatio, cfg.Split.Seed)
	if err != nil {
		return nil, nil, err
	}
	pick := func(idx []int) []string {
		out := make([]string, len(idx))
		for i, j := range idx {
			out[i] = labels[j]
		}
		return out
	}
	strat := split.Proportions(pick(folds[0].Test))
	keys := slices.Collect(maps.Keys(strat))
	explore.SortLabels(keys)
	fmt.Printf("\n%s proportions in the stratified test set\n", cfg.Split.Stratify)
	explore.PrintProportions(os.Stdout, keys, strat)

	fmt.Println()
	err = explore.PrintSplitComparison(os.Stdout, cfg.Split.Stratify,
		split.Proportions(labels), strat, split.Proportions(pick(random.Test)))
	return train, test, err
}

// hashSplit shows the identifier based split that stays stable when the
// dataset is refreshed.
func hashSplit(cfg *config.Config, housing *data.Table) error {
	withID := housing.Drop()
	if err := split.AddCoordinateID(withID, cfg.Split.IDColumn); err != nil {
		return err
	}
	ids, err := split.IDs(withID, cfg.Split.IDColumn)
	if err != nil {
		return err
	}
	if dups := split.DuplicateIDs(ids); len(dups) > 0 {
		slog.Warn("coordinate ids are not unique", "duplicates", len(dups), "first", dups[0])
		color.Yellow("warning: %d coordinate ids are shared by several districts", len(dups))
	}
	train, test, err := split.HashSplit(withID, cfg.Split.TestRatio, cfg.Split.IDColumn)
	if err != nil {
		return fmt.Errorf("hash split: %w", err)
	}
	explore.Section(os.Stdout, "hash split")
	fmt.Printf("%d train / %d test (%.2f%%)\n", train.Len(), test.Len(), 100*float64(test.Len())/float64(withID.Len()))
	return nil
}

func correlations(cfg *config.Config, train *data.Table) error {
	work := train.Drop()
	if len(cfg.Features) == 0 {
		if err := dataprep.AddHousingRatios(work); err != nil {
			return err
		}
	} else {
		names, exprs := cfg.FeatureExprs()
		if err := dataprep.ApplyExprs(work, names, exprs); err != nil {
			return fmt.Errorf("derived features: %w", err)
		}
	}
	corrs, err := stats.CorrelationWith(work, cfg.Target)
	if err != nil {
		return err
	}
	explore.Section(os.Stdout, "correlation with "+cfg.Target)
	explore.PrintCorrelations(os.Stdout, corrs)
	return nil
}

func fitModels(cfg *config.Config, train, test *data.Table) error {
	yTrain, err := train.Numeric(cfg.Target)
	if err != nil {
		return err
	}
	yTest, err := test.Numeric(cfg.Target)
	if err != nil {
		return err
	}

	ct := pipeline.NewHousingPreprocessing(pipeline.HousingOptions{
		Clusters:       cfg.Similarity.Clusters,
		Gamma:          cfg.Similarity.Gamma,
		Seed:           cfg.Split.Seed,
		WeightByTarget: cfg.Similarity.WeightByTarget,
	})
	start := time.Now()
	XTrain, err := ct.FitTransform(train.Drop(cfg.Target), yTrain)
	if err != nil {
		return fmt.Errorf("preprocessing: %w", err)
	}
	XTest, err := ct.Transform(test.Drop(cfg.Target))
	if err != nil {
		return fmt.Errorf("preprocessing: %w", err)
	}
	slog.Info("preprocessed", "train", len(XTrain), "test", len(XTest), "features", len(ct.Schema().FeatureNames), "took", time.Since(start))

	explore.Section(os.Stdout, "prepared features")
	for i, name := range ct.Schema().FeatureNames {
		fmt.Printf("%2d  %s\n", i, name)
	}

	explore.Section(os.Stdout, "models")
	if err := incomeModels(cfg, train, test, yTrain, yTest); err != nil {
		return err
	}

	full := model.NewTransformedTargetRegressor(model.NewLinearRegression())
	if err := full.Fit(XTrain, yTrain); err != nil {
		return fmt.Errorf("full regression: %w", err)
	}
	report("all prepared features", yTest, full.Predict(XTest))
	return nil
}

// incomeModels fits the one-feature toy model by least squares and by SGD,
// and cross-validates the least squares fit on the training set.
func incomeModels(cfg *config.Config, train, test *data.Table, yTrain, yTest []float64) error {
	incomeTrain, err := train.NumericMatrix("median_income")
	if err != nil {
		return err
	}
	incomeTest, err := test.NumericMatrix("median_income")
	if err != nil {
		return err
	}
	ols := func() model.Model { return model.NewTransformedTargetRegressor(model.NewLinearRegression()) }

	simple := ols()
	if err := simple.Fit(incomeTrain, yTrain); err != nil {
		return fmt.Errorf("income regression: %w", err)
	}
	report("median_income only", yTest, simple.Predict(incomeTest))

	// gradient descent wants both the feature and the target on a unit scale
	scaler := stats.NewStandardScaler()
	if err := scaler.Fit(incomeTrain, nil); err != nil {
		return err
	}
	scaledTrain, err := scaler.Transform(incomeTrain)
	if err != nil {
		return err
	}
	scaledTest, err := scaler.Transform(incomeTest)
	if err != nil {
		return err
	}
	sgd := model.NewSGDRegressor(0.01, 20, cfg.Split.Seed)
	sgd.BatchSize = 256
	tsgd := model.NewTransformedTargetRegressor(sgd)
	if err := tsgd.Fit(scaledTrain, yTrain); err != nil {
		return fmt.Errorf("income sgd: %w", err)
	}
	report("median_income only, SGD", yTest, tsgd.Predict(scaledTest))

	folds, err := split.KFold(len(incomeTrain), max(cfg.Split.NSplits, 2), cfg.Split.Seed)
	if err != nil {
		return err
	}
	scores, err := model.CrossValidate(ols, incomeTrain, yTrain, folds, model.RMSE)
	if err != nil {
		return fmt.Errorf("cross validation: %w", err)
	}
	fmt.Printf("%-24s RMSE %.2f ± %.2f over %d folds\n", "median_income only, CV", stats.Mean(scores), stats.Std(scores), len(folds))
	return nil
}

func report(name string, y, pred []float64) {
	if len(pred) != len(y) {
		slog.Warn("no predictions to score", "model", name, "predictions", len(pred), "targets", len(y))
		return
	}
	fmt.Printf("%-24s RMSE %.2f  MAE %.2f  R2 %.4f\n", name, model.RMSE(y, pred), model.MAE(y, pred), model.R2(y, pred))
}
