package pipeline

import (
	"housingml/pkg/dataprep"
	"housingml/pkg/stats"
)

// HousingOptions tune the housing preprocessing.
type HousingOptions struct {
	Clusters       int
	Gamma          float64
	Seed           int64
	WeightByTarget bool // weight geo clusters by the target passed to Fit
}

// DefaultHousingOptions are the tutorial's settings.
func DefaultHousingOptions() HousingOptions {
	return HousingOptions{Clusters: 10, Gamma: 1, Seed: 42}
}

func numericDefaults() *Pipeline {
	return NewPipeline(dataprep.NewSimpleImputer(dataprep.Median), stats.NewStandardScaler())
}

func ratioPipeline() *Pipeline {
	return NewPipeline(
		dataprep.NewSimpleImputer(dataprep.Median),
		dataprep.RatioFeature{},
		stats.NewStandardScaler(),
	)
}

func logPipeline() *Pipeline {
	return NewPipeline(
		dataprep.NewSimpleImputer(dataprep.Median),
		dataprep.LogTransformer{},
		stats.NewStandardScaler(),
	)
}

// NewHousingPreprocessing builds the full preprocessing of the housing table:
//
//	bedrooms, rooms_per_house, people_per_house  ratio -> standardize
//	heavy-tailed counts and median_income        log -> standardize
//	latitude, longitude                          cluster similarity
//	ocean_proximity                              most frequent -> one-hot
//	anything else numeric                        median -> standardize
//
// Missing numeric values are filled with training medians in every branch.
func NewHousingPreprocessing(opts HousingOptions) *ColumnTransformer {
	geo := dataprep.NewClusterSimilarity(opts.Clusters, opts.Gamma, opts.Seed)
	geo.WeightByTarget = opts.WeightByTarget
	return &ColumnTransformer{
		Branches: []Branch{
			{Name: "bedrooms", Columns: []string{"total_bedrooms", "total_rooms"}, Numeric: ratioPipeline()},
			{Name: "rooms_per_house", Columns: []string{"total_rooms", "households"}, Numeric: ratioPipeline()},
			{Name: "people_per_house", Columns: []string{"population", "households"}, Numeric: ratioPipeline()},
			{Name: "log", Columns: []string{"total_bedrooms", "total_rooms", "population", "households", "median_income"}, Numeric: logPipeline()},
			{Name: "geo", Columns: []string{"latitude", "longitude"}, Numeric: NewPipeline(geo)},
			{Name: "cat", Columns: []string{"ocean_proximity"}, Categorical: &CategoricalPipeline{
				Steps:   []StringTransformer{dataprep.NewCategoricalImputer(dataprep.MostFrequent)},
				Encoder: &dataprep.OneHotEncoder{IgnoreUnknown: true},
			}},
		},
		Remainder: numericDefaults(),
	}
}
