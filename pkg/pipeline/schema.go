package pipeline

// Schema describes the columns produced by a ColumnTransformer.
type Schema struct {
	FeatureNames []string
	Sources      []string // branch that produced each feature
}

// Index returns the position of a feature name, or -1.
func (s Schema) Index(name string) int {
	for i, n := range s.FeatureNames {
		if n == name {
			return i
		}
	}
	return -1
}
