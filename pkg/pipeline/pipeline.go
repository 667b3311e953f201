package pipeline

// Transformer is a fit-once, apply-many stage over numeric rows.
// Fit may use y (e.g. as sample weights); Transform must only use what Fit learned.
type Transformer interface {
	Fit(X [][]float64, y []float64) error
	Transform(X [][]float64) ([][]float64, error)
	FeatureNames(in []string) []string
}

// Pipeline chains multiple transformers.
type Pipeline struct {
	steps []Transformer
}

func NewPipeline(steps ...Transformer) *Pipeline {
	return &Pipeline{steps: steps}
}

// Fit fits each step on the output of the previous one.
func (p *Pipeline) Fit(X [][]float64, y []float64) error {
	_, err := p.FitTransform(X, y)
	return err
}

// FitTransform fits every step and returns the transformed training rows.
func (p *Pipeline) FitTransform(X [][]float64, y []float64) ([][]float64, error) {
	var err error
	for _, step := range p.steps {
		if err = step.Fit(X, y); err != nil {
			return nil, err
		}
		if X, err = step.Transform(X); err != nil {
			return nil, err
		}
	}
	return X, nil
}

func (p *Pipeline) Transform(X [][]float64) ([][]float64, error) {
	var err error
	for _, step := range p.steps {
		if X, err = step.Transform(X); err != nil {
			return nil, err
		}
	}
	return X, nil
}

func (p *Pipeline) FeatureNames(in []string) []string {
	for _, step := range p.steps {
		in = step.FeatureNames(in)
	}
	return in
}

// StringTransformer is a fit-once stage over categorical rows, e.g. an imputer.
type StringTransformer interface {
	Fit(X [][]string) error
	Transform(X [][]string) ([][]string, error)
}

// Encoder turns categorical rows into numeric features.
type Encoder interface {
	Fit(X [][]string) error
	Transform(X [][]string) ([][]float64, error)
	FeatureNames(in []string) []string
}

// CategoricalPipeline runs string stages and ends with an Encoder.
type CategoricalPipeline struct {
	Steps   []StringTransformer
	Encoder Encoder
}

func (c *CategoricalPipeline) FitTransform(X [][]string) ([][]float64, error) {
	var err error
	for _, step := range c.Steps {
		if err = step.Fit(X); err != nil {
			return nil, err
		}
		if X, err = step.Transform(X); err != nil {
			return nil, err
		}
	}
	if err := c.Encoder.Fit(X); err != nil {
		return nil, err
	}
	return c.Encoder.Transform(X)
}

func (c *CategoricalPipeline) Transform(X [][]string) ([][]float64, error) {
	var err error
	for _, step := range c.Steps {
		if X, err = step.Transform(X); err != nil {
			return nil, err
		}
	}
	return c.Encoder.Transform(X)
}

func (c *CategoricalPipeline) FeatureNames(in []string) []string {
	return c.Encoder.FeatureNames(in)
}
