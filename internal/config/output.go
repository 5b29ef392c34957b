package config

// Output formats of the batch CLI.
const (
	// OutputJSONLines writes one JSON object per board.
	OutputJSONLines = "jsonl"
	// OutputJSON writes a single JSON document holding every board.
	OutputJSON = "json"
	// OutputText writes a readable listing.
	OutputText = "text"
)

// Output holds settings related to output formatting.
type Output struct {
	// Format is one of OutputJSONLines, OutputJSON or OutputText.
	Format string `yaml:"format"`

	// MaxLineLength wraps text output. 0 uses the default of 80.
	MaxLineLength int `yaml:"max_line_length" split_words:"true"`
}

// NewOutput creates an Output with default values.
func NewOutput() Output {
	return Output{
		Format:        OutputJSONLines,
		MaxLineLength: 80,
	}
}

func (o Output) validate() error {
	switch o.Format {
	case OutputJSONLines, OutputJSON, OutputText:
		return nil
	}
	return errorf("unknown output format %q", o.Format)
}
