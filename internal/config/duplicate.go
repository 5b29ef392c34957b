package config

// Cache holds settings for reusing hints of repeated boards.
type Cache struct {
	// Disabled regenerates hints for every board.
	Disabled bool `yaml:"disabled"`

	// Capacity caps the number of distinct boards remembered.
	// 0 means unlimited.
	Capacity int `yaml:"capacity"`
}

func (c Cache) validate() error {
	if c.Capacity < 0 {
		return errorf("cache capacity %d", c.Capacity)
	}
	return nil
}
