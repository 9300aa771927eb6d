package pagination

import "fmt"

// Validate validates the configuration.
// Returns an error if:
//   - page size is less than 1
//   - page size is greater than MaxPageSize
func (c Config) Validate() error {
	if c.PageSize < 1 {
		return fmt.Errorf("page size must be a positive integer")
	}
	if c.MaxPageSize > 0 && c.PageSize > c.MaxPageSize {
		return fmt.Errorf("page size must be between 1 and %d", c.MaxPageSize)
	}
	return nil
}

// WithDefaults replaces unusable values with defaults.
//
// Rules:
//   - If DefaultPage <= 0, set to 1
//   - If MaxPageSize <= 0, set to the default maximum
//   - If PageSize <= 0, set to the default page size
//   - If PageSize > MaxPageSize, cap to MaxPageSize
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.DefaultPage <= 0 {
		c.DefaultPage = def.DefaultPage
	}
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = def.MaxPageSize
	}
	if c.PageSize <= 0 {
		c.PageSize = def.PageSize
	}
	if c.PageSize > c.MaxPageSize {
		c.PageSize = c.MaxPageSize
	}
	return c
}
