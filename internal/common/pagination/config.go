// Package pagination provides the page-window arithmetic used by the post
// listing: page counts, clamping, slicing and the metadata handed to the
// render layer.
package pagination

// Config holds pagination configuration settings.
// The listing section of the site config supplies PageSize.
type Config struct {
	DefaultPage int // Page shown when a view mounts (always 1 for listings)
	PageSize    int // Posts per page (5 on the marketing site)
	MaxPageSize int // Upper bound accepted from configuration
}

// DefaultConfig returns the default pagination configuration.
// Default values: page=1, size=5, max=50
func DefaultConfig() Config {
	return Config{
		DefaultPage: 1,
		PageSize:    5,
		MaxPageSize: 50,
	}
}
