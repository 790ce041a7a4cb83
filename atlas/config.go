package atlas

import "github.com/gogpu/gputypes"

// Default configuration values.
const (
	// DefaultMaxPageSize is the default maximum page dimension (2048x2048).
	DefaultMaxPageSize = 2048

	// MinPageSize is the minimum page dimension. New pages are never
	// created smaller than this, so consecutive small textures share a
	// page instead of each spawning its own.
	MinPageSize = 256

	// DefaultPadding is the spacing between packed textures.
	DefaultPadding = 2

	// DefaultMemoryLimit is the default memory budget in bytes (256 MiB).
	DefaultMemoryLimit = 256 << 20
)

// Algorithm selects the bin-packing strategy used to place textures
// within a page.
type Algorithm string

// Supported packing algorithms.
const (
	// AlgorithmMaxRects tracks maximal free rectangles and picks the
	// best short-side fit. Best utilization, supports reuse of freed
	// regions. This is the default.
	AlgorithmMaxRects Algorithm = "maxrects"

	// AlgorithmShelf packs left-to-right into horizontal shelves.
	// Fast and simple; freed regions are not reused until a repack.
	AlgorithmShelf Algorithm = "shelf"

	// AlgorithmGuillotine splits free space with axis-aligned cuts.
	AlgorithmGuillotine Algorithm = "guillotine"
)

// Config holds allocator configuration.
type Config struct {
	// MaxWidth is the maximum page width in pixels. Default: 2048.
	MaxWidth int

	// MaxHeight is the maximum page height in pixels. Default: 2048.
	MaxHeight int

	// Padding is the spacing between packed textures to prevent
	// sampling bleed. Default: 2.
	Padding int

	// PowerOfTwo rounds new page dimensions up to the next power of
	// two. Default: false.
	PowerOfTwo bool

	// Algorithm selects the packing strategy. Default: AlgorithmMaxRects.
	Algorithm Algorithm

	// MemoryLimitBytes caps the total pixel memory held by entries.
	// When an allocation would exceed the limit, the oldest ~10% of
	// entries are evicted first. Zero means DefaultMemoryLimit.
	MemoryLimitBytes uint64

	// Format is the pixel format of page surfaces.
	// Default: gputypes.TextureFormatRGBA8Unorm.
	Format gputypes.TextureFormat
}

// DefaultConfig returns the default allocator configuration.
func DefaultConfig() Config {
	return Config{
		MaxWidth:         DefaultMaxPageSize,
		MaxHeight:        DefaultMaxPageSize,
		Padding:          DefaultPadding,
		PowerOfTwo:       false,
		Algorithm:        AlgorithmMaxRects,
		MemoryLimitBytes: DefaultMemoryLimit,
		Format:           gputypes.TextureFormatRGBA8Unorm,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MaxWidth < MinPageSize {
		return &ConfigError{Field: "MaxWidth", Reason: "must be at least 256"}
	}
	if c.MaxHeight < MinPageSize {
		return &ConfigError{Field: "MaxHeight", Reason: "must be at least 256"}
	}
	if c.Padding < 0 {
		return &ConfigError{Field: "Padding", Reason: "must be non-negative"}
	}
	if c.Padding >= MinPageSize/2 {
		return &ConfigError{Field: "Padding", Reason: "must be less than half MinPageSize"}
	}
	switch c.Algorithm {
	case AlgorithmMaxRects, AlgorithmShelf, AlgorithmGuillotine:
	default:
		return &ConfigError{Field: "Algorithm", Reason: "must be maxrects, shelf or guillotine"}
	}
	return nil
}

// withDefaults returns a copy of c with zero values replaced by defaults.
func (c Config) withDefaults() Config {
	if c.MaxWidth == 0 {
		c.MaxWidth = DefaultMaxPageSize
	}
	if c.MaxHeight == 0 {
		c.MaxHeight = DefaultMaxPageSize
	}
	if c.Algorithm == "" {
		c.Algorithm = AlgorithmMaxRects
	}
	if c.MemoryLimitBytes == 0 {
		c.MemoryLimitBytes = DefaultMemoryLimit
	}
	var zeroFormat gputypes.TextureFormat
	if c.Format == zeroFormat {
		c.Format = gputypes.TextureFormatRGBA8Unorm
	}
	return c
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "atlas: invalid config." + e.Field + ": " + e.Reason
}
