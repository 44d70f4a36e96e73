package manifest

import "github.com/libyal/libfwevt-sub000/internal/options"

// parseConfig holds the options Parse accepts.
type parseConfig struct {
	trackGUIDCollisions bool
}

func defaultParseConfig() *parseConfig {
	return &parseConfig{trackGUIDCollisions: true}
}

// ParseOption configures a call to Parse.
type ParseOption = options.Option[*parseConfig]

// WithGUIDCollisionTracking enables or disables recording of duplicate
// provider GUIDs encountered while parsing. It is enabled by default;
// disabling it skips the hashing work entirely for callers who don't need
// it (e.g. when parsing many small manifests in a hot loop).
func WithGUIDCollisionTracking(enabled bool) ParseOption {
	return options.NoError(func(c *parseConfig) {
		c.trackGUIDCollisions = enabled
	})
}
