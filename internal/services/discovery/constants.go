package discovery

const (
	// labelPrefix is the common prefix for all media-dashboard backend labels
	labelPrefix = "com.mediadash.backend"

	// Common label suffixes
	labelTypeKey     = "type"     // Backend type (e.g., sonarr, plex)
	labelURLKey      = "url"      // Backend URL
	labelAPIKeyKey   = "apikey"   // Backend API key or token
	labelUserKey     = "username" // Optional username (transmission)
	labelPasswordKey = "password" // Optional password (transmission)
	labelEnabledKey  = "enabled"  // Optional backend enabled state
)

// GetLabelKey returns the full label key for a given suffix
func GetLabelKey(suffix string) string {
	return labelPrefix + "." + suffix
}
