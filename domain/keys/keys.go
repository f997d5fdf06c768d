package keys

import (
	"strings"
)

const (
	// PfxHealthCheck is used for prefixing health check redis key
	PfxHealthCheck = "healthcheck"
	// PfxOracle is used for prefixing cached oracle answers
	PfxOracle = "oracle"
	// PfxListing is used for per-listing lock keys
	PfxListing = "listing"
	// PfxAuction is used for per-auction lock keys
	PfxAuction = "auction"
	// PfxBundle is used for per-bundle lock keys
	PfxBundle = "bundle"
)

// CustomKey is used to join the customized key by componets with specified delimiter
func CustomKey(delimiter string, components ...string) string {
	return strings.Join(components, delimiter)
}

// RedisKey is used to join the redis key by componets
func RedisKey(components ...string) string {
	return CustomKey(":", components...)
}

// GetPrefix extracts the prefix of a key.
func GetPrefix(key string) string {
	s := strings.Split(key, ":")
	if len(s) > 2 {
		return strings.Join([]string{s[0], s[1]}, ":")
	} else if len(s) > 1 {
		return s[0]
	}
	return ""
}
