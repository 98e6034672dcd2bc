package domain

import "path/filepath"

const (
	// DepcacheDirName is the name of the internal workspace directory.
	DepcacheDirName = ".depcache"

	// CacheFileName is the name of the persisted result cache.
	CacheFileName = "cache.json"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "depcache.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultCachePath returns the default path of the result cache relative to the root.
// It joins .depcache and cache.json.
func DefaultCachePath() string {
	return filepath.Join(DepcacheDirName, CacheFileName)
}
