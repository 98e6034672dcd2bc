package ports

// GuardFingerprinter computes the fingerprints of the files that gate the whole result cache.
//
//go:generate mockgen -source=guard.go -destination=mocks/mock_guard.go -package=mocks
type GuardFingerprinter interface {
	// LockFingerprint hashes the package manager lock file.
	LockFingerprint(path string) (string, error)

	// ConfigFingerprint hashes the build config file together with the local files it imports.
	ConfigFingerprint(path string) (string, error)
}
