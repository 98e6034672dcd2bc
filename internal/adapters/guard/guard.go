// Package guard computes the fingerprints of the files that gate the whole result cache.
package guard

import (
	"crypto/sha256"
	"encoding/hex"
	"os"

	"go.trai.ch/depcache/internal/adapters/imports"
	"go.trai.ch/depcache/internal/core/domain"
	"go.trai.ch/depcache/internal/core/ports"
	"go.trai.ch/depcache/internal/engine/fingerprint"
	"go.trai.ch/zerr"
)

var _ ports.GuardFingerprinter = (*Fingerprinter)(nil)

// localImports follows only specifiers that point at files next to the config.
const localImports = `^\.+`

// Fingerprinter hashes the lock file and the build config file of a project.
type Fingerprinter struct {
	root string
}

// New creates a Fingerprinter for the project rooted at root.
func New(root string) *Fingerprinter {
	return &Fingerprinter{root: root}
}

// LockFingerprint returns the SHA-256 of the lock file.
func (f *Fingerprinter) LockFingerprint(path string) (string, error) {
	content, err := read(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:]), nil
}

// ConfigFingerprint returns the fingerprint of the build config file, including
// every local module it imports. A fresh engine is used for every call so the
// result never depends on an earlier state of the files.
func (f *Fingerprinter) ConfigFingerprint(path string) (string, error) {
	content, err := read(path)
	if err != nil {
		return "", err
	}

	resolver, err := imports.NewResolver(imports.Options{
		Root:     f.root,
		Include:  []string{localImports},
		Relative: true,
	})
	if err != nil {
		return "", err
	}

	fp, err := fingerprint.New(resolver).GetHash(path, string(content))
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrGuardUnreadable.Error()), "path", path)
	}
	return fp.Hash, nil
}

// read returns the content of a guard file. A missing or empty file is unreadable.
func read(path string) ([]byte, error) {
	//nolint:gosec // guard paths come from the project configuration
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrGuardUnreadable.Error()), "path", path)
	}
	if len(content) == 0 {
		return nil, zerr.With(domain.ErrGuardUnreadable, "path", path)
	}
	return content, nil
}
