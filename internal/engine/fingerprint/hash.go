package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"

	"go.trai.ch/depcache/internal/core/domain"
)

// separator joins the parts of a fingerprint and of each hashed dependency record.
const separator = "||"

// Hash computes the fingerprint of a module from its content and its flattened
// dependencies. The dependencies are hashed in FileID order, so the result does
// not depend on the order in which the graph was walked.
func Hash(code string, deps []domain.Dependency) string {
	self := digest(code)
	if len(deps) == 0 {
		return self + separator
	}

	sorted := slices.Clone(deps)
	domain.SortDependencies(sorted)

	var b strings.Builder
	b.Grow(len(sorted) * sha256.Size * 2)
	for _, dep := range sorted {
		b.WriteString(digest(dep.FileID + separator + dep.Code))
	}
	return self + separator + digest(b.String())
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
