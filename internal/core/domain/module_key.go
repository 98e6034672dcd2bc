package domain

import "unique"

// ModuleKey is an interned module id. Ids repeat across every dependency set
// and graph node, so they are stored once and compared by handle.
type ModuleKey struct {
	h unique.Handle[string]
}

// KeyOf interns fileID.
func KeyOf(fileID string) ModuleKey {
	return ModuleKey{h: unique.Make(fileID)}
}

// String returns the module id.
func (k ModuleKey) String() string {
	return k.h.Value()
}
