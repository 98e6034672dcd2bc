package imports_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/depcache/internal/adapters/imports"
	"go.trai.ch/depcache/internal/core/domain"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/a.ts":         "import b from '@src/b'\nimport type { T } from '@src/types'\nimport React from 'react'\nimport pkg from '@src/package.json'\n",
		"src/b.ts":         "export const b = 1\n",
		"src/types.ts":     "export type T = string\n",
		"src/package.json": "{}",
		"src/Button.ts":    "export const styles = {}\n",
		"src/Button.tsx":   "export const Button = () => null\n",
		"src/lower.ts":     "export const lower = 1\n",
		"src/lower.tsx":    "export const Lower = () => null\n",
		"src/dir/index.ts": "export const dir = 1\n",
		"lib/x.ts":         "export const x = 1\n",
	})
	return root
}

func newResolver(t *testing.T, root string, mutate ...func(*imports.Options)) *imports.Resolver {
	t.Helper()
	opts := imports.Options{
		Root:    root,
		Include: []string{`^@src/`},
		Aliases: []domain.Alias{{Find: "@src", Replacement: "/src"}},
	}
	for _, m := range mutate {
		m(&opts)
	}
	r, err := imports.NewResolver(opts)
	require.NoError(t, err)
	return r
}

func targets(edges []domain.Edge) []string {
	out := make([]string, len(edges))
	for i, e := range edges {
		out[i] = e.FileID
	}
	return out
}

func TestResolver_Edges(t *testing.T) {
	root := newProject(t)
	r := newResolver(t, root)

	a := filepath.Join(root, "src", "a.ts")
	code, err := os.ReadFile(a)
	require.NoError(t, err)

	edges := r.Edges(a, string(code), nil)
	assert.Equal(t, []domain.Edge{
		{FileID: filepath.Join(root, "src", "b.ts"), Specifier: "@src/b"},
	}, edges)
}

func TestResolver_Suffixes(t *testing.T) {
	root := newProject(t)
	r := newResolver(t, root)

	code := "import { Button } from '@src/Button'\nimport { lower } from '@src/lower'\nimport { dir } from '@src/dir'\nimport b from '@src/b.ts'\n"
	edges := r.Edges(filepath.Join(root, "src", "a.ts"), code, nil)

	assert.Equal(t, []string{
		filepath.Join(root, "src", "Button.tsx"),
		filepath.Join(root, "src", "lower.ts"),
		filepath.Join(root, "src", "dir", "index.ts"),
		filepath.Join(root, "src", "b.ts"),
	}, targets(edges))
}

func TestResolver_Aliases(t *testing.T) {
	root := newProject(t)
	r := newResolver(t, root, func(o *imports.Options) {
		o.Include = []string{`^~/`, `^@lib/`}
		o.Aliases = []domain.Alias{
			{Pattern: `^~/(.*)$`, Replacement: "/src/$1"},
			{Find: "@lib", Replacement: filepath.ToSlash(filepath.Join(root, "lib"))},
		}
	})

	edges := r.Edges(filepath.Join(root, "src", "a.ts"), "import b from '~/b'\nimport { x } from '@lib/x'", nil)
	assert.Equal(t, []string{
		filepath.Join(root, "src", "b.ts"),
		filepath.Join(root, "lib", "x.ts"),
	}, targets(edges))
}

func TestResolver_IncludeExclude(t *testing.T) {
	root := newProject(t)
	importer := filepath.Join(root, "src", "a.ts")
	code := "import { x } from 'lib/x'\nimport b from '@src/b'"
	x := filepath.Join(root, "lib", "x.ts")
	b := filepath.Join(root, "src", "b.ts")

	tests := []struct {
		name    string
		exclude []string
		chain   []string
		want    []string
	}{
		{name: "root call follows only included specifiers", want: []string{b}},
		{name: "included parent relaxes children", chain: []string{"@src/a.ts"}, want: []string{x, b}},
		{name: "unrelated parent does not relax", chain: []string{"vendor/a"}, want: []string{b}},
		{name: "two ancestors relax", chain: []string{"vendor/a", "vendor/b"}, want: []string{x, b}},
		{name: "exclude wins", exclude: []string{`/b$`}, chain: []string{"@src/a.ts"}, want: []string{x}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newResolver(t, root, func(o *imports.Options) { o.Exclude = tt.exclude })
			assert.Equal(t, tt.want, targets(r.Edges(importer, code, tt.chain)))
		})
	}
}

func TestResolver_EmptyIncludeFollowsEverything(t *testing.T) {
	root := newProject(t)
	r := newResolver(t, root, func(o *imports.Options) { o.Include = nil })

	edges := r.Edges(filepath.Join(root, "src", "a.ts"), "import { x } from 'lib/x'", nil)
	assert.Equal(t, []string{filepath.Join(root, "lib", "x.ts")}, targets(edges))
}

func TestResolver_RelativeMode(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"one/util.ts": "export const one = 1\n",
		"two/util.ts": "export const two = 2\n",
		"shared.ts":   "export const shared = 0\n",
	})
	r := newResolver(t, root, func(o *imports.Options) {
		o.Relative = true
		o.Include = []string{`^\.`}
		o.Aliases = nil
	})

	code := "import { u } from './util'\nimport { s } from '../shared'\nimport pkg from 'vite'"
	assert.Equal(t, []string{
		filepath.Join(root, "one", "util.ts"),
		filepath.Join(root, "shared.ts"),
	}, targets(r.Edges(filepath.Join(root, "one", "entry.ts"), code, nil)))

	// The same specifier resolves per importer.
	assert.Equal(t, []string{
		filepath.Join(root, "two", "util.ts"),
		filepath.Join(root, "shared.ts"),
	}, targets(r.Edges(filepath.Join(root, "two", "entry.ts"), code, nil)))
}

func TestResolver_ReadModule(t *testing.T) {
	root := newProject(t)
	r := newResolver(t, root)
	writeFiles(t, root, map[string]string{"src/Widget.tsx": "export const v = 1\n"})

	importer := filepath.Join(root, "src", "a.ts")
	code := "import { Widget } from '@src/Widget'"
	edges := r.Edges(importer, code, nil)
	require.Len(t, edges, 1)

	mod, err := r.ReadModule(edges[0], importer)
	require.NoError(t, err)
	assert.Equal(t, "export const v = 1\n", mod.Code)

	t.Run("recovers after the module moved", func(t *testing.T) {
		require.NoError(t, os.Remove(filepath.Join(root, "src", "Widget.tsx")))
		writeFiles(t, root, map[string]string{"src/Widget/index.tsx": "export const v = 2\n"})

		// The memoized resolution still points at the old file.
		stale := r.Edges(importer, code, nil)
		require.Len(t, stale, 1)
		assert.Equal(t, filepath.Join(root, "src", "Widget.tsx"), stale[0].FileID)

		mod, err := r.ReadModule(stale[0], importer)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "src", "Widget", "index.tsx"), mod.FileID)
		assert.Equal(t, "export const v = 2\n", mod.Code)

		fresh := r.Edges(importer, code, nil)
		assert.Equal(t, []string{filepath.Join(root, "src", "Widget", "index.tsx")}, targets(fresh))
	})

	t.Run("fails when the module is gone", func(t *testing.T) {
		require.NoError(t, os.RemoveAll(filepath.Join(root, "src", "Widget")))

		_, err := r.ReadModule(domain.Edge{
			FileID:    filepath.Join(root, "src", "Widget", "index.tsx"),
			Specifier: "@src/Widget",
		}, importer)
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrModuleRead.Error())
	})
}

func TestResolver_ImportPath(t *testing.T) {
	root := newProject(t)
	r := newResolver(t, root)

	got, ok := r.ImportPath(filepath.Join(root, "src", "a.ts"))
	assert.True(t, ok)
	assert.Equal(t, "@src/a.ts", got)

	_, ok = r.ImportPath(filepath.Join(root, "lib", "x.ts"))
	assert.False(t, ok)

	_, ok = r.ImportPath(filepath.Join(filepath.Dir(root), "elsewhere.ts"))
	assert.False(t, ok)
}

func TestNewResolver_Errors(t *testing.T) {
	tests := []struct {
		name    string
		opts    imports.Options
		wantErr error
	}{
		{
			name:    "invalid include",
			opts:    imports.Options{Include: []string{"("}},
			wantErr: domain.ErrInvalidPattern,
		},
		{
			name:    "invalid alias pattern",
			opts:    imports.Options{Aliases: []domain.Alias{{Pattern: "[", Replacement: "/src"}}},
			wantErr: domain.ErrInvalidPattern,
		},
		{
			name:    "alias with find and pattern",
			opts:    imports.Options{Aliases: []domain.Alias{{Find: "@", Pattern: "^@", Replacement: "/src"}}},
			wantErr: domain.ErrInvalidAlias,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := imports.NewResolver(tt.opts)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}
