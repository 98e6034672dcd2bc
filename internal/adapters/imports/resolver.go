package imports

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.trai.ch/depcache/internal/core/domain"
	"go.trai.ch/depcache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.EdgeResolver = (*Resolver)(nil)

// sourceExtensions are extensions of specifiers that already name a file.
var sourceExtensions = map[string]struct{}{
	".ts": {}, ".tsx": {}, ".mts": {}, ".cts": {},
	".js": {}, ".jsx": {}, ".mjs": {}, ".cjs": {},
}

// Options configures a Resolver.
type Options struct {
	// Root is the project root that aliased specifiers are joined onto.
	Root string
	// Include and Exclude are regular expressions matched against specifiers.
	// An empty Include matches every specifier.
	Include []string
	Exclude []string
	// Aliases are applied in order before resolution.
	Aliases []domain.Alias
	// Relative resolves specifiers against the importing module's directory.
	Relative bool
	// Suffixes are probed in order after the rewritten specifier.
	Suffixes []string
	// ComponentSuffixes move to the front for specifiers whose base name is capitalized.
	ComponentSuffixes []string
}

type alias struct {
	find        string
	pattern     *regexp.Regexp
	replacement string
}

// Resolver implements ports.EdgeResolver for TypeScript sources on the local file system.
// It is not safe for concurrent use.
type Resolver struct {
	root           string
	include        []*regexp.Regexp
	exclude        []*regexp.Regexp
	aliases        []alias
	relative       bool
	suffixes       []string
	componentFirst []string

	// memo maps raw specifiers to resolved module ids. Unused in relative mode.
	memo map[string]string
}

// NewResolver compiles the patterns of opts and returns a Resolver.
func NewResolver(opts Options) (*Resolver, error) {
	include, err := compileAll(opts.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compileAll(opts.Exclude)
	if err != nil {
		return nil, err
	}

	aliases := make([]alias, 0, len(opts.Aliases))
	for _, a := range opts.Aliases {
		switch {
		case a.Find != "" && a.Pattern == "":
			aliases = append(aliases, alias{find: a.Find, replacement: a.Replacement})
		case a.Pattern != "" && a.Find == "":
			re, err := regexp.Compile(a.Pattern)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidPattern.Error()), "pattern", a.Pattern)
			}
			aliases = append(aliases, alias{pattern: re, replacement: a.Replacement})
		default:
			return nil, zerr.With(domain.ErrInvalidAlias, "replacement", a.Replacement)
		}
	}

	suffixes := opts.Suffixes
	if len(suffixes) == 0 {
		suffixes = domain.DefaultSuffixes()
	}
	components := opts.ComponentSuffixes
	if components == nil {
		components = domain.DefaultComponentSuffixes()
	}

	return &Resolver{
		root:           filepath.Clean(opts.Root),
		include:        include,
		exclude:        exclude,
		aliases:        aliases,
		relative:       opts.Relative,
		suffixes:       suffixes,
		componentFirst: componentOrder(suffixes, components),
		memo:           make(map[string]string),
	}, nil
}

// Edges returns the followed and resolvable imports of a module.
func (r *Resolver) Edges(fileID, code string, chain []string) []domain.Edge {
	specs := ExtractImports(code)
	edges := make([]domain.Edge, 0, len(specs))
	for _, spec := range specs {
		if !r.follows(spec, chain) {
			continue
		}
		target, ok := r.resolve(spec, fileID)
		if !ok {
			continue
		}
		edges = append(edges, domain.Edge{FileID: target, Specifier: spec})
	}
	return edges
}

// ReadModule reads the target of edge. On failure every memoized specifier pointing at the
// missing file is evicted and the edge's specifier is resolved and read once more.
func (r *Resolver) ReadModule(edge domain.Edge, importer string) (domain.Module, error) {
	//nolint:gosec // module ids come from resolution under the project root
	code, err := os.ReadFile(edge.FileID)
	if err == nil {
		return domain.Module{FileID: edge.FileID, Code: string(code)}, nil
	}

	for spec, target := range r.memo {
		if target == edge.FileID {
			delete(r.memo, spec)
		}
	}

	if edge.Specifier != "" {
		if target, ok := r.resolve(edge.Specifier, importer); ok {
			//nolint:gosec // see above
			if retried, retryErr := os.ReadFile(target); retryErr == nil {
				return domain.Module{FileID: target, Code: string(retried)}, nil
			}
		}
	}

	return domain.Module{}, zerr.With(
		zerr.With(zerr.Wrap(err, domain.ErrModuleRead.Error()), "file_id", edge.FileID),
		"importer", importer,
	)
}

// ImportPath maps a module id under the root back to the specifier a literal alias
// would resolve to it, e.g. /root/src/a.ts to @src/a.ts for the alias @src -> /src.
func (r *Resolver) ImportPath(fileID string) (string, bool) {
	rel, err := filepath.Rel(r.root, fileID)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	p := "/" + filepath.ToSlash(rel)
	for _, a := range r.aliases {
		if a.pattern != nil || a.replacement == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(p, a.replacement); ok {
			return a.find + rest, true
		}
	}
	return "", false
}

// follows applies the include and exclude predicates. Inside a branch whose chain
// already reached tracked territory, every specifier counts as included.
func (r *Resolver) follows(spec string, chain []string) bool {
	if strings.HasSuffix(spec, ".json") {
		return false
	}
	included := len(chain) >= 2 ||
		(len(chain) == 1 && r.included(chain[0])) ||
		r.included(spec)
	return included && !matchAny(r.exclude, spec)
}

func (r *Resolver) included(spec string) bool {
	return len(r.include) == 0 || matchAny(r.include, spec)
}

func (r *Resolver) resolve(spec, importer string) (string, bool) {
	if r.relative {
		base := spec
		if !filepath.IsAbs(base) {
			base = filepath.Join(filepath.Dir(importer), filepath.FromSlash(spec))
		}
		return r.probe(base)
	}

	if target, ok := r.memo[spec]; ok {
		return target, true
	}
	target, ok := r.probe(r.rewrite(spec))
	if ok {
		r.memo[spec] = target
	}
	return target, ok
}

// rewrite applies the aliases in order and anchors the result at the root.
func (r *Resolver) rewrite(spec string) string {
	p := spec
	for _, a := range r.aliases {
		if a.pattern != nil {
			p = a.pattern.ReplaceAllString(p, a.replacement)
			continue
		}
		if rest, ok := strings.CutPrefix(p, a.find); ok {
			p = a.replacement + rest
		}
	}

	native := filepath.FromSlash(p)
	if strings.HasPrefix(native, r.root+string(filepath.Separator)) {
		return filepath.Clean(native)
	}
	return filepath.Join(r.root, native)
}

// probe returns the first candidate path that is a regular file.
func (r *Resolver) probe(base string) (string, bool) {
	if _, known := sourceExtensions[filepath.Ext(base)]; known && isFile(base) {
		return base, true
	}

	candidates := r.suffixes
	if first, _ := utf8.DecodeRuneInString(filepath.Base(base)); unicode.IsUpper(first) {
		candidates = r.componentFirst
	}
	for _, suffix := range candidates {
		if p := base + filepath.FromSlash(suffix); isFile(p) {
			return p, true
		}
	}
	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// componentOrder moves the component suffixes ahead of the others, keeping file
// suffixes ahead of directory index suffixes.
func componentOrder(suffixes, components []string) []string {
	rank := func(s string) int {
		r := 0
		if strings.HasPrefix(s, "/") {
			r += 2
		}
		if !slices.Contains(components, s) {
			r++
		}
		return r
	}
	ordered := slices.Clone(suffixes)
	slices.SortStableFunc(ordered, func(a, b string) int {
		return rank(a) - rank(b)
	})
	return ordered
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidPattern.Error()), "pattern", p)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
