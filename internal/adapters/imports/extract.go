// Package imports discovers and resolves the import edges of TypeScript modules.
package imports

import (
	"regexp"
	"strings"
)

// importStatement matches `import <clause> from '<spec>'`, `export <clause> from '<spec>'`
// and bare side-effect imports `import '<spec>'`.
// Group 1 is the keyword, group 2 the clause and group 3 the specifier.
var importStatement = regexp.MustCompile(
	`\b(?:(import|export)\s+([\w$*{}\s,]+?)\s*from\s*|import\s*)['"]([^'"\n]+)['"]`,
)

// keyword finds statement keywords swallowed by a clause that started at an
// earlier `export default X` or similar statement.
var keyword = regexp.MustCompile(`\b(?:import|export)\b`)

// ExtractImports returns the import specifiers of code in order of appearance.
// Imports inside comments and imports that only bring in type-level names are skipped.
func ExtractImports(code string) []string {
	matches := importStatement.FindAllStringSubmatch(stripComments(code), -1)
	specs := make([]string, 0, len(matches))
	for _, m := range matches {
		clause := m[2]
		if locs := keyword.FindAllStringIndex(clause, -1); len(locs) > 0 {
			clause = clause[locs[len(locs)-1][1]:]
		}
		if m[1] != "" && isTypeOnly(clause) {
			continue
		}
		specs = append(specs, m[3])
	}
	return specs
}

// isTypeOnly reports whether an import or export clause binds type-level names only.
func isTypeOnly(clause string) bool {
	clause = strings.TrimSpace(clause)

	// `import type X`, `import type { X }`, `export type { X }`. A clause that is just
	// `type` is a default binding named type.
	if rest, ok := strings.CutPrefix(clause, "type"); ok && rest != "" {
		if rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\n' || rest[0] == '{' || rest[0] == '*' {
			return true
		}
	}

	// Only a braced clause without default or namespace bindings can be all-type.
	if !strings.HasPrefix(clause, "{") || !strings.HasSuffix(clause, "}") {
		return false
	}

	bindings := 0
	for binding := range strings.SplitSeq(clause[1:len(clause)-1], ",") {
		fields := strings.Fields(binding)
		if len(fields) == 0 {
			continue
		}
		bindings++
		// `type as t` renames a value binding called type.
		if fields[0] != "type" || len(fields) < 2 || (len(fields) == 3 && fields[1] == "as") {
			return false
		}
	}
	return bindings > 0
}

// stripComments removes line and block comments while leaving string literals intact.
// Line breaks are kept so statements keep their shape. Quoted literals end at a line
// break, so a stray apostrophe in JSX text or a regex literal does not hide later comments.
func stripComments(code string) string {
	var b strings.Builder
	b.Grow(len(code))

	var quote byte
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case quote != 0:
			b.WriteByte(c)
			if c == '\\' && i+1 < len(code) {
				i++
				b.WriteByte(code[i])
			} else if c == quote || (c == '\n' && quote != '`') {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
			b.WriteByte(c)
		case c == '/' && i+1 < len(code) && code[i+1] == '/':
			end := strings.IndexByte(code[i:], '\n')
			if end < 0 {
				return b.String()
			}
			i += end - 1
		case c == '/' && i+1 < len(code) && code[i+1] == '*':
			end := strings.Index(code[i+2:], "*/")
			if end < 0 {
				return b.String()
			}
			i += end + 3
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
