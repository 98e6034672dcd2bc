package imports_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/depcache/internal/adapters/imports"
)

func TestExtractImports(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []string
	}{
		{
			name: "default and named imports",
			code: "import React from 'react'\nimport { css, cx } from \"@linaria/core\"\n",
			want: []string{"react", "@linaria/core"},
		},
		{
			name: "namespace import",
			code: "import * as utils from '@src/utils'",
			want: []string{"@src/utils"},
		},
		{
			name: "multiline named import",
			code: "import {\n  a,\n  b,\n} from '@src/ab'\n",
			want: []string{"@src/ab"},
		},
		{
			name: "type-only default import",
			code: "import type Props from '@src/props'\nimport x from '@src/x'",
			want: []string{"@src/x"},
		},
		{
			name: "type-only named import",
			code: "import type { Props } from '@src/props'",
			want: []string{},
		},
		{
			name: "every binding type-only",
			code: "import { type A, type B } from '@src/types'",
			want: []string{},
		},
		{
			name: "multiline every binding type-only",
			code: "import {\n  type A,\n  type B,\n} from '@src/types'",
			want: []string{},
		},
		{
			name: "mixed type and value bindings",
			code: "import { type A, b } from '@src/mixed'",
			want: []string{"@src/mixed"},
		},
		{
			name: "default binding with type named imports",
			code: "import X, { type A } from '@src/x'",
			want: []string{"@src/x"},
		},
		{
			name: "default binding named type",
			code: "import type from '@src/type'",
			want: []string{"@src/type"},
		},
		{
			name: "re-exports",
			code: "export * from '@src/all'\nexport { a as b } from '@src/a'\nexport type { T } from '@src/t'",
			want: []string{"@src/all", "@src/a"},
		},
		{
			name: "side-effect import",
			code: "import '@src/global.css'\nimport './polyfill'",
			want: []string{"@src/global.css", "./polyfill"},
		},
		{
			name: "line and block comments",
			code: "// import a from '@src/a'\n/* import b from '@src/b'\n*/\nimport c from '@src/c' // trailing\n",
			want: []string{"@src/c"},
		},
		{
			name: "comment markers inside strings",
			code: "const url = 'http://example.com'\nimport d from '@src/d'\n",
			want: []string{"@src/d"},
		},
		{
			name: "type import after export default",
			code: "export default Button\nimport type { T } from '@src/t'\nimport v from '@src/v'",
			want: []string{"@src/v"},
		},
		{
			name: "json imports are returned for gating",
			code: "import pkg from '../package.json'",
			want: []string{"../package.json"},
		},
		{
			name: "value binding renamed from type",
			code: "import { type as t } from './x'",
			want: []string{"./x"},
		},
		{
			name: "apostrophe in jsx text does not hide comments",
			code: "import a from './a'\nconst el = <p>Don't panic</p>\n// import dead from './dead'\n/* import dead2 from './dead2' */\n",
			want: []string{"./a"},
		},
		{
			name: "quote inside a regex literal does not hide comments",
			code: "const re = /[\"']/g\n// import dead from './dead'\nimport b from './b'\n",
			want: []string{"./b"},
		},
		{
			name: "template literal spans lines",
			code: "const s = `it's\nfine`\n// import dead from './dead'\nimport c from './c'\n",
			want: []string{"./c"},
		},
		{
			name: "dynamic import is not an edge",
			code: "const m = await import('@src/lazy')",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, imports.ExtractImports(tt.code))
		})
	}
}
