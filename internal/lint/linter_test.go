package lint

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for p, c := range files {
		require.NoError(t, afero.WriteFile(fsys, p, []byte(c), 0o644))
	}
	return fsys
}

func rules(r *Result) []string {
	out := make([]string, 0, len(r.Issues))
	for _, i := range r.Issues {
		out = append(out, i.Rule)
	}
	return out
}

func TestLint_Clean(t *testing.T) {
	fsys := seed(t, map[string]string{
		"/site/docs/index.md":          "# Home\n\nSee [auth](api/auth.md#tokens) and ![x](img/x.png).\n",
		"/site/docs/api/auth.md":       "# Auth\n\nBack [home](../index.md), [external](https://example.com), [route](../index).\n",
		"/site/docs/img/x.png":         "png",
		"/site/docs/reference/errs.md": "# Errors\n",
		"/site/sidebars.json":          `{"docs": ["index", {"type": "category", "label": "API", "items": ["api/auth"]}, {"type": "autogenerated", "dirName": "reference"}]}`,
	})

	res, err := NewLinter(fsys, "/site/docs", "/site/sidebars.json").Lint()
	require.NoError(t, err)
	assert.Empty(t, res.Issues)
	assert.Equal(t, 3, res.FilesTotal)
	assert.NoError(t, res.Err())
}

func TestLint_Problems(t *testing.T) {
	fsys := seed(t, map[string]string{
		"/site/docs/index.md":     "# Home\n\n[gone](missing.md)\n",
		"/site/docs/intro.md":     "---\nid: index\n---\n# Intro\n",
		"/site/docs/api/cart.mdx": "[img](../img/nope.png)\n",
		"/site/sidebars.json":     `{"docs": ["index", "api/orders", {"type": "autogenerated", "dirName": "guides"}]}`,
	})

	res, err := NewLinter(fsys, "/site/docs", "/site/sidebars.json").Lint()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"duplicate-doc-id",
		"sidebar-unknown-doc",
		"sidebar-missing-dir",
		"broken-link",
		"broken-link",
	}, rules(res))
	assert.True(t, res.HasErrors())
	assert.Equal(t, 5, res.ErrorCount())
	require.Error(t, res.Err())
}

func TestLint_SidebarFormats(t *testing.T) {
	fsys := seed(t, map[string]string{
		"/site/docs/index.md": "# Home\n",
		"/site/sidebars.js":   "module.exports = {docs: ['index']};",
		"/site/bad.json":      `{"docs": [`,
	})

	res, err := NewLinter(fsys, "/site/docs", "/site/sidebars.js").Lint()
	require.NoError(t, err)
	assert.Equal(t, []string{"sidebar-skipped"}, rules(res))
	assert.False(t, res.HasErrors())

	res, err = NewLinter(fsys, "/site/docs", "/site/bad.json").Lint()
	require.NoError(t, err)
	assert.Equal(t, []string{"sidebar-invalid"}, rules(res))
}

func TestLint_InvalidFrontmatter(t *testing.T) {
	fsys := seed(t, map[string]string{
		"/site/docs/index.md": "---\ntitle: open\n# no close\n",
		"/site/sidebars.json": `{}`,
	})
	res, err := NewLinter(fsys, "/site/docs", "/site/sidebars.json").Lint()
	require.NoError(t, err)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "frontmatter-invalid", res.Issues[0].Rule)
	assert.Equal(t, "/site/docs/index.md", res.Issues[0].FilePath)
}

func TestLint_MissingDocs(t *testing.T) {
	_, err := NewLinter(afero.NewMemMapFs(), "/site/docs", "/site/sidebars.json").Lint()
	require.Error(t, err)
}

func TestRelativeTarget(t *testing.T) {
	tests := []struct {
		rel, dest, want string
		ok              bool
	}{
		{"index.md", "api/auth.md", "api/auth.md", true},
		{"api/auth.md", "../index.md#top", "index.md", true},
		{"index.md", "my%20page.md", "my page.md", true},
		{"index.md", "#anchor", "", false},
		{"index.md", "/docs/intro", "", false},
		{"index.md", "../outside.md", "", false},
		{"index.md", "guides/auth", "", false},
	}
	for _, tt := range tests {
		got, ok := relativeTarget(tt.rel, tt.dest)
		assert.Equal(t, tt.ok, ok, tt.dest)
		assert.Equal(t, tt.want, got, tt.dest)
	}
}

func TestFormatters(t *testing.T) {
	res := &Result{FilesTotal: 2, Issues: []Issue{{
		FilePath: "/site/docs/index.md",
		Severity: SeverityError,
		Rule:     "broken-link",
		Message:  "link points to missing x.md",
	}}}

	var text bytes.Buffer
	require.NoError(t, (&TextFormatter{}).Format(&text, res, "/site/docs"))
	assert.Contains(t, text.String(), "ERROR [broken-link]")
	assert.Contains(t, text.String(), "1 error\n")

	var js bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Format(&js, res, "/site/docs"))
	var out JSONOutput
	require.NoError(t, json.Unmarshal(js.Bytes(), &out))
	assert.Equal(t, 1, out.ErrorCount)
	assert.Equal(t, "error", out.Issues[0].Severity)
}
