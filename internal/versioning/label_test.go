package versioning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsnap/internal/foundation/errors"
)

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "1.0.0", want: "1.0.0"},
		{raw: "  2.1.0\n", want: "2.1.0"},
		{raw: "next", want: "next"},
		{raw: "café", want: "café"},
		{raw: "", wantErr: true},
		{raw: "   ", wantErr: true},
		{raw: ".", wantErr: true},
		{raw: "..", wantErr: true},
		{raw: ".hidden", wantErr: true},
		{raw: "1.0/evil", wantErr: true},
		{raw: `1.0\evil`, wantErr: true},
		{raw: "1.0\x00", wantErr: true},
		{raw: "1.\t0", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizeLabel(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidLabel)
				assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsSemverLike(t *testing.T) {
	for _, l := range []string{"1.0.0", "v2.3.4", "1.2", "v1.2", "1.0.0-rc.1", "1.2-beta", "1.0.0+build.5"} {
		assert.True(t, IsSemverLike(l), l)
	}
	for _, l := range []string{"next", "2024-spring", "2024", "one.two", "1.2.3.4", "01.2.3", "v"} {
		assert.False(t, IsSemverLike(l), l)
	}
}

func TestLayoutPaths(t *testing.T) {
	l := testLayout()
	assert.Equal(t, "/site/versioned_docs/version-1.0.0", l.SnapshotDir("1.0.0"))
	assert.Equal(t, "/site/versioned_sidebars/version-1.0.0-sidebars.json", l.SidebarPath("1.0.0"))

	l.Sidebar = "/site/sidebars.yaml"
	assert.Equal(t, "/site/versioned_sidebars/version-1.0.0-sidebars.yaml", l.SidebarPath("1.0.0"))

	label, ok := labelFromSnapshotDir("version-1.1.0")
	assert.True(t, ok)
	assert.Equal(t, "1.1.0", label)
	_, ok = labelFromSnapshotDir("version-")
	assert.False(t, ok)

	label, ok = labelFromSidebarFile("version-1.1.0-sidebars.json")
	assert.True(t, ok)
	assert.Equal(t, "1.1.0", label)
	_, ok = labelFromSidebarFile("version-1.1.0.json")
	assert.False(t, ok)
}
