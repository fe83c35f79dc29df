package git

import (
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"
)

func mustHash(t *testing.T, repo *git.Repository, tag string) plumbing.Hash {
	t.Helper()
	ref, err := repo.Tag(tag)
	require.NoError(t, err)
	return ref.Hash()
}
