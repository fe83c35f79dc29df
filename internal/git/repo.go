package git

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/docsnap/internal/foundation/errors"
)

// ErrTagExists is returned by CreateTag when the tag name is taken.
var ErrTagExists = git.ErrTagExists

// Signature identifies the tagger of an annotated tag.
type Signature struct {
	Name  string
	Email string
}

func open(path string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
}

// HeadCommit returns the HEAD commit of the repository containing path,
// searching parent directories for .git. It returns "" without error when
// path is not inside a repository or the repository has no commits yet.
func HeadCommit(path string) (string, error) {
	repo, err := open(path)
	if err != nil {
		if stderrors.Is(err, git.ErrRepositoryNotExists) {
			return "", nil
		}
		return "", fmt.Errorf("open repository: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// CreateTag creates an annotated tag name at HEAD and returns the tag
// object hash.
func CreateTag(path, name, message string, tagger Signature) (string, error) {
	repo, err := open(path)
	if err != nil {
		return "", errors.GitError("open repository").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	head, err := repo.Head()
	if err != nil {
		return "", errors.GitError("resolve HEAD").
			WithCause(err).
			WithContext("hint", "commit the docs before tagging").
			Build()
	}
	if message == "" {
		message = name
	}

	ref, err := repo.CreateTag(name, head.Hash(), &git.CreateTagOptions{
		Tagger:  &object.Signature{Name: tagger.Name, Email: tagger.Email, When: time.Now()},
		Message: message,
	})
	if err != nil {
		return "", errors.GitError("create tag").
			WithCause(err).
			WithContext("tag", name).
			Build()
	}
	return ref.Hash().String(), nil
}
