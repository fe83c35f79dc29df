package versioning

import (
	"fmt"

	"git.home.luguber.info/inful/docsnap/internal/config"
	"git.home.luguber.info/inful/docsnap/internal/git"
)

// GitCommitFunc resolves HEAD of the repository containing root.
func GitCommitFunc(root string) CommitFunc {
	return func() (string, error) { return git.HeadCommit(root) }
}

// GitTagFunc creates annotated tags named prefix+label at HEAD.
func GitTagFunc(root string, cfg config.TagConfig) TagFunc {
	return func(label string) (string, error) {
		name := cfg.Prefix + label
		msg := fmt.Sprintf("Documentation snapshot %s", label)
		if _, err := git.CreateTag(root, name, msg, git.Signature{Name: cfg.TaggerName, Email: cfg.TaggerEmail}); err != nil {
			return "", err
		}
		return name, nil
	}
}
