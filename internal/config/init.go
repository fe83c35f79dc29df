package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/docsnap/internal/foundation/errors"
)

const initHeader = `# docsnap configuration.
# Relative paths resolve against the directory holding this file.
# ${VAR} references are expanded from the environment (.env and .env.local are loaded first).
`

// Init writes a configuration file populated with defaults.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.AlreadyExistsError("configuration file already exists").
			WithContext("path", configPath).
			WithContext("hint", "use --force to overwrite").
			Build()
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "marshal default configuration").Build()
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "create configuration directory").
				WithContext("path", dir).
				Build()
		}
	}

	// #nosec G306 -- configuration is meant to be committed alongside the docs
	if err := os.WriteFile(configPath, append([]byte(initHeader), data...), 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write configuration file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
