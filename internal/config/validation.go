package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	ferrors "git.home.luguber.info/inful/docsnap/internal/foundation/errors"
)

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	required := map[string]string{
		"paths.docs":               c.Paths.Docs,
		"paths.sidebar":            c.Paths.Sidebar,
		"paths.versioned_docs":     c.Paths.VersionedDocs,
		"paths.versioned_sidebars": c.Paths.VersionedSidebars,
		"paths.versions":           c.Paths.Versions,
	}
	for _, key := range []string{"paths.docs", "paths.sidebar", "paths.versioned_docs", "paths.versioned_sidebars", "paths.versions"} {
		if strings.TrimSpace(required[key]) == "" {
			result = multierror.Append(result, fmt.Errorf("%s must not be empty", key))
		}
	}

	if c.Paths.Docs != "" && c.Paths.VersionedDocs != "" && isWithin(c.Paths.VersionedDocs, c.Paths.Docs) {
		result = multierror.Append(result, fmt.Errorf("paths.versioned_docs (%s) must not be inside paths.docs (%s)", c.Paths.VersionedDocs, c.Paths.Docs))
	}

	if c.Snapshot.Tag.Enabled {
		if strings.ContainsAny(c.Snapshot.Tag.Prefix, " \t~^:?*[\\") {
			result = multierror.Append(result, fmt.Errorf("snapshot.tag.prefix %q is not a valid git ref prefix", c.Snapshot.Tag.Prefix))
		}
		if c.Snapshot.Tag.TaggerName == "" || c.Snapshot.Tag.TaggerEmail == "" {
			result = multierror.Append(result, fmt.Errorf("snapshot.tag requires tagger_name and tagger_email"))
		}
	}

	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		result = multierror.Append(result, fmt.Errorf("history.path must be set when history is enabled"))
	}

	if c.Notify.NATSURL != "" {
		if c.Notify.Subject == "" {
			result = multierror.Append(result, fmt.Errorf("notify.subject must be set when notify.nats_url is set"))
		}
		if c.Notify.Timeout <= 0 {
			result = multierror.Append(result, fmt.Errorf("notify.timeout must be positive"))
		}
	}

	if c.Watch.Debounce <= 0 {
		result = multierror.Append(result, fmt.Errorf("watch.debounce must be positive"))
	}
	if c.Watch.VerifyInterval < 0 {
		result = multierror.Append(result, fmt.Errorf("watch.verify_interval must not be negative"))
	}

	if _, err := logLevels.NormalizeWithError(string(c.Logging.Level)); err != nil {
		result = multierror.Append(result, err)
	}
	if _, err := logFormats.NormalizeWithError(string(c.Logging.Format)); err != nil {
		result = multierror.Append(result, err)
	}

	if err := result.ErrorOrNil(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid configuration").Build()
	}
	return nil
}

// isWithin reports whether child is parent or below it. Both are compared
// lexically after cleaning.
func isWithin(child, parent string) bool {
	rel, err := filepath.Rel(filepath.Clean(parent), filepath.Clean(child))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
