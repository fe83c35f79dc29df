package versioning

import (
	"strings"
	"unicode"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/docsnap/internal/foundation/errors"
)

// NormalizeLabel trims and NFC-normalizes a raw label and checks that it can
// name a directory. No version grammar is enforced.
func NormalizeLabel(raw string) (string, error) {
	label := norm.NFC.String(strings.TrimSpace(raw))

	reject := func(reason string) error {
		return errors.ValidationError(ErrInvalidLabel.Message()).
			WithContext("label", raw).
			WithContext("reason", reason).
			Build()
	}

	switch {
	case label == "":
		return "", reject("label is empty")
	case label == "." || label == "..":
		return "", reject("label must not be a relative path element")
	case strings.ContainsAny(label, `/\`):
		return "", reject("label must not contain path separators")
	case strings.HasPrefix(label, "."):
		return "", reject("label must not start with a dot")
	}
	for _, r := range label {
		if unicode.IsControl(r) {
			return "", reject("label must not contain control characters")
		}
	}
	return label, nil
}

// IsSemverLike reports whether label is a semantic version: MAJOR.MINOR.PATCH
// with optional pre-release and build parts, an optional leading "v", and
// MAJOR.MINOR accepted as a short form ("1.2.0", "v2.0.0-rc.1", "1.2").
// Date-like labels such as "2024-spring" are not versions.
func IsSemverLike(label string) bool {
	v := strings.TrimPrefix(strings.TrimPrefix(label, "v"), "V")
	core, rest := v, ""
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		core, rest = v[:i], v[i:]
	}
	if strings.Count(core, ".") == 1 {
		core += ".0"
	}
	_, err := semver.StrictNewVersion(core + rest)
	return err == nil
}
