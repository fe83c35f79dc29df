package config

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint computes a stable hash of the layout-affecting configuration
// fields. It is recorded in the audit history so a later verify can tell that
// a snapshot was cut under a different layout.
func (c *Config) Fingerprint() string {
	if c == nil {
		return ""
	}
	h := sha256.New()
	w := func(parts ...string) { h.Write([]byte(strings.Join(parts, "="))); h.Write([]byte{0}) }
	w("paths.docs", c.Paths.Docs)
	w("paths.sidebar", c.Paths.Sidebar)
	w("paths.versioned_docs", c.Paths.VersionedDocs)
	w("paths.versioned_sidebars", c.Paths.VersionedSidebars)
	w("paths.versions", c.Paths.Versions)
	return hex.EncodeToString(h.Sum(nil))
}
