package config

import "time"

// Default returns a configuration populated with the standard layout.
// Decoding a file over it only replaces the keys the file sets.
func Default() *Config {
	return &Config{
		Version: "1",
		Paths: PathsConfig{
			Docs:              "docs",
			Sidebar:           "sidebars.json",
			VersionedDocs:     "versioned_docs",
			VersionedSidebars: "versioned_sidebars",
			Versions:          "versions.json",
		},
		Snapshot: SnapshotConfig{
			Tag: TagConfig{
				Prefix:      "docs-v",
				TaggerName:  "docsnap",
				TaggerEmail: "docsnap@localhost",
			},
		},
		ReleaseNotes: ReleaseNotesConfig{
			File:  "release-notes.yaml",
			Page:  "docs/release-notes.md",
			Title: "Release Notes",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    ".docsnap/history.db",
		},
		Notify: NotifyConfig{
			Subject: "docsnap.versions",
			Timeout: 5 * time.Second,
		},
		Watch: WatchConfig{
			Debounce:       500 * time.Millisecond,
			VerifyInterval: 10 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
	}
}
