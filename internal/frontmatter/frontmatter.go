// Package frontmatter splits YAML frontmatter from Markdown pages.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates `---` delimited YAML frontmatter from the body. When the
// document has no frontmatter, had is false and body is the whole input.
// Both LF and CRLF line endings are accepted.
func Split(content []byte) (fm []byte, body []byte, had bool, err error) {
	nl := []byte("\n")
	if bytes.HasPrefix(content, []byte("---\r\n")) {
		nl = []byte("\r\n")
	} else if !bytes.HasPrefix(content, []byte("---\n")) {
		return nil, content, false, nil
	}

	start := 3 + len(nl)
	rest := content[start:]

	closeLine := append([]byte("---"), nl...)
	if bytes.HasPrefix(rest, closeLine) {
		return []byte{}, rest[len(closeLine):], true, nil
	}

	closeSeq := append(append([]byte{}, nl...), closeLine...)
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		// A closing delimiter on the final line without a trailing newline.
		tail := append(append([]byte{}, nl...), []byte("---")...)
		if bytes.HasSuffix(rest, tail) {
			return rest[:len(rest)-len(tail)+len(nl)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	return rest[:idx+len(nl)], rest[idx+len(closeSeq):], true, nil
}

// Parse decodes raw frontmatter (without delimiters) into a map.
func Parse(fm []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(fm)) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(fm, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// String returns fields[key] when it is a non-empty string.
func String(fields map[string]any, key string) (string, bool) {
	v, ok := fields[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
