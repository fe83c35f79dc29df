// Package git reads and annotates the repository that hosts a docs project:
// the HEAD commit recorded with each snapshot, and annotated release tags.
package git
