// Package cache is the durable note store. One generated note per slide is
// kept as a plain markdown file so users can inspect or hand-edit notes
// between runs. Records are addressed by (course, document, bucket, page);
// the bucket names the page-range batch the note was generated under.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DefaultRoot is the cache directory used when none is configured.
const DefaultRoot = ".annot_cache"

const noteFile = "note.md"

// Key identifies one note record. All string parts are used verbatim in the
// on-disk path, so callers pass them through Slug first where needed.
type Key struct {
	Course string
	Doc    string
	Bucket string
	Page   int // 0-based
}

// Record is a cached note: the markdown body plus when it was generated.
type Record struct {
	Markdown  string
	Generated time.Time
}

// Store is a filesystem-backed note store rooted at one directory. Reads and
// writes for distinct keys are independent; writes are atomic per record.
type Store struct {
	root string
}

func NewStore(root string) *Store {
	if root == "" {
		root = DefaultRoot
	}
	return &Store{root: root}
}

// Path returns the location of the record for k. The layout is
// root/<course>/<doc>/<bucket>/slide_NNN/note.md, one directory per slide so
// sibling artifacts (such as a rendered panel) can live next to the note.
func (s *Store) Path(k Key) string {
	return filepath.Join(s.root, courseSegment(k.Course), k.Doc, k.Bucket,
		fmt.Sprintf("slide_%03d", k.Page+1), noteFile)
}

// Get returns the cached record for k, or ok=false when no record exists.
// A record is only ever observed complete: Put publishes via rename.
func (s *Store) Get(k Key) (Record, bool, error) {
	p := s.Path(k)
	b, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("read cache %s: %w", p, err)
	}
	rec := Record{Markdown: string(b)}
	if fi, err := os.Stat(p); err == nil {
		rec.Generated = fi.ModTime()
	}
	return rec, true, nil
}

// Put writes the record for k, replacing any previous record. The markdown is
// written to a temp file in the record's directory and renamed into place, so
// a concurrent Get sees either the old record or the new one, never a partial
// write. Writing identical content twice is a no-op in effect.
func (s *Store) Put(k Key, r Record) error {
	p := s.Path(k)
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, noteFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("write cache %s: %w", p, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(r.Markdown); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write cache %s: %w", p, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write cache %s: %w", p, err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write cache %s: %w", p, err)
	}
	return nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9\-]+`)

// Slug normalizes a name into a stable, filesystem-friendly path segment.
func Slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlug.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return s
}

// DocSlug derives the document identity segment from the input path: the
// file name without its extension, slugged.
func DocSlug(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if slug := Slug(base); slug != "" {
		return slug
	}
	return "document"
}

func courseSegment(course string) string {
	if slug := Slug(course); slug != "" {
		return slug
	}
	return "unspecified"
}
