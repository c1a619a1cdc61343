package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rubylint/rubylint/internal/adapters/outbound/document"
	"github.com/rubylint/rubylint/internal/domain"
)

var skipDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	".git":         true,
	".bundle":      true,
	"tmp":          true,
	"log":          true,
	"coverage":     true,
}

// FileScanner finds the Ruby documents under a directory.
type FileScanner struct{}

func New() *FileScanner {
	return &FileScanner{}
}

// Scan walks root and returns the absolute paths of Ruby files, sorted.
// A non-empty include keeps only matching paths; exclude drops matches.
// Patterns are matched against slash-separated paths relative to root.
func (s *FileScanner) Scan(root string, locate domain.LocateSettings) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if document.LanguageFor(absRoot) == domain.LanguageRuby {
			return []string{absRoot}, nil
		}
		return nil, nil
	}

	m := newMatcher(locate)

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(absRoot, path)
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path != absRoot && m.skipDir(d.Name(), rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if m.keepFile(path, rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Matches reports whether Scan(root, locate) would return path. Paths
// outside root never match.
func Matches(root string, locate domain.LocateSettings, path string) bool {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	rel = filepath.ToSlash(rel)

	m := newMatcher(locate)
	parts := strings.Split(rel, "/")
	for i := 0; i < len(parts)-1; i++ {
		if m.skipDir(parts[i], strings.Join(parts[:i+1], "/")) {
			return false
		}
	}
	return m.keepFile(absPath, rel)
}

type matcher struct {
	include []string
	exclude []string
}

func newMatcher(locate domain.LocateSettings) matcher {
	return matcher{
		include: ExpandBraces(locate.Include),
		exclude: ExpandBraces(locate.Exclude),
	}
}

func (m matcher) skipDir(name, rel string) bool {
	return skipDirs[name] || matchAny(m.exclude, rel)
}

func (m matcher) keepFile(path, rel string) bool {
	if document.LanguageFor(path) != domain.LanguageRuby {
		return false
	}
	if matchAny(m.exclude, rel) {
		return false
	}
	return len(m.include) == 0 || matchAny(m.include, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if Match(p, rel) {
			return true
		}
	}
	return false
}

// IgnoredDir reports whether directories called name are never scanned.
func IgnoredDir(name string) bool {
	return skipDirs[name]
}
