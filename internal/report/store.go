package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Info describes one stored report artifact.
type Info struct {
	Name     string    `json:"filename"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// Store is an append-only file store for rendered reports. Artifacts are
// plain-text files named from the flare class and a second-resolution
// timestamp, matching solar_flare_<class>_<YYYYMMDD_HHMMSS>.txt.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates a store rooted at dir. The directory is created lazily
// on first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

// Save writes one report and returns the artifact name.
func (s *Store) Save(classType, content string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("report store: mkdir %s: %w", s.dir, err)
	}
	name := fmt.Sprintf("solar_flare_%s_%s.txt", classType, s.now().Format("20060102_150405"))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("report store: write %s: %w", path, err)
	}
	return name, nil
}

// List returns all stored reports, newest first. A missing directory means
// an empty listing, not an error.
func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("report store: read dir: %w", err)
	}

	var infos []Info
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{Name: e.Name(), Size: fi.Size(), Modified: fi.ModTime()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Modified.After(infos[j].Modified) })
	return infos, nil
}

// Read returns the content of a named report. The name must be a bare file
// name; path separators are rejected.
func (s *Store) Read(name string) (string, error) {
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("report store: invalid name %q", name)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("report store: read %s: %w", name, err)
	}
	return string(data), nil
}

// Latest returns the newest report's info and content.
func (s *Store) Latest() (Info, string, error) {
	infos, err := s.List()
	if err != nil {
		return Info{}, "", err
	}
	if len(infos) == 0 {
		return Info{}, "", fmt.Errorf("report store: no reports")
	}
	content, err := s.Read(infos[0].Name)
	if err != nil {
		return Info{}, "", err
	}
	return infos[0], content, nil
}
