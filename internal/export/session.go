package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// Session file layout:
//
//	{
//	  "package_dir": "/abs/package",
//	  "exported": ["/abs/build/a.libman-export", ...],
//	  "updated": "2006-01-02T15:04:05Z"
//	}

// Session persists an exported Set between packaging phases run as
// separate processes.
type Session struct {
	PackageDir string    `json:"package_dir"`
	Exported   []string  `json:"exported"`
	Updated    time.Time `json:"updated"`
}

// LoadSession reads the session file at path. A missing file yields an
// empty session.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Set returns the exported directories as a Set.
func (s *Session) Set() Set {
	return NewSet(s.Exported...)
}

// Update replaces the recorded directories with exported.
func (s *Session) Update(exported Set) {
	s.Exported = exported.Paths()
	s.Updated = time.Now()
}

// Save writes the session file to path.
func (s *Session) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
