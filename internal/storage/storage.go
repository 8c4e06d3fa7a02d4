// Package storage persists boards as JSON files under a single base
// directory. Board files live in <base>/boards/<name>.json and a
// metadata.json at the base records the known boards plus which one is
// active.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ahlgren/tavla/internal/domain"
	"github.com/ahlgren/tavla/internal/platform"
)

const (
	boardsDirName       = "boards"
	metadataFileName    = "metadata.json"
	legacyBoardFileName = "board.json"

	// DefaultBoardName is used when no board has been chosen yet.
	DefaultBoardName = "default"
)

// ErrBoardNotFound reports a board file missing from the storage directory.
var ErrBoardNotFound = errors.New("board not found")

// Metadata records the boards known to this storage directory and the one
// that was last active.
type Metadata struct {
	ActiveBoard string   `json:"active_board"`
	Boards      []string `json:"boards"`
}

// Store reads and writes boards in a base directory.
type Store struct {
	baseDir string
}

// New constructs a store rooted at the platform default storage directory.
func New() (*Store, error) {
	paths, err := platform.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("resolve storage dir: %w", err)
	}
	return NewWithDir(paths.StorageDir)
}

// NewWithDir constructs a store rooted at dir, creating it if needed and
// migrating any single-board layout left by older versions.
func NewWithDir(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("empty storage dir")
	}
	if err := os.MkdirAll(filepath.Join(dir, boardsDirName), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	s := &Store{baseDir: dir}
	if err := s.migrateLegacyLayout(); err != nil {
		return nil, err
	}
	return s, nil
}

// BaseDir returns the storage root.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// BoardPath returns the file path a board name maps to.
func (s *Store) BoardPath(name string) string {
	return filepath.Join(s.baseDir, boardsDirName, sanitizeName(name)+".json")
}

// LoadBoard reads a board by name. Missing files yield ErrBoardNotFound.
func (s *Store) LoadBoard(name string, now time.Time) (domain.Board, error) {
	content, err := os.ReadFile(s.BoardPath(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Board{}, fmt.Errorf("board %q: %w", name, ErrBoardNotFound)
		}
		return domain.Board{}, fmt.Errorf("read board %q: %w", name, err)
	}
	var board domain.Board
	if err := json.Unmarshal(content, &board); err != nil {
		return domain.Board{}, fmt.Errorf("decode board %q: %w", name, err)
	}
	board.Normalize(now)
	return board, nil
}

// SaveBoard writes a board under the given name and registers the name in
// the metadata.
func (s *Store) SaveBoard(name string, board domain.Board) error {
	content, err := json.MarshalIndent(board, "", "  ")
	if err != nil {
		return fmt.Errorf("encode board %q: %w", name, err)
	}
	path := s.BoardPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create boards dir: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write board %q: %w", name, err)
	}
	return s.registerBoard(name)
}

// BoardExists reports whether a board file is present for the name.
func (s *Store) BoardExists(name string) bool {
	_, err := os.Stat(s.BoardPath(name))
	return err == nil
}

// ListBoards returns the registered board names.
func (s *Store) ListBoards() ([]string, error) {
	meta, err := s.loadMetadata()
	if err != nil {
		return nil, err
	}
	return meta.Boards, nil
}

// ActiveBoardName returns the last active board, or the empty string when
// none has been recorded yet. Callers choose their own fallback name.
func (s *Store) ActiveBoardName() (string, error) {
	meta, err := s.loadMetadata()
	if err != nil {
		return "", err
	}
	return meta.ActiveBoard, nil
}

// SetActiveBoardName records the active board, registering the name too.
func (s *Store) SetActiveBoardName(name string) error {
	meta, err := s.loadMetadata()
	if err != nil {
		return err
	}
	meta.ActiveBoard = name
	if !slices.Contains(meta.Boards, name) {
		meta.Boards = append(meta.Boards, name)
	}
	return s.saveMetadata(meta)
}

// DeleteBoard removes the board file and deregisters the name. When the
// active board is deleted the first remaining board becomes active, or the
// default name when none remain.
func (s *Store) DeleteBoard(name string) error {
	if err := os.Remove(s.BoardPath(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete board %q: %w", name, err)
	}
	meta, err := s.loadMetadata()
	if err != nil {
		return err
	}
	if idx := slices.Index(meta.Boards, name); idx >= 0 {
		meta.Boards = slices.Delete(meta.Boards, idx, idx+1)
	}
	if meta.ActiveBoard == name {
		if len(meta.Boards) > 0 {
			meta.ActiveBoard = meta.Boards[0]
		} else {
			meta.ActiveBoard = DefaultBoardName
		}
	}
	return s.saveMetadata(meta)
}

// registerBoard adds a name to the metadata without changing the active board.
func (s *Store) registerBoard(name string) error {
	meta, err := s.loadMetadata()
	if err != nil {
		return err
	}
	if slices.Contains(meta.Boards, name) {
		return nil
	}
	meta.Boards = append(meta.Boards, name)
	return s.saveMetadata(meta)
}

func (s *Store) metadataPath() string {
	return filepath.Join(s.baseDir, metadataFileName)
}

func (s *Store) loadMetadata() (Metadata, error) {
	content, err := os.ReadFile(s.metadataPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Metadata{Boards: []string{}}, nil
		}
		return Metadata{}, fmt.Errorf("read metadata: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(content, &meta); err != nil {
		return Metadata{}, fmt.Errorf("decode metadata: %w", err)
	}
	if meta.Boards == nil {
		meta.Boards = []string{}
	}
	return meta, nil
}

func (s *Store) saveMetadata(meta Metadata) error {
	content, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(s.metadataPath(), content, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// migrateLegacyLayout relocates a pre-metadata single-board file into the
// boards directory under the default name. Runs only when no metadata file
// exists yet.
func (s *Store) migrateLegacyLayout() error {
	if _, err := os.Stat(s.metadataPath()); err == nil {
		return nil
	}
	legacyPath := filepath.Join(s.baseDir, legacyBoardFileName)
	if _, err := os.Stat(legacyPath); err != nil {
		return nil
	}
	if err := os.Rename(legacyPath, s.BoardPath(DefaultBoardName)); err != nil {
		return fmt.Errorf("migrate legacy board: %w", err)
	}
	return s.saveMetadata(Metadata{
		ActiveBoard: DefaultBoardName,
		Boards:      []string{DefaultBoardName},
	})
}

// sanitizeName maps a board name to a safe file name component.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return DefaultBoardName
	}
	return b.String()
}
