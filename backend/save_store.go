package main

import (
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	saveExtJSON = ".json"
	saveExtGob  = ".gob"
)

var ErrSaveNotFound = errors.New("save not found")

type SaveInfo struct {
	Name     string    `json:"name"`
	Format   string    `json:"format"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// SaveStore keeps snapshots as files in one directory. The extension picks
// the encoding: .json is indented JSON, .gob is encoding/gob.
type SaveStore struct {
	dir    string
	logger *zap.Logger
}

func NewSaveStore(dir string, logger *zap.Logger) *SaveStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaveStore{dir: dir, logger: logger}
}

// Save writes snap under name and returns the file name used. An empty name
// falls back to the snapshot id; a name without extension is saved as JSON.
func (s *SaveStore) Save(name string, snap Snapshot) (string, error) {
	if strings.TrimSpace(name) == "" {
		name = snap.ID
		if name == "" {
			name = uuid.NewString()
		}
	}
	file, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create save dir: %w", err)
	}
	path := filepath.Join(s.dir, file)
	tmp := path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return "", err
	}
	if err := encodeSnapshot(out, filepath.Ext(file), snap); err != nil {
		out.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", err
	}
	s.logger.Info("game saved", zap.String("file", file), zap.Int("moves", len(snap.History)))
	return file, nil
}

func (s *SaveStore) Load(name string) (Snapshot, error) {
	var snap Snapshot
	file, err := s.resolve(name)
	if err != nil {
		return snap, err
	}
	in, err := os.Open(filepath.Join(s.dir, file))
	if err != nil {
		if os.IsNotExist(err) {
			return snap, fmt.Errorf("%w: %s", ErrSaveNotFound, file)
		}
		return snap, err
	}
	defer in.Close()
	if err := decodeSnapshot(in, filepath.Ext(file), &snap); err != nil {
		return snap, fmt.Errorf("%w: %s: %v", ErrInvalidSnapshot, file, err)
	}
	return snap, nil
}

// List returns the saves in the directory, newest first.
func (s *SaveStore) List() ([]SaveInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SaveInfo{}, nil
		}
		return nil, err
	}
	saves := make([]SaveInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != saveExtJSON && ext != saveExtGob {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		saves = append(saves, SaveInfo{
			Name:     entry.Name(),
			Format:   strings.TrimPrefix(ext, "."),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}
	sort.Slice(saves, func(i, j int) bool {
		return saves[i].Modified.After(saves[j].Modified)
	})
	return saves, nil
}

// resolve turns a user supplied name into a bare file name inside the store.
func (s *SaveStore) resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid save name %q", name)
	}
	switch filepath.Ext(name) {
	case saveExtJSON, saveExtGob:
		return name, nil
	case "":
		return name + saveExtJSON, nil
	default:
		return "", fmt.Errorf("unsupported save format %q", filepath.Ext(name))
	}
}

func encodeSnapshot(w io.Writer, ext string, snap Snapshot) error {
	if ext == saveExtGob {
		return gob.NewEncoder(w).Encode(&snap)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func decodeSnapshot(r io.Reader, ext string, snap *Snapshot) error {
	if ext == saveExtGob {
		return gob.NewDecoder(r).Decode(snap)
	}
	return json.NewDecoder(r).Decode(snap)
}
