// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/fixpatch/pkg/lines"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus is the outcome for one target after a run
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusModified             // Content changed and was written
	StatusUnchanged            // No stage changed the content
	StatusPreview              // Content changed but was not written
	StatusRestored             // Content was put back from the .bak copy
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	case StatusPreview:
		return "preview"
	case StatusRestored:
		return "restored"
	default:
		return "unknown"
	}
}

// 📄 FileInfo describes a loaded target
type FileInfo struct {
	Path     string      // Path as given by the caller
	Size     int64       // Size in bytes when loaded
	Mode     os.FileMode // Permissions, kept on write
	Lines    int         // Number of lines when loaded
	Checksum string      // Content hash when loaded
}

// 💾 Store loads targets as line sequences and writes them back.
//
// Relative paths resolve against the base directory; absolute paths are used
// as given.
type Store struct {
	baseDir string
}

// 🏭 New creates a store rooted at baseDir
func New(baseDir string) *Store {
	return &Store{baseDir: filepath.Clean(baseDir)}
}

// 🔒 Abs returns the path a store operation acts on
func (s *Store) Abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.baseDir, path)
}

// Checksum returns the SHA-256 of the joined sequence.
func Checksum(seq lines.Sequence) string {
	hash := sha256.New()
	for _, line := range seq {
		io.WriteString(hash, line)
	}
	return hex.EncodeToString(hash.Sum(nil))
}

// 📖 Load reads the whole file at path into a sequence.
func (s *Store) Load(ctx context.Context, path string) (lines.Sequence, FileInfo, error) {
	abs := s.Abs(path)

	f, err := os.Open(abs)
	if err != nil {
		return nil, FileInfo{}, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, FileInfo{}, errors.Errorf("stat %s: %w", path, err)
	}
	if stat.IsDir() {
		return nil, FileInfo{}, errors.Errorf("%s is a directory", path)
	}

	seq, err := lines.Read(f)
	if err != nil {
		return nil, FileInfo{}, errors.Errorf("reading %s: %w", path, err)
	}

	info := FileInfo{
		Path:     path,
		Size:     stat.Size(),
		Mode:     stat.Mode().Perm(),
		Lines:    len(seq),
		Checksum: Checksum(seq),
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", abs).
		Int("lines", info.Lines).
		Int64("size", info.Size).
		Msg("loaded target")

	return seq, info, nil
}

// 💾 Save writes seq to path atomically: it goes to a temp file next to the
// target first and is renamed over it. mode applies when the file is
// created; zero means 0644.
func (s *Store) Save(ctx context.Context, path string, seq lines.Sequence, mode os.FileMode) error {
	abs := s.Abs(path)
	if mode == 0 {
		mode = 0644
	}

	tmp, err := os.CreateTemp(filepath.Dir(abs), "."+filepath.Base(abs)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := seq.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("setting mode on temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, abs); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", abs).Int("lines", len(seq)).Msg("saved target")
	return nil
}

// BackupPath is where Backup copies path to.
func (s *Store) BackupPath(path string) string {
	return s.Abs(path) + ".bak"
}

// 🗄️ Backup copies the file at path to path.bak, replacing an older backup.
// A missing file is not an error and produces no backup.
func (s *Store) Backup(ctx context.Context, path string) error {
	abs := s.Abs(path)

	if _, err := os.Stat(abs); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return errors.Errorf("checking file existence: %w", err)
	}

	if err := copyFile(abs, s.BackupPath(path)); err != nil {
		return errors.Errorf("creating backup: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", abs).Str("backup", s.BackupPath(path)).Msg("backed up target")
	return nil
}

// ♻️ Restore puts path.bak back in place of path and removes the backup.
func (s *Store) Restore(ctx context.Context, path string) error {
	abs := s.Abs(path)
	backupPath := s.BackupPath(path)

	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return errors.Errorf("backup file does not exist")
	} else if err != nil {
		return errors.Errorf("checking backup existence: %w", err)
	}

	if err := copyFile(backupPath, abs); err != nil {
		return errors.Errorf("restoring from backup: %w", err)
	}

	if err := os.Remove(backupPath); err != nil {
		return errors.Errorf("removing backup: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", abs).Msg("restored target from backup")
	return nil
}

func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	stat, err := source.Stat()
	if err != nil {
		return errors.Errorf("stat source file: %w", err)
	}

	destination, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, stat.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating destination file: %w", err)
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return errors.Errorf("copying file: %w", err)
	}

	return nil
}
