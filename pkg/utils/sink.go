// =============================================================================
// Order Slip Generator - Output Sinks
// =============================================================================
//
// A Sink receives the rendered documents of one run.
//
// SINK LIFECYCLE:
//   1. Reset    - prepare the destination (called once, after every document
//                 has rendered successfully)
//   2. Put      - store one document under a base name; the sink adds the
//                 extension and returns the name actually used
//   3. Close    - publish the run and release the destination
//   Abort       - discard a run that failed between Reset and Close
//
// NAME COLLISIONS:
//   Two orders can sanitize to the same base name ("A/B" and "A:B" both
//   become "A-B"). The second and later documents get "-2", "-3", … before
//   the extension so nothing is overwritten.
//
// IMPLEMENTATIONS:
//   - DirSink: one .xlsx file per document in a directory, staged and moved
//              into place on Close
//   - ZipSink: every document bundled into a single zip archive
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
)

// DocumentExt is the extension added to every stored document.
const DocumentExt = ".xlsx"

// Sink stores rendered documents.
type Sink interface {
	// Reset prepares the destination for a new run.
	Reset() error

	// Put stores data under name and returns the final file name.
	Put(name string, data []byte) (string, error)

	// Close finishes the run.
	Close() error
}

// Aborter is implemented by sinks that can discard a partially written run.
type Aborter interface {
	Abort()
}

// nameSet hands out unique file names within a run.
type nameSet map[string]struct{}

func (s nameSet) claim(base string) string {
	name := base + DocumentExt
	for n := 2; ; n++ {
		if _, taken := s[strings.ToLower(name)]; !taken {
			break
		}
		name = fmt.Sprintf("%s-%d%s", base, n, DocumentExt)
	}
	s[strings.ToLower(name)] = struct{}{}
	return name
}

// =============================================================================
// DIRECTORY SINK
// =============================================================================

// generatedName matches the file names this tool writes: a sanitized base
// ending in "_batch<N>", an optional "-<k>" collision suffix and the
// document extension.
var generatedName = regexp.MustCompile(`(?i)_batch\d+(-\d+)?\.xlsx$`)

// IsGeneratedName reports whether name looks like a document written by a
// previous run.
func IsGeneratedName(name string) bool {
	return generatedName.MatchString(name)
}

// DirSink writes each document as a file in Dir. Documents are staged in a
// hidden directory inside Dir and only moved into place on Close, so a failed
// run leaves Dir as it was.
type DirSink struct {
	// Dir is the output directory. It is created if missing.
	Dir string

	stage string
	files []string
	names nameSet
}

// NewDirSink returns a sink writing into dir.
func NewDirSink(dir string) *DirSink {
	return &DirSink{Dir: dir}
}

// Reset creates the directory and a fresh staging area.
func (s *DirSink) Reset() error {
	s.Abort()

	if err := EnsureDirectory(s.Dir); err != nil {
		return err
	}

	stage, err := os.MkdirTemp(s.Dir, ".slipgen-")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}

	s.stage = stage
	s.files = nil
	s.names = nameSet{}
	return nil
}

// Put stages data as name.xlsx, de-duplicating the name.
func (s *DirSink) Put(name string, data []byte) (string, error) {
	if s.stage == "" {
		if err := s.Reset(); err != nil {
			return "", err
		}
	}
	final := s.names.claim(name)

	if err := os.WriteFile(filepath.Join(s.stage, final), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", final, err)
	}
	s.files = append(s.files, final)
	return final, nil
}

// Close publishes the staged documents. Documents left by a previous run are
// removed first; other files in Dir are left alone. Every target is checked
// before anything is removed, so a blocked name aborts the run with Dir
// unchanged.
func (s *DirSink) Close() error {
	if s.stage == "" {
		return nil
	}
	defer s.Abort()

	for _, name := range s.files {
		info, err := os.Lstat(filepath.Join(s.Dir, name))
		if err == nil && info.IsDir() {
			return fmt.Errorf("failed to write %s: target is a directory", name)
		}
	}

	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return fmt.Errorf("failed to read output directory %s: %w", s.Dir, err)
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !IsGeneratedName(entry.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(s.Dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to clear %s: %w", entry.Name(), err)
		}
	}

	for _, name := range s.files {
		if err := os.Rename(filepath.Join(s.stage, name), filepath.Join(s.Dir, name)); err != nil {
			return fmt.Errorf("failed to move %s into place: %w", name, err)
		}
	}
	return nil
}

// Abort drops the staged documents without touching Dir.
func (s *DirSink) Abort() {
	if s.stage == "" {
		return
	}
	os.RemoveAll(s.stage)
	s.stage, s.files = "", nil
}

// =============================================================================
// ZIP SINK
// =============================================================================

// ZipSink bundles every document into one archive at Path. The archive is
// built in a temporary file next to Path and renamed into place on Close, so
// an interrupted run never leaves a truncated bundle.
type ZipSink struct {
	// Path is the destination archive.
	Path string

	tmp   *os.File
	zw    *zip.Writer
	names nameSet
	now   func() time.Time
}

// NewZipSink returns a sink writing the bundle to path.
func NewZipSink(path string) *ZipSink {
	return &ZipSink{Path: path, now: time.Now}
}

// Reset starts a new, empty archive.
func (s *ZipSink) Reset() error {
	s.Abort()

	if err := EnsureDirectory(filepath.Dir(s.Path)); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), "."+filepath.Base(s.Path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}

	s.tmp = tmp
	s.zw = zip.NewWriter(tmp)
	s.names = nameSet{}
	return nil
}

// Put adds data as name.xlsx to the archive.
func (s *ZipSink) Put(name string, data []byte) (string, error) {
	if s.zw == nil {
		if err := s.Reset(); err != nil {
			return "", err
		}
	}
	final := s.names.claim(name)

	w, err := s.zw.CreateHeader(&zip.FileHeader{
		Name:     final,
		Method:   zip.Deflate,
		Modified: s.now(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to add %s to archive: %w", final, err)
	}
	if _, err := w.Write(data); err != nil {
		return "", fmt.Errorf("failed to write %s to archive: %w", final, err)
	}
	return final, nil
}

// Close finalizes the archive and moves it to Path.
func (s *ZipSink) Close() error {
	if s.zw == nil {
		return nil
	}

	tmpName := s.tmp.Name()
	if err := s.zw.Close(); err != nil {
		s.Abort()
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := s.tmp.Close(); err != nil {
		os.Remove(tmpName)
		s.zw, s.tmp = nil, nil
		return fmt.Errorf("failed to close archive: %w", err)
	}
	s.zw, s.tmp = nil, nil

	if err := os.Rename(tmpName, s.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move archive to %s: %w", s.Path, err)
	}
	return nil
}

// Abort drops an unfinished archive without touching Path.
func (s *ZipSink) Abort() {
	if s.tmp == nil {
		return
	}
	name := s.tmp.Name()
	s.tmp.Close()
	os.Remove(name)
	s.tmp, s.zw = nil, nil
}
