package connector

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/dowelhub/pkg/openscad"
	"github.com/philipparndt/dowelhub/pkg/stl"
)

// Staging collects output files in temp files next to their destinations.
// Nothing reaches a destination until Commit, so a run that fails part way
// leaves the previous outputs untouched.
type Staging struct {
	files []stagedFile
}

type stagedFile struct {
	tmp  string
	path string
}

// Stage runs write against a fresh temp file for path. The temp file keeps
// the extension of path, since tools like OpenSCAD pick the format from it.
func (s *Staging) Stage(path string, write func(tmp string) error) error {
	if _, ok := s.Temp(path); ok {
		return fmt.Errorf("%s is already staged", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	tmp, err := os.CreateTemp(dir, "."+strings.TrimSuffix(base, ext)+".*"+ext)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	tmp.Close()

	if err := write(tmpName); err != nil {
		os.Remove(tmpName)
		return err
	}
	s.files = append(s.files, stagedFile{tmp: tmpName, path: path})
	return nil
}

// STL stages model as an STL file
func (s *Staging) STL(path string, model *stl.Model, ascii bool) error {
	if model == nil {
		return errors.New("no model to write")
	}
	return s.Stage(path, func(tmp string) error {
		return stl.Save(tmp, model, ascii)
	})
}

// Script stages an OpenSCAD script
func (s *Staging) Script(path string, script *openscad.Script) error {
	return s.Stage(path, func(tmp string) error {
		file, err := os.Create(tmp)
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		if _, err := script.WriteTo(file); err != nil {
			file.Close()
			return fmt.Errorf("failed to write script: %w", err)
		}
		return file.Close()
	})
}

// Temp returns the temp file staged for path
func (s *Staging) Temp(path string) (string, bool) {
	for _, f := range s.files {
		if f.path == path {
			return f.tmp, true
		}
	}
	return "", false
}

// Commit renames every staged file into place. If a rename fails the
// remaining files are discarded.
func (s *Staging) Commit() error {
	defer s.Discard()

	for len(s.files) > 0 {
		f := s.files[0]
		if err := os.Rename(f.tmp, f.path); err != nil {
			return fmt.Errorf("failed to move %s into place: %w", f.path, err)
		}
		s.files = s.files[1:]
	}
	return nil
}

// Discard removes all staged files that were not committed
func (s *Staging) Discard() {
	for _, f := range s.files {
		os.Remove(f.tmp)
	}
	s.files = nil
}
