package storage

import (
	"bufio"
	"context"
	"errors"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
)

const maxLineSize = 1 << 20

// FileStore keeps lines in a plain text file
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the file at path.
// The file is created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path
func (s *FileStore) Path() string {
	return s.path
}

// ReadAll yields trimmed, non-blank lines. A missing file yields nothing.
func (s *FileStore) ReadAll(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		f, err := os.Open(s.path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return
			}
			yield("", wrapErr("open", s.path, err))
			return
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
		for scanner.Scan() {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if !yield(line, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield("", wrapErr("read", s.path, err))
		}
	}
}

// AppendOne appends line, separating it from existing content with '\n'
func (s *FileStore) AppendOne(ctx context.Context, line string) (err error) {
	if err := checkLine(line); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE|os.O_APPEND, FilePermSecure)
	if err != nil {
		return wrapErr("open", s.path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = wrapErr("close", s.path, cerr)
		}
	}()

	needsNewline, err := endsWithoutNewline(f)
	if err != nil {
		return wrapErr("stat", s.path, err)
	}
	if needsNewline {
		line = "\n" + line
	}

	if _, err := f.WriteString(line); err != nil {
		return wrapErr("write", s.path, err)
	}
	return nil
}

// endsWithoutNewline reports whether f is non-empty and its last byte is not '\n'
func endsWithoutNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil && err != io.EOF {
		return false, err
	}
	return last[0] != '\n', nil
}

// WriteAll replaces the file content. The new content is written to a
// temporary file in the same directory and renamed over the original.
func (s *FileStore) WriteAll(ctx context.Context, lines []string) error {
	if err := checkLines(lines); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir, base := filepath.Split(s.path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return wrapErr("create", s.path, err)
	}
	tmpPath := tmp.Name()

	if err := writeAndSync(tmp, strings.Join(lines, "\n")); err != nil {
		os.Remove(tmpPath)
		return wrapErr("write", tmpPath, err)
	}

	if err := os.Chmod(tmpPath, FilePermSecure); err != nil {
		os.Remove(tmpPath)
		return wrapErr("chmod", tmpPath, err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return wrapErr("replace", s.path, err)
	}
	return nil
}

func writeAndSync(f *os.File, content string) error {
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Close is a no-op; the file is only open during a call
func (s *FileStore) Close() error {
	return nil
}
