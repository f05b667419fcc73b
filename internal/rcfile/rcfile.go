// Package rcfile reads and atomically rewrites the `key: value` init file.
// On save, matched keys are replaced in place, missing keys are appended,
// and comments and unknown lines survive byte-for-byte, so a load/save
// cycle with no changes is a fixed point.
package rcfile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type line struct {
	raw string
	// key is empty for comments ('#' or '!') and unparsable lines.
	key string
}

// File is a loaded init file plus pending updates.
type File struct {
	path    string
	lines   []line
	mode    os.FileMode
	updates map[string]string
	order   []string
}

func parseKey(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || s[0] == '#' || s[0] == '!' {
		return ""
	}
	i := strings.IndexByte(s, ':')
	if i <= 0 {
		return ""
	}
	return strings.TrimSpace(s[:i])
}

// Load reads the file; a missing file yields an empty File bound to path.
func Load(path string) (*File, error) {
	f := &File{
		path:    path,
		mode:    0o644,
		updates: map[string]string{},
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, fmt.Errorf("rcfile: open %s: %w", path, err)
	}
	defer file.Close()

	if info, err := file.Stat(); err == nil {
		f.mode = info.Mode().Perm()
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		raw := scanner.Text()
		f.lines = append(f.lines, line{raw: raw, key: parseKey(raw)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("rcfile: read %s: %w", path, err)
	}
	return f, nil
}

// Get returns the effective value of a key: a pending update when present,
// else the last occurrence in the file.
func (f *File) Get(key string) (string, bool) {
	if v, ok := f.updates[key]; ok {
		return v, true
	}
	for i := len(f.lines) - 1; i >= 0; i-- {
		if f.lines[i].key == key {
			s := strings.TrimSpace(f.lines[i].raw)
			colon := strings.IndexByte(s, ':')
			return strings.TrimSpace(s[colon+1:]), true
		}
	}
	return "", false
}

// Set queues a key update for the next Save.
func (f *File) Set(key, value string) {
	if key == "" {
		return
	}
	if _, ok := f.updates[key]; !ok {
		f.order = append(f.order, key)
	}
	f.updates[key] = value
}

// Save rewrites the file atomically: temp file in the same directory,
// fsync, rename, original mode preserved.
func (f *File) Save() error {
	appended := map[string]bool{}
	var out strings.Builder

	for _, l := range f.lines {
		if l.key != "" {
			if v, ok := f.updates[l.key]; ok {
				fmt.Fprintf(&out, "%s: %s\n", l.key, v)
				appended[l.key] = true
				continue
			}
		}
		out.WriteString(l.raw)
		out.WriteByte('\n')
	}
	for _, key := range f.order {
		if appended[key] {
			continue
		}
		fmt.Fprintf(&out, "%s: %s\n", key, f.updates[key])
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("rcfile: temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(out.String()); err != nil {
		tmp.Close()
		return fmt.Errorf("rcfile: write %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(f.mode); err != nil {
		tmp.Close()
		return fmt.Errorf("rcfile: chmod %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("rcfile: fsync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("rcfile: close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("rcfile: rename %s: %w", f.path, err)
	}

	// Reload the written state so a second Save is a no-op.
	reloaded, err := Load(f.path)
	if err != nil {
		return err
	}
	f.lines = reloaded.lines
	f.updates = map[string]string{}
	f.order = nil
	return nil
}
