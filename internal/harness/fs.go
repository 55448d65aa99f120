package harness

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/radekholy24/dnf-extra-tests/internal/config"
)

// clearDir removes the contents of dir. A missing directory is fine.
func clearDir(fs afero.Fs, dir string) error {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, info := range infos {
		if err := fs.RemoveAll(filepath.Join(dir, info.Name())); err != nil {
			return err
		}
	}
	return nil
}

// dirPopulated reports whether the artifact directory of a setting
// holds artifacts. For the log directory only DNF's own log files
// count; other tools log there too.
func dirPopulated(fs afero.Fs, dir, setting string) (bool, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	for _, info := range infos {
		if setting == config.LogDir {
			if !info.IsDir() && strings.HasPrefix(info.Name(), "dnf") {
				return true, nil
			}
			continue
		}
		return true, nil
	}
	return false, nil
}

// copyDir copies a directory tree.
func copyDir(fs afero.Fs, src, dst string) error {
	return afero.Walk(fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return fs.MkdirAll(target, info.Mode().Perm())
		}
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return err
		}
		return afero.WriteFile(fs, target, data, info.Mode().Perm())
	})
}

// backupFile snapshots a file and returns a function restoring it. A
// missing file is restored by removal.
func backupFile(fs afero.Fs, path string) (func(), error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		return func() { fs.Remove(path) }, nil //nolint:errcheck // best-effort restore
	}
	info, err := fs.Stat(path)
	if err != nil {
		return nil, err
	}
	mode := info.Mode().Perm()
	return func() { afero.WriteFile(fs, path, data, mode) }, nil //nolint:errcheck // best-effort restore
}

// appendFile appends data to a file, creating it if necessary.
func appendFile(fs afero.Fs, path string, data []byte) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = file.Write(data)
	return err
}
