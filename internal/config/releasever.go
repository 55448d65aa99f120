package config

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// osReleaseFiles are probed in order, relative to the root context.
var osReleaseFiles = []string{"/etc/os-release", "/usr/lib/os-release"}

// Releasever returns the effective release version. An explicit
// releasever from the command line or the config file wins; otherwise
// the version is detected inside the active root context, so a custom
// install root reports the guest's version rather than the host's.
func (r *Resolver) Releasever(root RootContext) (string, error) {
	raw, err := r.Resolve(ReleaseVer)
	if err != nil {
		return "", err
	}
	if raw != "" {
		return raw, nil
	}
	return DetectReleasever(root)
}

// DetectReleasever reads the OS release version from within the root
// context. The root context is the sole determinant of which release
// file is read.
func DetectReleasever(root RootContext) (string, error) {
	for _, name := range osReleaseFiles {
		data, err := afero.ReadFile(root.fs, root.Rebase(name))
		if err != nil {
			continue
		}
		if version := osReleaseVersionID(data); version != "" {
			return version, nil
		}
	}
	return "", fmt.Errorf("%w under %s", ErrNoReleasever, root.BaseDir())
}

// osReleaseVersionID extracts VERSION_ID from os-release content.
func osReleaseVersionID(data []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok || key != "VERSION_ID" {
			continue
		}
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)
		return value
	}
	return ""
}
