package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// RootContext is the effective filesystem root against which
// root-relative settings resolve: either the host root or a custom
// install root. Exactly one root context is active per invocation.
type RootContext struct {
	fs      afero.Fs
	baseDir string
}

// HostRoot returns the root context of the host filesystem.
func HostRoot(fs afero.Fs) RootContext {
	return RootContext{fs: fs, baseDir: "/"}
}

// NewRootContext derives the active root context from the resolved
// installroot setting. A custom root must be an absolute path naming an
// existing directory; anything else fails with AmbiguousRootError since
// defaulting silently would resolve paths against the wrong filesystem.
func NewRootContext(fs afero.Fs, r *Resolver) (RootContext, error) {
	raw, err := r.Resolve(InstallRoot)
	if err != nil {
		return RootContext{}, err
	}
	if raw == "" {
		return RootContext{}, &AmbiguousRootError{Value: raw, Reason: "empty path"}
	}
	clean := filepath.Clean(raw)
	if clean == "/" {
		return HostRoot(fs), nil
	}
	if !filepath.IsAbs(clean) {
		return RootContext{}, &AmbiguousRootError{Value: raw, Reason: "path is not absolute"}
	}
	info, err := fs.Stat(clean)
	if err != nil {
		return RootContext{}, &AmbiguousRootError{Value: raw, Reason: fmt.Sprintf("cannot stat: %v", err)}
	}
	if !info.IsDir() {
		return RootContext{}, &AmbiguousRootError{Value: raw, Reason: "not a directory"}
	}
	return RootContext{fs: fs, baseDir: clean}, nil
}

// IsHost reports whether the context is the host root.
func (rc RootContext) IsHost() bool {
	return rc.baseDir == "/"
}

// BaseDir returns the base directory of the context: "/" for the host,
// the install root path otherwise.
func (rc RootContext) BaseDir() string {
	return rc.baseDir
}

// Rebase maps a host-view path into the root context. Under the host
// root the path resolves against "/". Under a custom root the value is
// joined beneath the root with its leading separator stripped, so
// /var/log becomes <root>/var/log. Relative values join the same way.
func (rc RootContext) Rebase(path string) string {
	if rc.IsHost() {
		if !filepath.IsAbs(path) {
			return filepath.Join("/", path)
		}
		return filepath.Clean(path)
	}
	return filepath.Join(rc.baseDir, strings.TrimLeft(path, string(filepath.Separator)))
}
