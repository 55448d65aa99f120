package dnfconf

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	ini "gopkg.in/ini.v1"
)

// ErrNoSource is returned when a repository definition carries none of
// baseurl, metalink or mirrorlist.
var ErrNoSource = errors.New("repository has no baseurl, metalink or mirrorlist")

// ErrMultipleSources is returned when a repository definition carries
// more than one of baseurl, metalink or mirrorlist.
var ErrMultipleSources = errors.New("repository has more than one of baseurl, metalink and mirrorlist")

// Repo is a named source of packages. Exactly one of BaseURL, Metalink
// and Mirrorlist must be set. Where the repository's content resolves
// is decided by the root context active at invocation time, never by
// where the definition file happens to live.
type Repo struct {
	ID             string
	Name           string
	BaseURL        string
	Metalink       string
	Mirrorlist     string
	GPGKey         string
	GPGCheck       bool
	Enabled        bool
	MetadataExpire string
}

// Validate checks the exactly-one-source invariant and the ID.
func (r Repo) Validate() error {
	if r.ID == "" {
		return errors.New("repository has no ID")
	}
	sources := 0
	for _, s := range []string{r.BaseURL, r.Metalink, r.Mirrorlist} {
		if s != "" {
			sources++
		}
	}
	switch {
	case sources == 0:
		return fmt.Errorf("%s: %w", r.ID, ErrNoSource)
	case sources > 1:
		return fmt.Errorf("%s: %w", r.ID, ErrMultipleSources)
	}
	return nil
}

// Expand returns a copy of the repository with substitution variables
// expanded in its URL-valued fields.
func (r Repo) Expand(vars Vars) Repo {
	r.BaseURL = Substitute(r.BaseURL, vars)
	r.Metalink = Substitute(r.Metalink, vars)
	r.Mirrorlist = Substitute(r.Mirrorlist, vars)
	r.GPGKey = Substitute(r.GPGKey, vars)
	return r
}

// ParseRepoFile parses the repository definitions in a .repo file.
func ParseRepoFile(data []byte) ([]Repo, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, err
	}

	var repos []Repo
	for _, section := range f.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		repo := Repo{
			ID:             section.Name(),
			Name:           section.Key("name").String(),
			BaseURL:        section.Key("baseurl").String(),
			Metalink:       section.Key("metalink").String(),
			Mirrorlist:     section.Key("mirrorlist").String(),
			GPGKey:         section.Key("gpgkey").String(),
			GPGCheck:       section.Key("gpgcheck").MustBool(false),
			Enabled:        section.Key("enabled").MustBool(true),
			MetadataExpire: section.Key("metadata_expire").String(),
		}
		if err := repo.Validate(); err != nil {
			return nil, err
		}
		repos = append(repos, repo)
	}
	return repos, nil
}

// LoadRepoDir parses every .repo file in dir, in lexicographic order.
// A missing directory yields no repositories.
func LoadRepoDir(fs afero.Fs, dir string) ([]Repo, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		if exists, _ := afero.DirExists(fs, dir); !exists {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var names []string
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".repo") {
			continue
		}
		names = append(names, info.Name())
	}
	sort.Strings(names)

	var repos []Repo
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, err
		}
		parsed, err := ParseRepoFile(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		repos = append(repos, parsed...)
	}
	return repos, nil
}

// Render encodes the repository definition as ini text.
func (r Repo) Render() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	f := ini.Empty()
	section, err := f.NewSection(r.ID)
	if err != nil {
		return nil, err
	}
	set := func(key, value string) {
		if value != "" {
			section.NewKey(key, value) //nolint:errcheck // NewKey only fails on empty names
		}
	}
	set("name", r.Name)
	set("baseurl", r.BaseURL)
	set("metalink", r.Metalink)
	set("mirrorlist", r.Mirrorlist)
	set("gpgkey", r.GPGKey)
	if r.GPGCheck {
		set("gpgcheck", "1")
	}
	if !r.Enabled {
		set("enabled", "0")
	}
	set("metadata_expire", r.MetadataExpire)

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteRepo writes the repository definition as <id>.repo into dir and
// returns the file path.
func (r Repo) WriteRepo(fs afero.Fs, dir string) (string, error) {
	data, err := r.Render()
	if err != nil {
		return "", err
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, r.ID+".repo")
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
