package dnfconf

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoFile(t *testing.T) {
	data := []byte(`[dnf-extra-tests]
name=Testing repository
baseurl=file:///tmp/repository/$RELEASEVER
gpgcheck=1
gpgkey=file:///tmp/TEST-GPG-KEY
metadata_expire=600
`)

	repos, err := ParseRepoFile(data)
	require.NoError(t, err)
	require.Len(t, repos, 1)

	repo := repos[0]
	assert.Equal(t, "dnf-extra-tests", repo.ID)
	assert.Equal(t, "Testing repository", repo.Name)
	assert.Equal(t, "file:///tmp/repository/$RELEASEVER", repo.BaseURL)
	assert.True(t, repo.GPGCheck)
	assert.True(t, repo.Enabled)
	assert.Equal(t, "file:///tmp/TEST-GPG-KEY", repo.GPGKey)
	assert.Equal(t, "600", repo.MetadataExpire)
}

func TestParseRepoFile_SourceInvariant(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{
			name:    "no source",
			data:    "[broken]\nname=no urls\n",
			wantErr: ErrNoSource,
		},
		{
			name:    "two sources",
			data:    "[broken]\nbaseurl=file:///a\nmetalink=file:///b/metalink.xml\n",
			wantErr: ErrMultipleSources,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRepoFile([]byte(tt.data))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_AcceptsEachSingleSource(t *testing.T) {
	for _, repo := range []Repo{
		{ID: "a", BaseURL: "file:///a"},
		{ID: "b", Metalink: "file:///b/metalink.xml"},
		{ID: "c", Mirrorlist: "file:///c/mirrorlist.txt"},
	} {
		assert.NoError(t, repo.Validate(), repo.ID)
	}
}

func TestLoadRepoDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/etc/yum.repos.d", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/etc/yum.repos.d/b.repo",
		[]byte("[second]\nbaseurl=file:///second\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/etc/yum.repos.d/a.repo",
		[]byte("[first]\nbaseurl=file:///first\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/etc/yum.repos.d/ignored.txt",
		[]byte("not a repo file"), 0o644))

	repos, err := LoadRepoDir(fs, "/etc/yum.repos.d")
	require.NoError(t, err)
	require.Len(t, repos, 2)
	// Lexicographic file order.
	assert.Equal(t, "first", repos[0].ID)
	assert.Equal(t, "second", repos[1].ID)
}

func TestLoadRepoDir_MissingDir(t *testing.T) {
	fs := afero.NewMemMapFs()

	repos, err := LoadRepoDir(fs, "/no/such/dir")
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestWriteRepo_RoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	repo := Repo{
		ID:       "dnf-extra-tests",
		BaseURL:  "file:///tmp/repository",
		GPGCheck: true,
		GPGKey:   "file:///tmp/TEST-GPG-KEY",
		Enabled:  true,
	}

	path, err := repo.WriteRepo(fs, "/etc/yum.repos.d")
	require.NoError(t, err)
	assert.Equal(t, "/etc/yum.repos.d/dnf-extra-tests.repo", path)

	repos, err := LoadRepoDir(fs, "/etc/yum.repos.d")
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, repo, repos[0])
}

func TestWriteRepo_RejectsInvalid(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := Repo{ID: "broken"}.WriteRepo(fs, "/etc/yum.repos.d")
	assert.ErrorIs(t, err, ErrNoSource)
}
