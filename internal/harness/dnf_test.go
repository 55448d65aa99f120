package harness

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radekholy24/dnf-extra-tests/internal/scenario"
)

// fakeRunner records invocations and answers them through a handler.
type fakeRunner struct {
	calls   [][]string
	handler func(name string, args []string) ([]byte, error)
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	call := append([]string{name}, args...)
	f.calls = append(f.calls, call)
	if f.handler != nil {
		return f.handler(name, args)
	}
	return nil, nil
}

func (f *fakeRunner) lastCall() []string {
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}

func TestInvokeOptionsArgs(t *testing.T) {
	tests := []struct {
		name string
		opts InvokeOptions
		want []string
	}{
		{
			name: "empty",
			opts: InvokeOptions{},
			want: nil,
		},
		{
			name: "full",
			opts: InvokeOptions{
				Config:      "/tmp/dnf.conf",
				InstallRoot: "/tmp/root",
				ReleaseVer:  "19",
				Quiet:       true,
				AssumeYes:   true,
				DisableRepo: "*",
				EnableRepo:  "dnf-extra-tests",
			},
			want: []string{
				"--quiet", "--assumeyes",
				"--config", "/tmp/dnf.conf",
				"--installroot", "/tmp/root",
				"--releasever", "19",
				"--disablerepo", "*",
				"--enablerepo", "dnf-extra-tests",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.args())
		})
	}
}

func TestInvokeOptionsFrom(t *testing.T) {
	sc := &scenario.Scenario{
		Name: "options",
		CommandLine: []scenario.Option{
			{Option: "--config", Value: "/tmp/dnf.conf"},
			{Option: "--installroot", Value: "/tmp/a"},
			{Option: "--installroot", Value: "/tmp/b"},
			{Option: "--releasever", Value: "19"},
		},
	}

	opts := invokeOptionsFrom(sc)
	assert.Equal(t, "/tmp/dnf.conf", opts.Config)
	// Later entries win.
	assert.Equal(t, "/tmp/b", opts.InstallRoot)
	assert.Equal(t, "19", opts.ReleaseVer)
	assert.True(t, opts.Quiet)
	assert.True(t, opts.AssumeYes)
}

func TestDNFInstall_CommandLine(t *testing.T) {
	fake := &fakeRunner{}
	dnf := NewDNF("", fake)

	_, err := dnf.Install(context.Background(), InvokeOptions{
		InstallRoot: "/tmp/root",
		Quiet:       true,
		AssumeYes:   true,
	}, "foo", "bar")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"dnf", "--quiet", "--assumeyes", "--installroot", "/tmp/root",
		"install", "foo", "bar",
	}, fake.lastCall())
}

func TestDNFRepoquery(t *testing.T) {
	fake := &fakeRunner{
		handler: func(string, []string) ([]byte, error) {
			return []byte("foo-1-1.noarch\nsigned-foo-1-1.noarch\n"), nil
		},
	}
	dnf := NewDNF("dnf", fake)

	packages, err := dnf.Repoquery(context.Background(), InvokeOptions{}, "dnf-extra-tests")
	require.NoError(t, err)
	assert.Equal(t, []string{"foo-1-1.noarch", "signed-foo-1-1.noarch"}, packages)

	call := strings.Join(fake.lastCall(), " ")
	assert.Contains(t, call, "--disablerepo *")
	assert.Contains(t, call, "--enablerepo dnf-extra-tests")
	assert.Contains(t, call, "repoquery")
}

func TestRPMKeyOperations(t *testing.T) {
	fake := &fakeRunner{}
	rpm := NewRPM("", fake)
	ctx := context.Background()

	require.NoError(t, rpm.ImportKey(ctx, "/tmp/root", "/tmp/TEST-GPG-KEY"))
	assert.Equal(t, []string{"rpm", "--quiet", "--root", "/tmp/root", "--import", "/tmp/TEST-GPG-KEY"}, fake.lastCall())

	require.NoError(t, rpm.EraseKey(ctx, "", "867B843D"))
	assert.Equal(t, []string{"rpm", "--quiet", "--erase", "gpg-pubkey-867b843d"}, fake.lastCall())

	assert.True(t, rpm.KeyImported(ctx, "", "867B843D"))
	assert.Equal(t, []string{"rpm", "--quiet", "-q", "gpg-pubkey-867b843d"}, fake.lastCall())
}

func TestRPMKeyImported_NotPresent(t *testing.T) {
	fake := &fakeRunner{
		handler: func(string, []string) ([]byte, error) {
			return []byte("package gpg-pubkey-867b843d is not installed\n"), assert.AnError
		},
	}
	rpm := NewRPM("rpm", fake)

	assert.False(t, rpm.KeyImported(context.Background(), "", "867B843D"))
}
