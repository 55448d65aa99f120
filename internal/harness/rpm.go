package harness

import (
	"context"
	"strings"
)

// RPM invokes the rpm executable for keyring and installed-package
// queries. GPG verification is an outcome observed through rpm, never
// something the harness computes itself.
type RPM struct {
	bin    string
	runner CommandRunner
}

// NewRPM returns an RPM bound to the given executable and runner.
func NewRPM(bin string, runner CommandRunner) *RPM {
	if bin == "" {
		bin = "rpm"
	}
	return &RPM{bin: bin, runner: runner}
}

func (r *RPM) run(ctx context.Context, root string, args ...string) ([]byte, error) {
	full := []string{"--quiet"}
	if root != "" {
		full = append(full, "--root", root)
	}
	full = append(full, args...)
	return r.runner.Run(ctx, r.bin, full...)
}

// ImportKey imports a public GPG key into the keyring of the given
// root. An empty root means the host.
func (r *RPM) ImportKey(ctx context.Context, root, keyFile string) error {
	_, err := r.run(ctx, root, "--import", keyFile)
	return err
}

// EraseKey removes a public GPG key from the keyring of the given root.
func (r *RPM) EraseKey(ctx context.Context, root, shortID string) error {
	_, err := r.run(ctx, root, "--erase", "gpg-pubkey-"+strings.ToLower(shortID))
	return err
}

// KeyImported reports whether a public GPG key is present in the
// keyring of the given root.
func (r *RPM) KeyImported(ctx context.Context, root, shortID string) bool {
	_, err := r.run(ctx, root, "-q", "gpg-pubkey-"+strings.ToLower(shortID))
	return err == nil
}

// Installed reports whether a package is installed in the given root.
func (r *RPM) Installed(ctx context.Context, root, name string) bool {
	_, err := r.run(ctx, root, "-q", name)
	return err == nil
}
