// Package config models DNF configuration resolution: given built-in
// defaults, an optional config-file option table and an ordered list of
// command-line options, it computes the effective value of every
// recognized setting.
//
// Resolution follows an explicit precedence order, highest first:
//
//  1. Command line
//  2. Config file ([main] section of dnf.conf)
//  3. Built-in defaults
//
// Path-valued settings additionally resolve against a RootContext. With
// the host root, values are used as-is. With a custom install root
// (--installroot), every root-relative setting is rebased under that
// root, including values written as absolute paths: /var/log becomes
// <installroot>/var/log. The release version is detected inside the
// active root context, so a guest root reports the guest's version.
//
// The resolver performs no I/O of its own; the only filesystem access
// is release-version detection, which reads through an injected
// afero.Fs and never writes.
package config
