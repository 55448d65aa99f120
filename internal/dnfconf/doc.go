// Package dnfconf reads and writes DNF-format configuration files: the
// [main] section of dnf.conf and .repo repository definition files,
// including $releasever/$basearch variable substitution in URLs.
package dnfconf
