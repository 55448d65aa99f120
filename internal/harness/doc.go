// Package harness executes scenario suites against a real DNF
// installation. It builds dnf/rpm command lines from scenario option
// tables, resolves the expected artifact locations through the
// configuration resolver, and asserts the observed filesystem, cache,
// log and keyring outcomes.
//
// The harness mutates the system it runs on: it writes temporary
// repository definitions, appends to DNF configuration files (with
// backup and restore) and installs test packages. It is meant for
// disposable test machines, not workstations.
package harness
