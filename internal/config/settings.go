package config

import "sort"

// Names of the recognized settings.
const (
	InstallRoot    = "installroot"
	ReleaseVer     = "releasever"
	ConfigFilePath = "config_file_path"
	ReposDir       = "reposdir"
	CacheDir       = "cachedir"
	LogDir         = "logdir"
	PersistDir     = "persistdir"
	PluginPath     = "pluginpath"
	PluginConfPath = "pluginconfpath"
	KeyringDir     = "keyringdir"
	GPGCheck       = "gpgcheck"
	AssumeYes      = "assumeyes"
	MetadataExpire = "metadata_expire"
)

type setting struct {
	// def is the built-in default, the lowest precedence layer.
	def string

	// rootRelative settings resolve against the active root context.
	// Under a custom install root they are rebased beneath it even
	// when written as absolute paths.
	rootRelative bool
}

// settings mirrors the defaults of a stock DNF installation.
var settings = map[string]setting{
	InstallRoot:    {def: "/"},
	ReleaseVer:     {def: ""},
	ConfigFilePath: {def: "/etc/dnf/dnf.conf", rootRelative: true},
	ReposDir:       {def: "/etc/yum.repos.d", rootRelative: true},
	CacheDir:       {def: "/var/cache/dnf", rootRelative: true},
	LogDir:         {def: "/var/log", rootRelative: true},
	PersistDir:     {def: "/var/lib/dnf", rootRelative: true},
	PluginPath:     {def: "/usr/lib/python3/site-packages/dnf-plugins", rootRelative: true},
	PluginConfPath: {def: "/etc/dnf/plugins", rootRelative: true},
	KeyringDir:     {def: "/var/lib/rpm", rootRelative: true},
	GPGCheck:       {def: "false"},
	AssumeYes:      {def: "false"},
	MetadataExpire: {def: "172800"},
}

// Known reports whether name is a recognized setting.
func Known(name string) bool {
	_, ok := settings[name]
	return ok
}

// RootRelative reports whether name resolves against the root context.
// Unknown names are not root-relative.
func RootRelative(name string) bool {
	return settings[name].rootRelative
}

// Names returns all recognized setting names in sorted order.
func Names() []string {
	names := make([]string, 0, len(settings))
	for name := range settings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Defaults returns a fresh copy of the built-in defaults table.
func Defaults() map[string]string {
	defaults := make(map[string]string, len(settings))
	for name, s := range settings {
		defaults[name] = s.def
	}
	return defaults
}
