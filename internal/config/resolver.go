package config

// Source identifies the configuration layer that supplied a value.
type Source string

const (
	SourceDefault     Source = "default"
	SourceConfigFile  Source = "config-file"
	SourceCommandLine Source = "command-line"
)

// Option is a single command-line (option, value) pair. Order matters:
// when the same option appears twice, the later entry wins within the
// command-line layer.
type Option struct {
	Name  string
	Value string
}

// layer is one precedence level of configuration input.
type layer struct {
	source Source
	values map[string]string
}

// Resolver computes effective setting values from an explicit
// precedence-ordered list of layers. The list makes the precedence
// contract auditable: layers[0] is the built-in defaults and each
// following layer overrides the ones before it.
type Resolver struct {
	layers []layer
}

// NewResolver builds a Resolver from an optional config-file option
// table and an optional ordered command-line option list. Every
// supplied option name must be recognized; an unknown name fails with
// UnknownSettingError rather than being carried along silently.
func NewResolver(configFile map[string]string, commandLine []Option) (*Resolver, error) {
	fileValues := make(map[string]string, len(configFile))
	for name, value := range configFile {
		if !Known(name) {
			return nil, &UnknownSettingError{Name: name}
		}
		fileValues[name] = value
	}

	cliValues := make(map[string]string, len(commandLine))
	for _, opt := range commandLine {
		if !Known(opt.Name) {
			return nil, &UnknownSettingError{Name: opt.Name}
		}
		cliValues[opt.Name] = opt.Value
	}

	return &Resolver{
		layers: []layer{
			{source: SourceDefault, values: Defaults()},
			{source: SourceConfigFile, values: fileValues},
			{source: SourceCommandLine, values: cliValues},
		},
	}, nil
}

// Resolve returns the effective raw value of a setting.
func (r *Resolver) Resolve(name string) (string, error) {
	value, _, err := r.ResolveSource(name)
	return value, err
}

// ResolveSource returns the effective raw value of a setting together
// with the layer that supplied it.
func (r *Resolver) ResolveSource(name string) (string, Source, error) {
	if !Known(name) {
		return "", "", &UnknownSettingError{Name: name}
	}
	for i := len(r.layers) - 1; i >= 0; i-- {
		if value, ok := r.layers[i].values[name]; ok {
			return value, r.layers[i].source, nil
		}
	}
	// The defaults layer covers every recognized setting.
	panic("config: recognized setting missing from defaults: " + name)
}

// ResolvePath resolves a setting and maps it into the given root
// context. Settings that are not root-relative are returned verbatim.
func (r *Resolver) ResolvePath(name string, root RootContext) (string, error) {
	raw, err := r.Resolve(name)
	if err != nil {
		return "", err
	}
	if !RootRelative(name) {
		return raw, nil
	}
	return root.Rebase(raw), nil
}

// Effective returns the full effective mapping of every recognized
// setting, raw values only. This is the form consumed by the scenario
// harness.
func (r *Resolver) Effective() map[string]string {
	effective := make(map[string]string, len(settings))
	for name := range settings {
		value, _, _ := r.ResolveSource(name)
		effective[name] = value
	}
	return effective
}

// Sources returns the layer that supplied each recognized setting.
func (r *Resolver) Sources() map[string]Source {
	sources := make(map[string]Source, len(settings))
	for name := range settings {
		_, source, _ := r.ResolveSource(name)
		sources[name] = source
	}
	return sources
}
