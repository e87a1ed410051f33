package plugin

// Policy resolves a requested capability set for a named plugin down to
// what is actually granted. Grounded on the teacher's AuthInterceptor
// pattern of separating "who is this" from "what can they do" into its own
// step (shared/grpc/interceptor.go), generalized from a single auth check
// to a per-capability allow table.
type Policy struct {
	passphrase string
	// defaultCaps is granted to every successfully authenticated plugin.
	defaultCaps map[Capability]bool
	// named overrides defaultCaps for specific plugin names, used to grant
	// Admin to trusted first-party plugins.
	named map[string]map[Capability]bool
}

// NewPolicy builds a Policy around a shared passphrase. defaultCaps applies
// to any plugin that authenticates with it; Admin must never appear in
// defaultCaps (enforced here) since the protocol requires Admin to be an
// explicit per-plugin grant, never a passphrase-only default.
func NewPolicy(passphrase string, defaultCaps []Capability) *Policy {
	p := &Policy{
		passphrase:  passphrase,
		defaultCaps: make(map[Capability]bool),
		named:       make(map[string]map[Capability]bool),
	}
	for _, c := range defaultCaps {
		if c == CapAdmin {
			continue
		}
		p.defaultCaps[c] = true
	}
	return p
}

// checkPassphrase reports whether got matches the configured passphrase.
// An empty configured passphrase accepts any value, for local development.
func (p *Policy) checkPassphrase(got string) bool {
	return p.passphrase == "" || p.passphrase == got
}

// Allow grants pluginName the given capabilities in addition to the
// defaults, including Admin if listed explicitly.
func (p *Policy) Allow(pluginName string, caps ...Capability) {
	set, ok := p.named[pluginName]
	if !ok {
		set = make(map[Capability]bool)
		p.named[pluginName] = set
	}
	for _, c := range caps {
		set[c] = true
	}
}

// Resolve splits requested into granted and denied for pluginName.
func (p *Policy) Resolve(pluginName string, requested []Capability) (granted, denied []Capability) {
	allowed := p.named[pluginName]
	for _, c := range requested {
		if p.defaultCaps[c] || (allowed != nil && allowed[c]) {
			granted = append(granted, c)
		} else {
			denied = append(denied, c)
		}
	}
	return granted, denied
}
