package cache

// ScopedKeyer prefixes every key of an inner Keyer, so several projects can
// share one Redis database:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "fontsmith:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer if inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SourceKey returns the prefixed inner key.
func (k *ScopedKeyer) SourceKey(fingerprint string, opts SourceKeyOpts) string {
	return k.prefix + k.inner.SourceKey(fingerprint, opts)
}
