package cache

// ScopedKeyer wraps a Keyer with a prefix so several tools or users can
// share one Redis database.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "expedition:")
//	keyer.DocumentKey("health") // "expedition:doc:health"
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DocumentKey generates a prefixed document key.
func (k *ScopedKeyer) DocumentKey(name string) string {
	return k.prefix + k.inner.DocumentKey(name)
}

// RevisionsKey generates a prefixed revision list key.
func (k *ScopedKeyer) RevisionsKey(name string) string {
	return k.prefix + k.inner.RevisionsKey(name)
}

// RenderKey generates a prefixed render key.
func (k *ScopedKeyer) RenderKey(docHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(docHash, opts)
}
