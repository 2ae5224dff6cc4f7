package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments or result
// versions can share one backend without colliding.
//
// Example usage:
//
//	// Keys written by this release
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1:")
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

// LineKey generates a prefixed key for a solved line.
func (k *ScopedKeyer) LineKey(size int, blocks []int, known string) string {
	return k.prefix + k.inner.LineKey(size, blocks, known)
}
