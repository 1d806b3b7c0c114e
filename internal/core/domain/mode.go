package domain

// CacheMode governs whether an existing artifact short-circuits recompilation.
type CacheMode bool

const (
	// AlwaysRegenerate recompiles on every call.
	AlwaysRegenerate CacheMode = false
	// TrustExistingIfPresent loads an existing artifact without recompiling.
	TrustExistingIfPresent CacheMode = true
)

func (m CacheMode) String() string {
	if m == TrustExistingIfPresent {
		return "trust-existing"
	}
	return "always-regenerate"
}
