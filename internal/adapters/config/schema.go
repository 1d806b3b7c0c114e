package config

// Manifest represents the structure of the facto.yaml configuration file.
type Manifest struct {
	Version string `yaml:"version"`
	// Artifact is relative to the manifest directory. Unset means the default
	// location; an empty string disables caching.
	Artifact   *string      `yaml:"artifact"`
	Cache      *bool        `yaml:"cache"`
	BestEffort bool         `yaml:"best_effort"`
	Factories  []FactoryDTO `yaml:"factories"`
}

// FactoryDTO is one factory entry. Exactly one of Symbol, Static, Closure and
// Bound is set.
type FactoryDTO struct {
	ID      string      `yaml:"id"`
	Symbol  string      `yaml:"symbol"`
	Static  *MethodDTO  `yaml:"static"`
	Closure *ClosureDTO `yaml:"closure"`
	Bound   *BoundDTO   `yaml:"bound"`
}

// MethodDTO names a method on a stateless receiver type.
type MethodDTO struct {
	Type   string `yaml:"type"`
	Method string `yaml:"method"`
}

// ClosureDTO points at a function literal. File is relative to the manifest
// directory.
type ClosureDTO struct {
	File string `yaml:"file"`
	Line int    `yaml:"line"`
}

// BoundDTO names a method bound to a receiver instance.
type BoundDTO struct {
	Receiver string `yaml:"receiver"`
	Method   string `yaml:"method"`
}
