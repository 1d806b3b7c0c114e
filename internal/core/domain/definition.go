package domain

import "go.trai.ch/zerr"

// Definition associates a factory id with its entry.
type Definition struct {
	ID    string
	Entry Entry
}

// Define builds a Definition, inferring the entry variant for bare funcs.
func Define(id string, factory any) Definition {
	switch f := factory.(type) {
	case Entry:
		return Definition{ID: id, Entry: f}
	case Compilable:
		return Definition{ID: id, Entry: SelfDescribing{Value: f}}
	case Func:
		return Definition{ID: id, Entry: Infer(f)}
	case func(Container) (any, error):
		return Definition{ID: id, Entry: Infer(f)}
	default:
		return Definition{ID: id}
	}
}

// ValidateDefinitions rejects empty and duplicate ids.
func ValidateDefinitions(defs []Definition) error {
	seen := make(map[string]struct{}, len(defs))
	for i, def := range defs {
		if def.ID == "" {
			return zerr.With(ErrEmptyFactoryID, "index", i)
		}
		if _, ok := seen[def.ID]; ok {
			return zerr.With(ErrDuplicateFactoryID, "factory_id", def.ID)
		}
		seen[def.ID] = struct{}{}
	}
	return nil
}

// FactorySet is an ordered mapping from factory id to callable.
type FactorySet struct {
	ids   []string
	funcs map[string]Func
}

// NewFactorySet creates an empty FactorySet with room for n entries.
func NewFactorySet(n int) *FactorySet {
	return &FactorySet{
		ids:   make([]string, 0, n),
		funcs: make(map[string]Func, n),
	}
}

// FactorySetFrom builds a FactorySet from definitions, using each entry's live callable.
func FactorySetFrom(defs []Definition) (*FactorySet, error) {
	if err := ValidateDefinitions(defs); err != nil {
		return nil, err
	}
	set := NewFactorySet(len(defs))
	for _, def := range defs {
		var fn Func
		if def.Entry != nil {
			fn = def.Entry.Func()
		} else {
			fn = bound(nil, def.ID)
		}
		set.Add(def.ID, fn)
	}
	return set, nil
}

// Add appends id, replacing the callable in place if id is already present.
func (s *FactorySet) Add(id string, fn Func) {
	if _, ok := s.funcs[id]; !ok {
		s.ids = append(s.ids, id)
	}
	s.funcs[id] = fn
}

// Get returns the callable registered for id.
func (s *FactorySet) Get(id string) (Func, bool) {
	if s == nil {
		return nil, false
	}
	fn, ok := s.funcs[id]
	return fn, ok
}

// IDs returns the ids in insertion order.
func (s *FactorySet) IDs() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of factories.
func (s *FactorySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// Each calls fn for every factory in insertion order.
func (s *FactorySet) Each(fn func(id string, f Func)) {
	if s == nil {
		return
	}
	for _, id := range s.ids {
		fn(id, s.funcs[id])
	}
}
