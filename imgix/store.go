package imgix

import (
	"sort"
)

// Entry is a single key=value pair of a Store.
type Entry struct {
	Key   string
	Value string
}

// Store holds validated parameters. Setting an existing key overwrites its
// value. The zero value is an empty store ready to use.
type Store struct {
	values map[string]string
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

// Set validates and stores the value. On error the store is left untouched.
func (s *Store) Set(key, value string) error {
	if err := Validate(key, value); err != nil {
		return err
	}

	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	return nil
}

// Remove deletes the key and reports whether it was present.
func (s *Store) Remove(key string) bool {
	_, ok := s.values[key]
	delete(s.values, key)
	return ok
}

// Get returns the value of the key.
func (s *Store) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Len is the number of parameters.
func (s *Store) Len() int {
	return len(s.values)
}

// Entries returns the parameters sorted by key.
func (s *Store) Entries() []Entry {
	entries := make([]Entry, 0, len(s.values))
	for k, v := range s.values {
		entries = append(entries, Entry{k, v})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	return entries
}

// Clone returns an independent copy.
func (s *Store) Clone() *Store {
	c := NewStore()
	for k, v := range s.values {
		c.values[k] = v
	}
	return c
}

// Check enforces the rules that involve more than one key: the pairwise
// Excludes of the parameter table first, then the Conflicts.
func (s *Store) Check() error {
	for _, e := range s.Entries() {
		for _, peer := range Parameters[e.Key].Excludes {
			if _, ok := s.values[peer]; ok {
				keys := []string{e.Key, peer}
				sort.Strings(keys)
				return &BuildError{
					Err:    ErrConflictingParams,
					Keys:   keys,
					Reason: "mutually exclusive",
				}
			}
		}
	}

	for _, c := range Conflicts {
		if s.violates(c) {
			keys := append([]string(nil), c.Keys...)
			sort.Strings(keys)
			return &BuildError{
				Err:    ErrConflictingParams,
				Keys:   keys,
				Reason: c.Reason,
			}
		}
	}

	return nil
}

func (s *Store) violates(c Conflict) bool {
	for _, key := range c.Keys {
		v, ok := s.values[key]
		if !ok {
			return false
		}

		if values, restricted := c.Values[key]; restricted && !contains(values, v) {
			return false
		}
	}

	return true
}
