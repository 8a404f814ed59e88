// Package discover — ordered name set with duplicate detection.
package discover

// nameSet keeps icon names in insertion order and remembers which file
// claimed each name first.
type nameSet struct {
	items []string
	owner map[string]string
}

func newNameSet() *nameSet {
	return &nameSet{owner: make(map[string]string)}
}

// Add records name for path. If another path already claimed name, Add
// returns that path and false.
func (s *nameSet) Add(name, path string) (string, bool) {
	if prev, ok := s.owner[name]; ok {
		return prev, false
	}
	s.owner[name] = path
	s.items = append(s.items, name)
	return "", true
}

// Len returns the number of unique names.
func (s *nameSet) Len() int {
	return len(s.items)
}
