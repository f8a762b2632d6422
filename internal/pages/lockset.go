package pages

// LockSet is the ordered set of players the transfer optimizer must keep.
// It lives only in the session and is never persisted.
type LockSet struct {
	ids   []int
	names map[int]string
}

func NewLockSet() *LockSet {
	return &LockSet{names: make(map[int]string)}
}

// Toggle locks id if it is unlocked and unlocks it otherwise. It returns
// whether id is locked afterwards.
func (l *LockSet) Toggle(id int, name string) bool {
	if _, ok := l.names[id]; ok {
		delete(l.names, id)
		for i, v := range l.ids {
			if v == id {
				l.ids = append(l.ids[:i], l.ids[i+1:]...)
				break
			}
		}
		return false
	}
	l.names[id] = name
	l.ids = append(l.ids, id)
	return true
}

func (l *LockSet) Contains(id int) bool {
	_, ok := l.names[id]
	return ok
}

func (l *LockSet) Len() int { return len(l.ids) }

// IDs returns the locked player ids in locking order
func (l *LockSet) IDs() []int {
	return append([]int{}, l.ids...)
}

// Names returns the web names of the locked players in locking order
func (l *LockSet) Names() []string {
	names := make([]string, 0, len(l.ids))
	for _, id := range l.ids {
		names = append(names, l.names[id])
	}
	return names
}

func (l *LockSet) Clear() {
	l.ids = nil
	l.names = make(map[int]string)
}
