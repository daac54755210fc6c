package binding

// ChangeKind names the mutation that produced a Change.
type ChangeKind string

const (
	ChangeReplace ChangeKind = "replace"
	ChangeClear   ChangeKind = "clear"
	ChangeAdd     ChangeKind = "add"
	ChangeRemove  ChangeKind = "remove"
	ChangeMove    ChangeKind = "move"
)

// Change describes one list mutation. Items is a snapshot of the list after
// the mutation was applied.
type Change[T any] struct {
	Kind    ChangeKind
	Items   []T
	Version uint64
}

// ListListener receives list changes synchronously.
type ListListener[T any] func(Change[T])

// List is an ordered observable collection. Every mutation bumps Version and
// notifies listeners before returning.
type List[T any] struct {
	items     []T
	version   uint64
	listeners listenerSet[ListListener[T]]
}

// NewList returns a list holding a copy of items.
func NewList[T any](items ...T) *List[T] {
	return &List[T]{items: append([]T(nil), items...)}
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	return len(l.items)
}

// At returns the item at index. It panics when index is out of range.
func (l *List[T]) At(index int) T {
	return l.items[index]
}

// Items returns a copy of the current contents.
func (l *List[T]) Items() []T {
	return append([]T(nil), l.items...)
}

// Version returns the mutation counter. It starts at zero and increases by one
// for every change notification.
func (l *List[T]) Version() uint64 {
	return l.version
}

// SetAll replaces the contents with items in a single mutation.
func (l *List[T]) SetAll(items []T) {
	l.items = append([]T(nil), items...)
	l.emit(ChangeReplace)
}

// Clear empties the list.
func (l *List[T]) Clear() {
	l.items = nil
	l.emit(ChangeClear)
}

// Append adds items at the end of the list.
func (l *List[T]) Append(items ...T) {
	if len(items) == 0 {
		return
	}
	l.items = append(l.items, items...)
	l.emit(ChangeAdd)
}

// Insert places item at index, shifting later items. Indices past the end
// append.
func (l *List[T]) Insert(index int, item T) {
	if index < 0 {
		index = 0
	}
	if index >= len(l.items) {
		l.items = append(l.items, item)
	} else {
		l.items = append(l.items[:index+1], l.items[index:]...)
		l.items[index] = item
	}
	l.emit(ChangeAdd)
}

// RemoveAt deletes the item at index and reports whether anything was removed.
func (l *List[T]) RemoveAt(index int) bool {
	if index < 0 || index >= len(l.items) {
		return false
	}
	l.items = append(l.items[:index:index], l.items[index+1:]...)
	l.emit(ChangeRemove)
	return true
}

// Move relocates the item at from to position to.
func (l *List[T]) Move(from, to int) bool {
	if from < 0 || from >= len(l.items) || to < 0 || to >= len(l.items) {
		return false
	}
	if from == to {
		return true
	}
	item := l.items[from]
	rest := append(l.items[:from:from], l.items[from+1:]...)
	moved := make([]T, 0, len(l.items))
	moved = append(moved, rest[:to]...)
	moved = append(moved, item)
	moved = append(moved, rest[to:]...)
	l.items = moved
	l.emit(ChangeMove)
	return true
}

// AddListener registers fn and returns a function that removes it.
func (l *List[T]) AddListener(fn ListListener[T]) func() {
	if fn == nil {
		return func() {}
	}
	return l.listeners.add(fn)
}

// Listeners reports how many listeners are currently registered.
func (l *List[T]) Listeners() int {
	return l.listeners.len()
}

func (l *List[T]) emit(kind ChangeKind) {
	l.version++
	listeners := l.listeners.snapshot()
	if len(listeners) == 0 {
		return
	}
	change := Change[T]{Kind: kind, Items: l.Items(), Version: l.version}
	for _, fn := range listeners {
		fn(change)
	}
}
