package binding

// ValueListener receives the previous and current value after a Set.
type ValueListener[T any] func(old, current T)

// Value holds a single observable value.
type Value[T any] struct {
	value     T
	listeners listenerSet[ValueListener[T]]
}

// NewValue returns a Value initialised to initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{value: initial}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	return v.value
}

// Set stores value and notifies listeners. Listeners always fire, even when
// the value is unchanged, because T may not be comparable.
func (v *Value[T]) Set(value T) {
	old := v.value
	v.value = value
	for _, fn := range v.listeners.snapshot() {
		fn(old, value)
	}
}

// AddListener registers fn and returns a function that removes it. Calling
// the returned function more than once is a no-op.
func (v *Value[T]) AddListener(fn ValueListener[T]) func() {
	if fn == nil {
		return func() {}
	}
	return v.listeners.add(fn)
}

// Listeners reports how many listeners are currently registered.
func (v *Value[T]) Listeners() int {
	return v.listeners.len()
}

// Bind keeps target equal to compute(source.Get()). The target is updated
// eagerly: once immediately and again after every source Set. The returned
// function releases the binding.
func Bind[S, T any](target *Value[T], source *Value[S], compute func(S) T) func() {
	if target == nil || source == nil || compute == nil {
		return func() {}
	}
	target.Set(compute(source.Get()))
	return source.AddListener(func(_, current S) {
		target.Set(compute(current))
	})
}
