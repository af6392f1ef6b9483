package mdterror

// Expected holds either a value or an error, never both.
type Expected[T any] struct {
	value T
	err   *Error
	ok    bool
}

// Value builds an Expected holding v.
func Value[T any](v T) Expected[T] {
	return Expected[T]{value: v, ok: true}
}

// Failure builds an Expected holding err. A nil err is replaced by an UnknownError.
func Failure[T any](err *Error) Expected[T] {
	if err == nil {
		err = New("unknown failure", LevelCritical, "Expected")
	}
	return Expected[T]{err: err}
}

// HasValue reports if e holds a value.
func (e Expected[T]) HasValue() bool {
	return e.ok
}

// Value returns the held value. It panics if e holds an error.
func (e Expected[T]) Value() T {
	if !e.ok {
		panic("mdterror: Value called on an Expected holding an error: " + e.err.Error())
	}
	return e.value
}

// Err returns the held error, nil if e holds a value.
func (e Expected[T]) Err() *Error {
	if e.ok {
		return nil
	}
	return e.err
}

// Get returns the pair form, suited to the usual if err != nil checks.
func (e Expected[T]) Get() (T, error) {
	if !e.ok {
		var zero T
		if e.err == nil {
			return zero, New("empty result", LevelCritical, "Expected")
		}
		return zero, e.err
	}
	return e.value, nil
}
