package core

import (
	"fmt"

	"github.com/mohae/deepcopy"
)

// DeepCopy returns a deep copy of v. It is used anywhere a cached value is
// handed to a caller so that the cache contents stay immutable.
func DeepCopy[T any](v T) (T, error) {
	var zero T
	copied, ok := deepcopy.Copy(v).(T)
	if !ok {
		return zero, fmt.Errorf("failed to copy value of type %T", v)
	}
	return copied, nil
}

// MustDeepCopy is DeepCopy for call sites where a copy failure is a
// programming error rather than a runtime condition.
func MustDeepCopy[T any](v T) T {
	copied, err := DeepCopy(v)
	if err != nil {
		panic(err)
	}
	return copied
}
