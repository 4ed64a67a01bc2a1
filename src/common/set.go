package common

import (
	"cmp"
	"slices"
)

type Set[T cmp.Ordered] map[T]struct{}

func NewSet[T cmp.Ordered]() Set[T] {
	return make(Set[T])
}

func (set Set[T]) Add(item T) Set[T] {
	set[item] = struct{}{}
	return set
}

func (set Set[T]) Contains(item T) bool {
	_, ok := set[item]
	return ok
}

func (set Set[T]) SortedValues() []T {
	values := make([]T, 0, len(set))
	for val := range set {
		values = append(values, val)
	}
	slices.Sort(values)
	return values
}
