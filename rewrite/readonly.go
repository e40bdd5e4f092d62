package rewrite

import "github.com/kestrelfix/datafix/dynamic"

// Count walks d and every descendant, pre-order, returning how many nodes satisfy
// predicate. Unlike the transforming combinators it cannot fail: a node with no
// children simply contributes 0 from its (empty) subtree.
func Count[T any](d dynamic.Dynamic[T], predicate func(dynamic.Dynamic[T]) bool) int {
	total := 0
	if predicate(d) {
		total++
	}
	for _, child := range children(d) {
		total += Count(child, predicate)
	}
	return total
}

// Collect walks d and every descendant, pre-order, returning every node satisfying
// predicate in traversal order.
func Collect[T any](d dynamic.Dynamic[T], predicate func(dynamic.Dynamic[T]) bool) []dynamic.Dynamic[T] {
	var out []dynamic.Dynamic[T]
	if predicate(d) {
		out = append(out, d)
	}
	for _, child := range children(d) {
		out = append(out, Collect(child, predicate)...)
	}
	return out
}

// children returns d's immediate children for read-only traversal: map values, list
// elements, or none for a scalar leaf.
func children[T any](d dynamic.Dynamic[T]) []dynamic.Dynamic[T] {
	if entries, ok := d.Ops.GetMapEntries(d.Value).Get(); ok {
		out := make([]dynamic.Dynamic[T], len(entries))
		for i, e := range entries {
			out[i] = dynamic.New(d.Ops, e.Value)
		}
		return out
	}
	if items, ok := d.Ops.GetList(d.Value).Get(); ok {
		out := make([]dynamic.Dynamic[T], len(items))
		for i, item := range items {
			out[i] = dynamic.New(d.Ops, item)
		}
		return out
	}
	return nil
}
