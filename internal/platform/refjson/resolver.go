// Package refjson normalizes reference-preserving JSON payloads as emitted by
// the legacy lab backend. The backend serializes object graphs with "$id" on
// the first occurrence of an object, "$ref" on every later occurrence, and
// wraps homogeneous sequences as {"$values": [...]}. Resolve flattens such a
// payload into a plain object graph; Collect walks a payload of unknown shape
// and gathers every object node matching a caller-supplied predicate.
package refjson

import (
	"reflect"
	"sort"
)

const (
	idKey     = "$id"
	refKey    = "$ref"
	valuesKey = "$values"

	// UnresolvedKey marks a node whose "$ref" target was never defined in the
	// payload. The node is kept in place so one corrupt reference cannot abort
	// processing of the rest of the graph.
	UnresolvedKey = "$unresolved"
)

// Resolve normalizes a decoded JSON value. "$id" markers are stripped,
// "$ref" nodes are substituted with the object registered under that id, and
// "$values" wrappers are replaced by their inner array. A "$ref" whose target
// is an ancestor still being expanded is left as-is: the cycle edge stays an
// opaque back-reference instead of being inlined. A "$ref" whose target was
// never seen becomes an UnresolvedKey marker node.
//
// The second return value lists the ids of unresolved references in the order
// they were encountered. Resolve is pure and never fails; an already
// reference-free value comes back unchanged.
func Resolve(root any) (any, []string) {
	r := &resolver{
		raw:      make(map[string]any),
		defs:     make(map[string]any),
		visiting: make(map[string]bool),
	}
	r.index(root, make(map[uintptr]bool))
	out := r.walk(root)
	return out, r.missing
}

type resolver struct {
	raw      map[string]any
	defs     map[string]any
	visiting map[string]bool
	missing  []string
}

// index registers every "$id" definition before substitution begins. The
// decoder has discarded document order, so a "$ref" can be walked before the
// sibling key holding its definition; lookup must not depend on key order.
func (r *resolver) index(node any, seen map[uintptr]bool) {
	switch v := node.(type) {
	case map[string]any:
		ptr := reflect.ValueOf(v).Pointer()
		if seen[ptr] {
			return
		}
		seen[ptr] = true
		if id, ok := v[idKey].(string); ok {
			if _, dup := r.raw[id]; !dup {
				r.raw[id] = v
			}
		}
		for _, elem := range v {
			r.index(elem, seen)
		}
	case []any:
		for _, elem := range v {
			r.index(elem, seen)
		}
	}
}

func (r *resolver) walk(node any) any {
	switch v := node.(type) {
	case map[string]any:
		return r.walkObject(v)
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = r.walk(elem)
		}
		return out
	default:
		return node
	}
}

func (r *resolver) walkObject(obj map[string]any) any {
	if ref, ok := obj[refKey].(string); ok {
		if r.visiting[ref] {
			// Back-reference into an ancestor. Inlining would re-enter the
			// node we are in the middle of expanding, so the edge stays
			// opaque.
			return map[string]any{refKey: ref}
		}
		if target, ok := r.defs[ref]; ok {
			return target
		}
		if raw, ok := r.raw[ref]; ok {
			// Definition lives elsewhere in the payload and has not been
			// walked yet. Resolve it now; the later natural encounter reuses
			// the memoized result.
			return r.walk(raw)
		}
		r.missing = append(r.missing, ref)
		return map[string]any{UnresolvedKey: ref}
	}

	// "$values" wraps a sequence; the wrapper itself carries no data beyond
	// an optional "$id".
	if inner, ok := obj[valuesKey]; ok {
		id, hasID := obj[idKey].(string)
		if hasID {
			if done, ok := r.defs[id]; ok {
				return done
			}
			r.visiting[id] = true
		}
		out := r.walk(inner)
		if hasID {
			delete(r.visiting, id)
			r.defs[id] = out
		}
		return out
	}

	out := make(map[string]any, len(obj))
	id, hasID := obj[idKey].(string)
	if hasID {
		if done, ok := r.defs[id]; ok {
			return done
		}
		// Register before descending so graphs where the object references
		// itself resolve against the node under construction.
		r.defs[id] = out
		r.visiting[id] = true
	}
	for k, v := range obj {
		if k == idKey {
			continue
		}
		out[k] = r.walk(v)
	}
	if hasID {
		delete(r.visiting, id)
	}
	return out
}

// Predicate decides whether an object node should be collected.
type Predicate func(node map[string]any) bool

// Collect performs a full traversal of a payload whose top-level structure is
// unknown and returns every object node satisfying pred, in traversal order,
// deduplicated by identity. "$values" wrappers are descended through, "$ref"
// nodes are not re-traversed, and a visited set keeps cyclic payloads from
// looping.
func Collect(root any, pred Predicate) []map[string]any {
	c := &collector{
		pred:    pred,
		visited: make(map[uintptr]bool),
	}
	c.walk(root)
	return c.found
}

type collector struct {
	pred    Predicate
	visited map[uintptr]bool
	found   []map[string]any
}

func (c *collector) walk(node any) {
	switch v := node.(type) {
	case map[string]any:
		ptr := reflect.ValueOf(v).Pointer()
		if c.visited[ptr] {
			return
		}
		c.visited[ptr] = true

		if _, isRef := v[refKey]; isRef {
			return
		}
		if inner, ok := v[valuesKey]; ok {
			c.walk(inner)
			return
		}
		if c.pred(v) {
			c.found = append(c.found, v)
		}
		// Key-sorted descent keeps collection order stable across runs.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			c.walk(v[k])
		}
	case []any:
		for _, elem := range v {
			c.walk(elem)
		}
	}
}

// IsUnresolved reports whether a node is an unresolved-reference marker
// produced by Resolve, returning the dangling id when it is.
func IsUnresolved(node any) (string, bool) {
	obj, ok := node.(map[string]any)
	if !ok {
		return "", false
	}
	id, ok := obj[UnresolvedKey].(string)
	return id, ok
}
