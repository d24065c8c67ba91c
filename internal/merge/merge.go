package merge

import (
	"strconv"

	"github.com/vk/diconfig/internal/node"
)

// Merge combines base and override into a new tree. Neither input is
// mutated.
//
// Rules, in priority order:
//   - an override collection marked Overwrite wins verbatim, marker cleared;
//   - two sequences append, base elements first;
//   - two collections otherwise merge key-wise: colliding keys merge
//     recursively in base order, new keys append in override order, and
//     positional override keys are re-indexed past the base entries;
//   - a null override keeps a collection base;
//   - anything else: override wins.
func Merge(base, override node.Node) node.Node {
	switch o := override.(type) {
	case *node.Mapping:
		if o.Overwrite {
			out := o.Copy()
			out.Overwrite = false
			return out
		}
	case *node.Sequence:
		if o.Overwrite {
			return &node.Sequence{Items: o.Items}
		}
	}

	if node.IsNull(override) {
		if isCollection(base) {
			return base
		}
		return override
	}

	bs, baseSeq := base.(*node.Sequence)
	os, overSeq := override.(*node.Sequence)
	if baseSeq && overSeq {
		items := make([]node.Node, 0, len(bs.Items)+len(os.Items))
		items = append(items, bs.Items...)
		items = append(items, os.Items...)
		return &node.Sequence{Items: items}
	}

	if isCollection(base) && isCollection(override) {
		bm, _ := node.MappingOf(base)
		om, _ := node.MappingOf(override)
		return mergeMappings(bm, om)
	}

	return override
}

func mergeMappings(base, override *node.Mapping) *node.Mapping {
	out := base.Copy()
	out.Overwrite = false
	next := nextIndex(out)
	for _, e := range override.Entries {
		switch {
		case node.IsIndex(e.Key):
			out.Entries = append(out.Entries, node.Entry{Key: strconv.Itoa(next), Value: e.Value})
			next++
		default:
			if prev, ok := out.Get(e.Key); ok {
				out.Set(e.Key, Merge(prev, e.Value))
			} else {
				out.Entries = append(out.Entries, e)
			}
		}
	}
	return out
}

func nextIndex(m *node.Mapping) int {
	next := 0
	for _, e := range m.Entries {
		if i, err := strconv.Atoi(e.Key); err == nil && i >= next {
			next = i + 1
		}
	}
	return next
}

func isCollection(n node.Node) bool {
	switch n.(type) {
	case *node.Mapping, *node.Sequence:
		return true
	}
	return false
}
