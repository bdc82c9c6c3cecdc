package config

import "reflect"

// Merge folds overlay into base and returns base, allocating it when nil.
//
// For each key of overlay: a key missing from base is copied; two mappings
// are merged recursively; two sequences become overlay's items followed by
// base's, with duplicates dropped after their first occurrence; any other
// combination is replaced by the overlay value. Values copied from overlay
// are deep-cloned so the result never aliases it.
func Merge(base, overlay Config) Config {
	if base == nil {
		base = Config{}
	}
	mergeInto(base, overlay)
	return base
}

func mergeInto(base, overlay map[string]any) {
	for key, ov := range overlay {
		bv, exists := base[key]
		if !exists {
			base[key] = cloneValue(ov)
			continue
		}

		if bm, ok := asMap(bv); ok {
			if om, ok := asMap(ov); ok {
				mergeInto(bm, om)
				continue
			}
		}

		if bs, ok := asSlice(bv); ok {
			if ovs, ok := asSlice(ov); ok {
				base[key] = union(ovs, bs)
				continue
			}
		}

		base[key] = cloneValue(ov)
	}
}

// union concatenates the given sequences, keeping the first occurrence of
// every value.
func union(seqs ...[]any) []any {
	var out []any
	seen := make(map[any]struct{})

	for _, seq := range seqs {
	next:
		for _, item := range seq {
			if isHashable(item) {
				if _, dup := seen[item]; dup {
					continue
				}
				seen[item] = struct{}{}
			} else {
				for _, existing := range out {
					if reflect.DeepEqual(existing, item) {
						continue next
					}
				}
			}
			out = append(out, cloneValue(item))
		}
	}

	if out == nil {
		out = []any{}
	}
	return out
}

func isHashable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}
