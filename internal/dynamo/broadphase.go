package dynamo

import "sort"

type shapePair struct {
	a, b *Shape
}

// canCollide filters pairs before any geometry is tested.
func canCollide(a, b *Shape) bool {
	if a.body == b.body {
		return false
	}
	if a.body.IsStatic() && b.body.IsStatic() {
		return false
	}
	if a.group != 0 && a.group == b.group {
		return false
	}
	return true
}

// sweepAndPrune sorts shapes by the lower x bound of their boxes and walks
// the overlapping intervals. Ties keep insertion order, so the pair list is
// identical for identical worlds. Within a pair, a is the earlier-added shape.
func sweepAndPrune(shapes []*Shape) []shapePair {
	order := make([]int, len(shapes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return shapes[order[i]].bounds.Min[0] < shapes[order[j]].bounds.Min[0]
	})

	var pairs []shapePair
	for i, si := range order {
		a := shapes[si]
		for _, sj := range order[i+1:] {
			b := shapes[sj]
			if b.bounds.Min[0] > a.bounds.Max[0] {
				break
			}
			if !a.bounds.Overlaps(b.bounds) || !canCollide(a, b) {
				continue
			}
			if sj < si {
				pairs = append(pairs, shapePair{a: b, b: a})
			} else {
				pairs = append(pairs, shapePair{a: a, b: b})
			}
		}
	}
	return pairs
}
