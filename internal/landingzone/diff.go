package landingzone

import "sort"

// Diff is the change needed to turn the current governed regions into the
// desired ones.
type Diff struct {
	ToAdd    []string
	ToRemove []string
}

// Empty reports whether no region change is needed.
func (d Diff) Empty() bool {
	return len(d.ToAdd) == 0 && len(d.ToRemove) == 0
}

// ComputeDiff returns desired minus current as ToAdd and current minus
// desired as ToRemove. Both slices are sorted and free of duplicates.
func ComputeDiff(desired, current []string) Diff {
	desiredSet := toSet(desired)
	currentSet := toSet(current)

	return Diff{
		ToAdd:    minus(desiredSet, currentSet),
		ToRemove: minus(currentSet, desiredSet),
	}
}

// Dedupe returns regions without duplicates, keeping first occurrences in order.
func Dedupe(regions []string) []string {
	seen := make(map[string]struct{}, len(regions))
	out := make([]string, 0, len(regions))
	for _, r := range regions {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

func toSet(regions []string) map[string]struct{} {
	set := make(map[string]struct{}, len(regions))
	for _, r := range regions {
		set[r] = struct{}{}
	}
	return set
}

func minus(a, b map[string]struct{}) []string {
	out := []string{}
	for r := range a {
		if _, ok := b[r]; !ok {
			out = append(out, r)
		}
	}
	sort.Strings(out)
	return out
}
