package felicity_modbus

import (
	"cmp"
	"slices"
)

const (
	MaxGroupWords = 120
)

type RegisterGroup struct {
	Start uint16
	Count uint16
	Keys  []string
}

func (g RegisterGroup) End() uint16 {
	return g.Start + g.Count
}

// PlanGroups packs descriptors into contiguous read spans of at most MaxGroupWords words.
func PlanGroups(descs []RegisterDescriptor) []RegisterGroup {
	sorted := slices.Clone(descs)
	slices.SortStableFunc(sorted, func(a, b RegisterDescriptor) int {
		if c := cmp.Compare(a.Address, b.Address); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})

	var groups []RegisterGroup
	var current *RegisterGroup
	for _, d := range sorted {
		if current != nil && d.Address == current.End() && current.Count+d.Size <= MaxGroupWords {
			current.Count += d.Size
			current.Keys = append(current.Keys, d.Key)
			continue
		}
		if current != nil {
			groups = append(groups, *current)
		}
		current = &RegisterGroup{
			Start: d.Address,
			Count: d.Size,
			Keys:  []string{d.Key},
		}
	}
	if current != nil {
		groups = append(groups, *current)
	}
	return groups
}
