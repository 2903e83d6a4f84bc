package felicity_modbus

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanGroupsContiguity(t *testing.T) {
	require := require.New(t)

	descs := []RegisterDescriptor{
		reg("c", "", 12, ScaleRaw, 0),
		reg("a", "", 10, ScaleRaw, 0),
		reg("b", "", 11, ScaleRaw, 0),
		reg("e", "", 20, ScaleRaw, 0).words(2),
		reg("f", "", 22, ScaleRaw, 0).words(4),
		reg("g", "", 30, ScaleRaw, 0),
	}
	groups := PlanGroups(descs)
	require.Len(groups, 3)
	require.Equal(RegisterGroup{Start: 10, Count: 3, Keys: []string{"a", "b", "c"}}, groups[0])
	require.Equal(RegisterGroup{Start: 20, Count: 6, Keys: []string{"e", "f"}}, groups[1])
	require.Equal(RegisterGroup{Start: 30, Count: 1, Keys: []string{"g"}}, groups[2])
}

func TestPlanGroupsWordCap(t *testing.T) {
	require := require.New(t)

	var descs []RegisterDescriptor
	for i := 0; i < 130; i++ {
		descs = append(descs, reg(fmt.Sprintf("r%03d", i), "", uint16(1000+i), ScaleRaw, 0))
	}
	groups := PlanGroups(descs)
	require.Len(groups, 2)
	require.EqualValues(120, groups[0].Count)
	require.EqualValues(1120, groups[1].Start)
	require.EqualValues(10, groups[1].Count)

	// a size 2 register that would straddle the cap opens a new group
	descs = descs[:119]
	descs = append(descs, reg("wide", "", 1119, ScaleRaw, 0).words(2))
	groups = PlanGroups(descs)
	require.Len(groups, 2)
	require.EqualValues(119, groups[0].Count)
	require.Equal([]string{"wide"}, groups[1].Keys)
}

func TestPlanGroupsProperties(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		var descs []RegisterDescriptor
		addr := uint16(rnd.Intn(100))
		for i := 0; i < 20+rnd.Intn(300); i++ {
			size := []uint16{1, 1, 1, 2, 4}[rnd.Intn(5)]
			descs = append(descs, reg(fmt.Sprintf("k%04d", i), "", addr, ScaleRaw, 0).words(size))
			addr += size
			if rnd.Intn(10) == 0 {
				addr += uint16(1 + rnd.Intn(5))
			}
		}
		rnd.Shuffle(len(descs), func(i, j int) { descs[i], descs[j] = descs[j], descs[i] })

		groups := PlanGroups(descs)
		checkGroups(t, descs, groups)
	}
}

func TestPlanGroupsRegisterMaps(t *testing.T) {
	for _, family := range []ModelFamily{FamilyTrex10K, FamilyTrex50K} {
		m := DefaultRegisterMap(family)
		descs := m.Descriptors()
		checkGroups(t, descs, PlanGroups(descs))
	}
}

func checkGroups(t *testing.T, descs []RegisterDescriptor, groups []RegisterGroup) {
	t.Helper()
	assert := assert.New(t)

	byKey := make(map[string]RegisterDescriptor, len(descs))
	for _, d := range descs {
		byKey[d.Key] = d
	}

	var keys []string
	var lastAddr int = -1
	for i, g := range groups {
		assert.LessOrEqual(int(g.Count), MaxGroupWords)
		sum := uint16(0)
		next := g.Start
		for _, k := range g.Keys {
			d := byKey[k]
			assert.Equal(next, d.Address, "gap inside group at %s", k)
			assert.Greater(int(d.Address), lastAddr, "keys out of address order")
			lastAddr = int(d.Address)
			next += d.Size
			sum += d.Size
		}
		assert.Equal(g.Count, sum)
		keys = append(keys, g.Keys...)

		if i > 0 {
			prev := groups[i-1]
			assert.LessOrEqual(prev.End(), g.Start, "groups overlap")
			// maximal: adjacent groups are either apart or too large to merge
			first := byKey[g.Keys[0]]
			mergeable := prev.End() == g.Start && int(prev.Count+first.Size) <= MaxGroupWords
			assert.False(mergeable, "groups at %d and %d could be merged", prev.Start, g.Start)
		}
	}

	assert.Len(keys, len(descs))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		assert.False(seen[k], "key %s planned twice", k)
		seen[k] = true
	}
}
