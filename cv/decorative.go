package cv

import (
	"hash/fnv"
	"strconv"
)

const (
	decorativeMin = 70
	decorativeMax = 99
)

// DecorativePercent derives the cosmetic proficiency bar shown next to a skill.
//
// The value carries no information about the person: the record has no skill level.
// It only exists to keep the sidebar bars from all looking the same, and the same
// seed, skill and position always give the same value so previews and exports match.
func DecorativePercent(seed int64, skill string, index int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(seed, 10)))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(skill))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(strconv.Itoa(index)))
	span := uint32(decorativeMax - decorativeMin + 1)
	return decorativeMin + int(h.Sum32()%span)
}
