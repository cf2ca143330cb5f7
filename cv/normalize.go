package cv

import "strings"

// DefaultLevel is the language level used when a level is missing or out of range.
const DefaultLevel = 3

// NormalizeTemplate maps unknown or empty ids to DefaultTemplate.
func NormalizeTemplate(id TemplateID) TemplateID {
	normalized := TemplateID(strings.ToLower(strings.TrimSpace(string(id))))
	if IsKnownTemplate(normalized) {
		return normalized
	}
	return DefaultTemplate
}

// NormalizeLevel clamps a language level into 1..5, defaulting to DefaultLevel.
func NormalizeLevel(level int) int {
	if level < 1 || level > 5 {
		return DefaultLevel
	}
	return level
}

// Normalize returns the canonical form of r. The input is not modified.
func Normalize(r Record) Record {
	out := Clone(r)
	out.Template = NormalizeTemplate(out.Template)
	out.Skills = dropBlank(out.Skills)
	out.Interests = dropBlank(out.Interests)

	for i := range out.Languages {
		out.Languages[i].Level = NormalizeLevel(out.Languages[i].Level)
	}

	expIDs := make([]int64, len(out.Experiences))
	for i, e := range out.Experiences {
		expIDs[i] = e.ID
	}
	expIDs = uniqueIDs(expIDs)
	for i := range out.Experiences {
		out.Experiences[i].ID = expIDs[i]
	}

	eduIDs := make([]int64, len(out.Educations))
	for i, e := range out.Educations {
		eduIDs[i] = e.ID
	}
	eduIDs = uniqueIDs(eduIDs)
	for i := range out.Educations {
		out.Educations[i].ID = eduIDs[i]
	}

	langIDs := make([]int64, len(out.Languages))
	for i, l := range out.Languages {
		langIDs[i] = l.ID
	}
	langIDs = uniqueIDs(langIDs)
	for i := range out.Languages {
		out.Languages[i].ID = langIDs[i]
	}

	return out
}

// uniqueIDs keeps the first occurrence of every positive id and assigns ids above the
// current maximum to zero, negative and duplicate entries, preserving order.
func uniqueIDs(ids []int64) []int64 {
	alloc := NewIDAllocator(ids...)
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, len(ids))
	for i, id := range ids {
		if _, dup := seen[id]; id <= 0 || dup {
			id = alloc.Next()
		}
		seen[id] = struct{}{}
		out[i] = id
	}
	return out
}

// dropBlank removes whitespace-only entries without trimming the ones kept.
func dropBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
