package cv

import (
	"encoding/json"
	"strings"
)

// TrackedSections is the number of fields counted by ComputeStats.
const TrackedSections = 8

// Stats summarizes how complete a record is.
type Stats struct {
	FilledSections int     `json:"filled_sections"`
	TotalSections  int     `json:"total_sections"`
	WordCount      int     `json:"word_count"`
	SizeKB         float64 `json:"size_kb"`
}

// ComputeStats counts filled sections, words in free text and the serialized size.
func ComputeStats(r Record) Stats {
	stats := Stats{TotalSections: TrackedSections}
	for _, filled := range []bool{
		r.Personal.FullName != "",
		r.Personal.Profession != "",
		r.Personal.Summary != "",
		len(r.Experiences) > 0,
		len(r.Educations) > 0,
		len(r.Skills) > 0,
		len(r.Languages) > 0,
		len(r.Interests) > 0,
	} {
		if filled {
			stats.FilledSections++
		}
	}

	stats.WordCount = len(strings.Fields(r.Personal.Summary))
	for _, exp := range r.Experiences {
		stats.WordCount += len(strings.Fields(exp.Description))
	}
	for _, edu := range r.Educations {
		stats.WordCount += len(strings.Fields(edu.Description))
	}

	if payload, err := json.Marshal(r); err == nil {
		stats.SizeKB = float64(int(float64(len(payload))/1024*100+0.5)) / 100
	}
	return stats
}
