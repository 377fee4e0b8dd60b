// Package analytics computes owner-scoped upload statistics over in-memory documents.
package analytics

import (
	"time"

	"studyhub/internal/document"
)

// DaysPerWeek is the number of buckets in a weekly series.
const DaysPerWeek = 7

const dateLayout = "2006-01-02"

// WeeklyUploads is a dense Monday..Sunday upload series.
type WeeklyUploads struct {
	Labels [DaysPerWeek]string
	Data   [DaysPerWeek]int
}

// WeekStart returns Monday 00:00 UTC of the week containing now.
func WeekStart(now time.Time) time.Time {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	// time.Sunday is 0, so Sunday walks back six days rather than forward one.
	offset := int(midnight.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += DaysPerWeek
	}
	return midnight.AddDate(0, 0, -offset)
}

// WeeklyCounts buckets the owner's documents created since the start of the
// current week by UTC calendar day.
func WeeklyCounts(owner string, now time.Time, docs []document.Document) WeeklyUploads {
	start := WeekStart(now)

	var out WeeklyUploads
	index := make(map[string]int, DaysPerWeek)
	for i := 0; i < DaysPerWeek; i++ {
		label := start.AddDate(0, 0, i).Format(dateLayout)
		out.Labels[i] = label
		index[label] = i
	}

	for _, d := range docs {
		if d.OwnerID != owner || d.CreatedAt.Before(start) {
			continue
		}
		if i, ok := index[d.CreatedAt.UTC().Format(dateLayout)]; ok {
			out.Data[i]++
		}
	}

	return out
}
