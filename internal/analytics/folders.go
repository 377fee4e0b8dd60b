package analytics

import (
	"math"
	"sort"
	"time"

	"studyhub/internal/document"
)

// FolderSummary is the number of documents in one folder.
type FolderSummary struct {
	Name  string
	Count int
}

// FolderReport ranks an owner's folders and projects completion of the largest one.
type FolderReport struct {
	Folders       []FolderSummary
	BiggestFolder string
	BiggestCount  int
	DaysLeft      int
}

const day = 24 * time.Hour

// AnalyzeFolders groups the owner's documents by folder, largest first, and
// estimates the days left for the biggest folder from its upload cadence.
// Folders with equal counts keep the order in which they first appear in docs.
func AnalyzeFolders(owner string, docs []document.Document) FolderReport {
	counts := make(map[string]int)
	var order []string
	byFolder := make(map[string][]time.Time)

	for _, d := range docs {
		if d.OwnerID != owner {
			continue
		}
		name := d.FolderName()
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
		byFolder[name] = append(byFolder[name], d.CreatedAt)
	}

	folders := make([]FolderSummary, 0, len(order))
	for _, name := range order {
		folders = append(folders, FolderSummary{Name: name, Count: counts[name]})
	}
	sort.SliceStable(folders, func(i, j int) bool {
		return folders[i].Count > folders[j].Count
	})

	report := FolderReport{
		Folders:       folders,
		BiggestFolder: document.DefaultFolder,
	}
	if len(folders) == 0 {
		return report
	}

	biggest := folders[0]
	report.BiggestFolder = biggest.Name
	report.BiggestCount = biggest.Count
	report.DaysLeft = projectDaysLeft(biggest.Count, byFolder[biggest.Name])
	return report
}

// projectDaysLeft multiplies the mean days between uploads by the number of
// uploads still expected. target comes from the same snapshot as uploads, so
// the remaining count is zero unless a separate target is ever supplied.
func projectDaysLeft(target int, uploads []time.Time) int {
	if len(uploads) < 2 {
		return 0
	}

	sorted := make([]time.Time, len(uploads))
	copy(sorted, uploads)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	var total time.Duration
	for i := 1; i < len(sorted); i++ {
		total += sorted[i].Sub(sorted[i-1])
	}
	daysPerUpload := float64(total) / float64(len(sorted)-1) / float64(day)

	return int(math.Round(daysPerUpload * float64(target-len(sorted))))
}
