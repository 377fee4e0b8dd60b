package service

import (
	"time"

	"studyhub/internal/storage"
)

const studyDateLayout = "2006-01-02"

// AdvanceStreak applies a study ping on day today (UTC) to prev, which may be nil.
// A ping on the same day changes nothing, a ping on the following day extends
// the streak, and any longer gap starts over at one.
func AdvanceStreak(prev *storage.Streak, ownerID string, today time.Time) storage.Streak {
	date := today.UTC().Format(studyDateLayout)
	if prev == nil {
		return storage.Streak{OwnerID: ownerID, LastStudyDate: date, CurrentStreak: 1, BestStreak: 1}
	}

	next := *prev
	if prev.LastStudyDate == date {
		return next
	}

	yesterday := today.UTC().AddDate(0, 0, -1).Format(studyDateLayout)
	if prev.LastStudyDate == yesterday {
		next.CurrentStreak++
	} else {
		next.CurrentStreak = 1
	}
	next.BestStreak = max(next.BestStreak, next.CurrentStreak)
	next.LastStudyDate = date
	return next
}
