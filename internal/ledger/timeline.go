package ledger

import (
	"time"

	"job-tracker/internal/models"
)

// Stage is one step of the pipeline as shown on an application card.
type Stage struct {
	Status models.Status `json:"status"`
	Active bool          `json:"active"`
	Date   *time.Time    `json:"date,omitempty"`
}

// Timeline is the display form of a ledger.
type Timeline struct {
	Rejected bool    `json:"rejected"`
	Stages   []Stage `json:"stages"`
}

// BuildTimeline lays out the pipeline stages for an application in current
// status. Rejected applications show all five stages; everything else shows
// Saved through Offer. A stage is active when it is at or before current.
// Stage dates come from the earliest ledger entry for that status.
func BuildTimeline(current models.Status, entries []models.StatusHistoryEntry) Timeline {
	first := make(map[models.Status]time.Time)
	sorted := Sort(entries)
	for i := len(sorted) - 1; i >= 0; i-- {
		if _, seen := first[sorted[i].Status]; !seen {
			first[sorted[i].Status] = sorted[i].StatusDate
		}
	}

	stages := models.Statuses
	rejected := current == models.StatusRejected
	if !rejected {
		stages = stages[:len(stages)-1]
	}

	currentIdx := 1
	for i, s := range stages {
		if s == current {
			currentIdx = i
		}
	}

	tl := Timeline{Rejected: rejected, Stages: make([]Stage, 0, len(stages))}
	for i, s := range stages {
		tl.Stages = append(tl.Stages, Stage{
			Status: s,
			Active: i <= currentIdx,
			Date:   stageDate(s, current, first),
		})
	}
	return tl
}

func stageDate(stage, current models.Status, first map[models.Status]time.Time) *time.Time {
	lookup := func(s models.Status) *time.Time {
		if d, ok := first[s]; ok {
			return &d
		}
		return nil
	}
	switch stage {
	case models.StatusSaved:
		if d := lookup(models.StatusSaved); d != nil {
			return d
		}
		return lookup(models.StatusApplied)
	case models.StatusApplied:
		if current == models.StatusSaved {
			return nil
		}
		return lookup(models.StatusApplied)
	default:
		return lookup(stage)
	}
}
