// Package analytics derives dashboard metrics from applications and their
// status ledgers. Every function is pure: inputs are read only, nothing is
// fetched, and empty input yields zeroed results.
//
// Funnel and flow figures are snapshots of current status. An application that
// reached Interview and was later Rejected counts as Rejected only.
package analytics

import (
	"math"
	"strconv"
	"time"

	"job-tracker/internal/ledger"
	"job-tracker/internal/models"

	"github.com/google/uuid"
)

// Ledgers maps an application id to its status history.
type Ledgers map[uuid.UUID][]models.StatusHistoryEntry

// NoActiveDay is reported when there is nothing to count.
const NoActiveDay = "N/A"

type Performance struct {
	ResponseTime   float64 `json:"response_time"`
	LongestWaiting int     `json:"longest_waiting"`
}

type Volume struct {
	TotalApplications int     `json:"total_applications"`
	MostActiveDay     string  `json:"most_active_day"`
	MostActiveCount   int     `json:"most_active_count"`
	RatePerDay        float64 `json:"rate_per_day"`
	RatePerWeek       float64 `json:"rate_per_week"`
	RatePerMonth      float64 `json:"rate_per_month"`
	RatePerYear       float64 `json:"rate_per_year"`
}

type Funnel struct {
	AppliedToInterview int `json:"applied_to_interview"`
	InterviewToOffer   int `json:"interview_to_offer"`
}

// Stats counts applications per status, including Saved.
type Stats struct {
	Total    int                   `json:"total"`
	ByStatus map[models.Status]int `json:"by_status"`
}

// Summary bundles every metric shown on the dashboard.
type Summary struct {
	TotalApplied int         `json:"total_applied"`
	GhostRate    float64     `json:"ghost_rate"`
	Performance  Performance `json:"performance"`
	Volume       Volume      `json:"volume"`
	Funnel       Funnel      `json:"funnel"`
	Flow         Flow        `json:"flow"`
	Stats        Stats       `json:"stats"`
}

// Applied keeps applications whose current status is not Saved.
func Applied(apps []models.Application) []models.Application {
	out := make([]models.Application, 0, len(apps))
	for _, a := range apps {
		if a.CurrentStatus != models.StatusSaved {
			out = append(out, a)
		}
	}
	return out
}

func countByStatus(apps []models.Application) map[models.Status]int {
	counts := make(map[models.Status]int, len(models.Statuses))
	for _, a := range apps {
		counts[a.CurrentStatus]++
	}
	return counts
}

// ComputeStats returns the total and a count for each of the five statuses.
func ComputeStats(apps []models.Application) Stats {
	counts := countByStatus(apps)
	byStatus := make(map[models.Status]int, len(models.Statuses))
	for _, s := range models.Statuses {
		byStatus[s] = counts[s]
	}
	return Stats{Total: len(apps), ByStatus: byStatus}
}

// GhostRate is the share of applied applications still unresolved (Applied or
// Interview), as a percentage with one decimal.
func GhostRate(apps []models.Application) float64 {
	applied := Applied(apps)
	if len(applied) == 0 {
		return 0
	}
	counts := countByStatus(applied)
	ghosted := counts[models.StatusApplied] + counts[models.StatusInterview]
	return round1(float64(ghosted) / float64(len(applied)) * 100)
}

// ComputePerformance measures how long employers take to respond. Resolved or
// interviewing applications contribute status_changed_date minus their Applied
// date to the average; applications still Applied contribute now minus their
// Applied date to the longest wait. Applications without an Applied ledger
// entry are ignored.
func ComputePerformance(apps []models.Application, ledgers Ledgers, now time.Time) Performance {
	var (
		total      int
		responses  int
		maxWaiting int
	)
	for _, a := range Applied(apps) {
		appliedEntry, ok := ledger.Latest(ledgers[a.ID], models.StatusApplied)
		if !ok {
			continue
		}
		switch a.CurrentStatus {
		case models.StatusApplied:
			if waited := wholeDays(appliedEntry.StatusDate, now); waited > maxWaiting {
				maxWaiting = waited
			}
		case models.StatusInterview, models.StatusOffer, models.StatusRejected:
			total += wholeDays(appliedEntry.StatusDate, a.StatusChangedDate)
			responses++
		}
	}

	perf := Performance{LongestWaiting: maxWaiting}
	if responses > 0 {
		perf.ResponseTime = round1(float64(total) / float64(responses))
	}
	return perf
}

// ComputeVolume reports application throughput over the span of status change
// dates. Applications with no status change date are left out of the day and
// span calculations but still count toward the total.
func ComputeVolume(apps []models.Application) Volume {
	applied := Applied(apps)
	v := Volume{TotalApplications: len(applied), MostActiveDay: NoActiveDay}
	if len(applied) == 0 {
		return v
	}

	// Ties go to the weekday seen first, so remember the order of discovery.
	var (
		order  []time.Weekday
		counts = make(map[time.Weekday]int, 7)
		oldest time.Time
		newest time.Time
		dated  bool
	)
	for _, a := range applied {
		d := a.StatusChangedDate
		if d.IsZero() {
			continue
		}
		wd := d.Weekday()
		if _, seen := counts[wd]; !seen {
			order = append(order, wd)
		}
		counts[wd]++

		if !dated || d.Before(oldest) {
			oldest = d
		}
		if !dated || d.After(newest) {
			newest = d
		}
		dated = true
	}

	for _, wd := range order {
		if counts[wd] > v.MostActiveCount {
			v.MostActiveDay = wd.String()
			v.MostActiveCount = counts[wd]
		}
	}

	if !dated {
		return v
	}
	span := wholeDays(oldest, newest) + 1
	if span < 1 {
		span = 1
	}
	perDay := float64(v.TotalApplications) / float64(span)
	v.RatePerDay = round1(perDay)
	v.RatePerWeek = round1(perDay * 7)
	v.RatePerMonth = round1(perDay * 30)
	v.RatePerYear = round1(perDay * 365)
	return v
}

// ComputeFunnel converts current-status counts into stage conversion percentages.
func ComputeFunnel(apps []models.Application) Funnel {
	counts := countByStatus(apps)
	applied := counts[models.StatusApplied] + counts[models.StatusInterview] +
		counts[models.StatusOffer] + counts[models.StatusRejected]
	interviewed := counts[models.StatusInterview] + counts[models.StatusOffer]

	var f Funnel
	if applied > 0 {
		f.AppliedToInterview = roundInt(float64(interviewed) / float64(applied) * 100)
	}
	if interviewed > 0 {
		f.InterviewToOffer = roundInt(float64(counts[models.StatusOffer]) / float64(interviewed) * 100)
	}
	return f
}

// Summarize filters out Saved applications once and computes every dashboard
// metric from the remainder. Stats still covers all applications.
func Summarize(apps []models.Application, ledgers Ledgers, now time.Time) Summary {
	applied := Applied(apps)
	return Summary{
		TotalApplied: len(applied),
		GhostRate:    GhostRate(applied),
		Performance:  ComputePerformance(applied, ledgers, now),
		Volume:       ComputeVolume(applied),
		Funnel:       ComputeFunnel(applied),
		Flow:         ComputeFlow(applied),
		Stats:        ComputeStats(apps),
	}
}

// wholeDays is the number of complete days from a to b, floored.
func wholeDays(a, b time.Time) int {
	return int(math.Floor(b.Sub(a).Hours() / 24))
}

// round1 rounds the exact value of x to one decimal, halves to even.
func round1(x float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 1, 64), 64)
	return r
}

func roundInt(x float64) int {
	return int(math.RoundToEven(x))
}
