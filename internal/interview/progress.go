package interview

import (
	"sort"
	"strconv"
	"time"

	"prepmate/api/internal/models"
)

// swapped out in tests for deterministic streak/series math
var timeNow = time.Now

const (
	topRolesLimit  = 5
	dailySeriesLen = 7
)

// computeProgress derives aggregate statistics from a user's full session
// list: counts by status, the average of parseable overall scores among
// completed sessions, the top roles by frequency, a 7-day daily series
// (most recent day last), and the current streak.
func computeProgress(sessions []models.InterviewSession, now time.Time) *models.ProgressReport {
	report := &models.ProgressReport{
		TotalSessions: len(sessions),
		TopRoles:      []models.RoleCount{},
	}

	roleCounts := make(map[string]int)
	activeDays := make(map[string]bool)
	var scoreSum float64
	var scoreCount int

	for i := range sessions {
		session := &sessions[i]
		switch session.Status {
		case models.StatusActive:
			report.ActiveSessions++
		case models.StatusInProgress:
			report.InProgressCount++
		case models.StatusCompleted:
			report.CompletedSessions++
		}

		// non-numeric scores ("N/A") are excluded, not treated as zero
		if session.Status == models.StatusCompleted && session.Summary != nil {
			if score, err := strconv.ParseFloat(session.Summary.OverallScore, 64); err == nil {
				scoreSum += score
				scoreCount++
			}
		}

		roleCounts[session.Role]++
		activeDays[dayKey(session.CreatedAt, now.Location())] = true
	}

	if scoreCount > 0 {
		report.AverageScore = scoreSum / float64(scoreCount)
	}

	report.TopRoles = topRoles(roleCounts)
	report.DailySessions = dailySeries(sessions, now)
	report.CurrentStreak = currentStreak(activeDays, now)

	return report
}

func topRoles(counts map[string]int) []models.RoleCount {
	roles := make([]models.RoleCount, 0, len(counts))
	for role, count := range counts {
		roles = append(roles, models.RoleCount{Role: role, Count: count})
	}
	sort.Slice(roles, func(i, j int) bool {
		if roles[i].Count != roles[j].Count {
			return roles[i].Count > roles[j].Count
		}
		return roles[i].Role < roles[j].Role
	})
	if len(roles) > topRolesLimit {
		roles = roles[:topRolesLimit]
	}
	return roles
}

// dailySeries counts sessions per day over the last 7 days, oldest first.
func dailySeries(sessions []models.InterviewSession, now time.Time) []models.DailyCount {
	perDay := make(map[string]int)
	for i := range sessions {
		perDay[dayKey(sessions[i].CreatedAt, now.Location())]++
	}

	series := make([]models.DailyCount, 0, dailySeriesLen)
	for offset := dailySeriesLen - 1; offset >= 0; offset-- {
		day := dayKey(now.AddDate(0, 0, -offset), now.Location())
		series = append(series, models.DailyCount{Date: day, Count: perDay[day]})
	}
	return series
}

// currentStreak walks backward day-by-day counting consecutive days with
// at least one session, stopping at the first gap. Today counts when
// active but never breaks the streak, so a streak registers even before
// today's first session.
func currentStreak(activeDays map[string]bool, now time.Time) int {
	streak := 0
	if activeDays[dayKey(now, now.Location())] {
		streak++
	}
	for offset := 1; ; offset++ {
		if !activeDays[dayKey(now.AddDate(0, 0, -offset), now.Location())] {
			break
		}
		streak++
	}
	return streak
}

func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
