package query

import "goal-app/src/domain"

// Stats filters the snapshot with q and summarizes the result.
// Sort and pagination settings in q are ignored.
func Stats(snapshot []domain.Goal, q domain.GoalQuery, today string) domain.GoalStats {
	return Summarize(Filter(snapshot, q, today), today)
}

// Summarize counts goals by completion, overdue state and priority.
// Goals with an unknown priority are left out of every priority bucket.
func Summarize(goals []domain.Goal, today string) domain.GoalStats {
	var s domain.GoalStats
	s.Total = len(goals)
	for i := range goals {
		g := &goals[i]
		if g.Completed {
			s.Completed++
		}
		if g.IsOverdue(today) {
			s.Overdue++
		}
		switch g.Priority {
		case domain.PriorityLow:
			s.ByPriority.Low++
		case domain.PriorityMedium:
			s.ByPriority.Medium++
		case domain.PriorityHigh:
			s.ByPriority.High++
		}
	}
	s.Active = s.Total - s.Completed
	return s
}
