package services

import (
	"github.com/google/uuid"

	types "github.com/JithuMorrison/Lingzee/internal/domain"
)

// CourseCompleteThreshold is the average progress at which a course is
// reported as completed.
const CourseCompleteThreshold = 0.99

// AggregateCourseProgress averages rows over totalLessons; lessons without a
// row count as 0 and a course with no lessons is at 0.
func AggregateCourseProgress(rows []*types.LessonProgress, totalLessons int64) types.CourseProgress {
	out := types.CourseProgress{CompletedLessons: []uuid.UUID{}}
	sum := 0.0
	for _, r := range rows {
		if r == nil {
			continue
		}
		sum += r.Progress
		if r.Completed {
			out.CompletedLessons = append(out.CompletedLessons, r.LessonID)
		}
	}
	if totalLessons > 0 {
		out.Progress = sum / float64(totalLessons)
	}
	return out
}

// IsCourseComplete reports whether p counts as a completed course.
func IsCourseComplete(p types.CourseProgress) bool {
	return p.Progress >= CourseCompleteThreshold
}
