// Package coursestats computes derived figures (ratings, durations, lecture
// counts) from course content. Everything here is a pure function of its
// input and safe to call concurrently.
package coursestats

import (
	"fmt"

	"coursely/internal/models"

	"github.com/golang/glog"
)

// Duration is a lecture-time total expressed in hours and minutes.
type Duration struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

func (d Duration) String() string {
	if d.Hours == 0 {
		return fmt.Sprintf("%dm", d.Minutes)
	}
	if d.Minutes == 0 {
		return fmt.Sprintf("%dh", d.Hours)
	}
	return fmt.Sprintf("%dh %dm", d.Hours, d.Minutes)
}

// TotalMinutes returns the duration as a flat minute count.
func (d Duration) TotalMinutes() int {
	return d.Hours*60 + d.Minutes
}

func durationFromMinutes(minutes int) Duration {
	return Duration{Hours: minutes / 60, Minutes: minutes % 60}
}

// AverageRating returns the floor of the mean rating of a course, or 0 when
// the course has no ratings. The result is always within [0, 5] for rating
// values within [1, 5].
func AverageRating(course *models.Course) int {
	if len(course.Ratings) == 0 {
		return 0
	}

	total := 0
	for _, r := range course.Ratings {
		total += r.Rating
	}
	return total / len(course.Ratings)
}

// ChapterDuration sums the lecture durations within one chapter.
func ChapterDuration(chapter *models.Chapter) Duration {
	minutes := 0
	for _, lecture := range chapter.Content {
		minutes += lecture.Duration
	}
	return durationFromMinutes(minutes)
}

// CourseDuration sums all lecture durations across all chapters of a course.
func CourseDuration(course *models.Course) Duration {
	minutes := 0
	for _, chapter := range course.Content {
		for _, lecture := range chapter.Content {
			minutes += lecture.Duration
		}
	}
	return durationFromMinutes(minutes)
}

// LectureCount returns the total number of lectures in a course. Chapters
// without a well-formed content sequence are logged and skipped rather than
// failing the whole computation.
func LectureCount(course *models.Course) int {
	total := 0
	for _, chapter := range course.Content {
		if chapter.Content == nil {
			glog.Warningf("course %v: chapter %v has no content sequence, skipping", course.ID, chapter.ID)
			continue
		}
		total += len(chapter.Content)
	}
	return total
}
