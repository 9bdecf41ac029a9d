// Package progress tracks per-user, per-course lecture completion.
//
// Per (user, course) the completion record moves NotStarted -> InProgress ->
// Completed as lectures are marked complete. The completion set only grows;
// no operation un-completes a lecture.
package progress

import (
	"context"
	"math"

	"coursely/internal/apperrors"
	"coursely/internal/models"
)

// Status is the derived completion state of a (user, course) record.
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Summary is the result of a progress read.
type Summary struct {
	Completed  int    `json:"completed"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
	Status     Status `json:"status"`
}

// CourseRepository provides the course content a completion is checked
// against.
type CourseRepository interface {
	GetCourseByID(ctx context.Context, id string) (*models.Course, error)
}

// EnrollmentRepository answers enrollment lookups.
type EnrollmentRepository interface {
	IsEnrolled(ctx context.Context, userID, courseID string) (bool, error)
}

// Repository persists completion sets.
type Repository interface {
	// GetProgress returns the progress record for a (user, course) pair, or
	// an empty record if none has been written yet.
	GetProgress(ctx context.Context, userID, courseID string) (*models.Progress, error)
	// AddCompletedLecture adds a lecture id to the completion set. The add
	// is a set union, so duplicate adds are harmless.
	AddCompletedLecture(ctx context.Context, userID, courseID, lectureID string) error
}

// Tracker coordinates completion writes and progress reads.
type Tracker struct {
	courses     CourseRepository
	enrollments EnrollmentRepository
	progress    Repository
}

func NewTracker(courses CourseRepository, enrollments EnrollmentRepository, progress Repository) *Tracker {
	return &Tracker{courses: courses, enrollments: enrollments, progress: progress}
}

// MarkLectureComplete records that the user finished a lecture. It is
// idempotent: marking the same lecture twice leaves the progress unchanged.
func (t *Tracker) MarkLectureComplete(ctx context.Context, req *models.MarkLectureCompleteRequest) error {
	enrolled, err := t.enrollments.IsEnrolled(ctx, req.UserID, req.CourseID)
	if err != nil {
		return err
	}
	if !enrolled {
		return apperrors.NotEnrolledError
	}

	course, err := t.courses.GetCourseByID(ctx, req.CourseID)
	if err != nil {
		return err
	}
	if !courseHasLecture(course, req.LectureID) {
		return apperrors.UnknownLectureError
	}

	return t.progress.AddCompletedLecture(ctx, req.UserID, req.CourseID, req.LectureID)
}

// Get returns the user's progress through a course. Reads have no side
// effects.
func (t *Tracker) Get(ctx context.Context, userID, courseID string) (*Summary, error) {
	course, err := t.courses.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	record, err := t.progress.GetProgress(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	return Summarize(course, record), nil
}

// Summarize derives a Summary from a course and a completion record.
// Completed lectures are counted against the course's current content, so
// the completed count never exceeds the total even if lectures were removed
// after they were finished.
func Summarize(course *models.Course, record *models.Progress) *Summary {
	lectures := lectureSet(course)
	total := len(lectures)

	completed := 0
	if record != nil {
		for _, id := range record.LectureCompleted {
			if lectures[id] {
				completed++
			}
		}
	}

	summary := &Summary{Completed: completed, Total: total, Status: StatusNotStarted}
	if total > 0 {
		summary.Percentage = int(math.Round(float64(completed) / float64(total) * 100))
	}

	switch {
	case total > 0 && completed == total:
		summary.Status = StatusCompleted
	case completed > 0:
		summary.Status = StatusInProgress
	}

	return summary
}

func courseHasLecture(course *models.Course, lectureID string) bool {
	return lectureSet(course)[lectureID]
}

func lectureSet(course *models.Course) map[string]bool {
	lectures := make(map[string]bool)
	for _, chapter := range course.Content {
		for _, lecture := range chapter.Content {
			lectures[lecture.ID] = true
		}
	}
	return lectures
}
