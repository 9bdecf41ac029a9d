package progress

import (
	"context"
	"errors"
	"testing"

	"coursely/internal/apperrors"
	"coursely/internal/models"
)

type fakeRepo struct {
	courses     map[string]*models.Course
	enrolled    map[string]bool
	completions map[string][]string
}

func newFakeRepo(course *models.Course) *fakeRepo {
	return &fakeRepo{
		courses:     map[string]*models.Course{course.ID: course},
		enrolled:    make(map[string]bool),
		completions: make(map[string][]string),
	}
}

func (f *fakeRepo) GetCourseByID(_ context.Context, id string) (*models.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, apperrors.CourseNotFoundError
	}
	return course, nil
}

func (f *fakeRepo) IsEnrolled(_ context.Context, userID, courseID string) (bool, error) {
	return f.enrolled[models.EnrollmentID(userID, courseID)], nil
}

func (f *fakeRepo) GetProgress(_ context.Context, userID, courseID string) (*models.Progress, error) {
	return &models.Progress{
		UserID:           userID,
		CourseID:         courseID,
		LectureCompleted: f.completions[models.ProgressID(userID, courseID)],
	}, nil
}

func (f *fakeRepo) AddCompletedLecture(_ context.Context, userID, courseID, lectureID string) error {
	key := models.ProgressID(userID, courseID)
	for _, id := range f.completions[key] {
		if id == lectureID {
			return nil
		}
	}
	f.completions[key] = append(f.completions[key], lectureID)
	return nil
}

func createCourse(lectureIDs ...string) *models.Course {
	chapter := models.Chapter{ID: "ch01", Order: 1}
	for _, id := range lectureIDs {
		chapter.Content = append(chapter.Content, models.Lecture{ID: id, Duration: 10})
	}
	return &models.Course{ID: "course-1", Content: []models.Chapter{chapter}}
}

func createTracker(course *models.Course) (*Tracker, *fakeRepo) {
	repo := newFakeRepo(course)
	return NewTracker(repo, repo, repo), repo
}

func TestMarkLectureCompleteRequiresEnrollment(t *testing.T) {
	tracker, _ := createTracker(createCourse("lec01"))

	err := tracker.MarkLectureComplete(context.Background(), &models.MarkLectureCompleteRequest{
		UserID: "u1", CourseID: "course-1", LectureID: "lec01",
	})
	if !errors.Is(err, apperrors.NotEnrolledError) {
		t.Errorf("Expected NotEnrolledError, got %v", err)
	}
}

func TestMarkLectureCompleteUnknownLecture(t *testing.T) {
	tracker, repo := createTracker(createCourse("lec01"))
	repo.enrolled["u1_course-1"] = true

	err := tracker.MarkLectureComplete(context.Background(), &models.MarkLectureCompleteRequest{
		UserID: "u1", CourseID: "course-1", LectureID: "lec99",
	})
	if !errors.Is(err, apperrors.UnknownLectureError) {
		t.Errorf("Expected UnknownLectureError, got %v", err)
	}
}

func TestMarkLectureCompleteIsIdempotent(t *testing.T) {
	tracker, repo := createTracker(createCourse("lec01", "lec02"))
	repo.enrolled["u1_course-1"] = true

	req := &models.MarkLectureCompleteRequest{UserID: "u1", CourseID: "course-1", LectureID: "lec01"}
	for i := 0; i < 3; i++ {
		if err := tracker.MarkLectureComplete(context.Background(), req); err != nil {
			t.Fatalf("Unexpected error marking lecture complete: %v", err)
		}
	}

	summary, err := tracker.Get(context.Background(), "u1", "course-1")
	if err != nil {
		t.Fatalf("Unexpected error reading progress: %v", err)
	}
	if summary.Completed != 1 {
		t.Errorf("Expected 1 completed lecture after duplicate marks, got %d", summary.Completed)
	}
	if summary.Status != StatusInProgress {
		t.Errorf("Expected status IN_PROGRESS, got %v", summary.Status)
	}
}

func TestGetPercentage(t *testing.T) {
	lectureIDs := []string{"l0", "l1", "l2", "l3", "l4", "l5", "l6", "l7", "l8", "l9"}
	tracker, repo := createTracker(createCourse(lectureIDs...))
	repo.enrolled["u1_course-1"] = true
	repo.completions["u1_course-1"] = []string{"l0", "l1", "l2"}

	summary, err := tracker.Get(context.Background(), "u1", "course-1")
	if err != nil {
		t.Fatalf("Unexpected error reading progress: %v", err)
	}
	if summary.Percentage != 30 {
		t.Errorf("Expected 30%%, got %d%%", summary.Percentage)
	}
}

func TestGetEmptyCourse(t *testing.T) {
	tracker, _ := createTracker(createCourse())

	summary, err := tracker.Get(context.Background(), "u1", "course-1")
	if err != nil {
		t.Fatalf("Unexpected error reading progress: %v", err)
	}
	if summary.Percentage != 0 || summary.Total != 0 {
		t.Errorf("Expected zero progress for a course without lectures, got %+v", summary)
	}
	if summary.Status != StatusNotStarted {
		t.Errorf("Expected status NOT_STARTED, got %v", summary.Status)
	}
}

func TestStatusTransitions(t *testing.T) {
	course := createCourse("lec01", "lec02")

	summary := Summarize(course, &models.Progress{})
	if summary.Status != StatusNotStarted {
		t.Errorf("Expected NOT_STARTED with no completions, got %v", summary.Status)
	}

	summary = Summarize(course, &models.Progress{LectureCompleted: []string{"lec01"}})
	if summary.Status != StatusInProgress {
		t.Errorf("Expected IN_PROGRESS with partial completions, got %v", summary.Status)
	}

	summary = Summarize(course, &models.Progress{LectureCompleted: []string{"lec01", "lec02"}})
	if summary.Status != StatusCompleted {
		t.Errorf("Expected COMPLETED with all lectures done, got %v", summary.Status)
	}
	if summary.Percentage != 100 {
		t.Errorf("Expected 100%%, got %d%%", summary.Percentage)
	}
}

func TestSummarizeIgnoresRemovedLectures(t *testing.T) {
	course := createCourse("lec01")

	// lec02 was completed before it was removed from the course.
	summary := Summarize(course, &models.Progress{LectureCompleted: []string{"lec01", "lec02"}})
	if summary.Completed > summary.Total {
		t.Errorf("Completed count %d exceeds total %d", summary.Completed, summary.Total)
	}
}
