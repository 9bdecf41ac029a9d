package catalog

import (
	"context"
	"errors"
	"testing"

	"coursely/internal/apperrors"
	"coursely/internal/models"
)

type fakeRepo struct {
	courses  map[string]*models.Course
	enrolled map[string]bool
	ratings  []models.Rating
}

func newFakeRepo(courses ...*models.Course) *fakeRepo {
	repo := &fakeRepo{
		courses:  make(map[string]*models.Course),
		enrolled: make(map[string]bool),
	}
	for _, course := range courses {
		repo.courses[course.ID] = course
	}
	return repo
}

func (f *fakeRepo) GetCourseByID(_ context.Context, id string) (*models.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, apperrors.CourseNotFoundError
	}
	return course, nil
}

func (f *fakeRepo) GetPublishedCourses(_ context.Context) ([]*models.Course, error) {
	published := []*models.Course{}
	for _, course := range f.courses {
		if course.IsPublished {
			published = append(published, course)
		}
	}
	return published, nil
}

func (f *fakeRepo) SetCourseRating(_ context.Context, _ string, rating models.Rating) error {
	f.ratings = append(f.ratings, rating)
	return nil
}

func (f *fakeRepo) IsEnrolled(_ context.Context, userID, courseID string) (bool, error) {
	return f.enrolled[models.EnrollmentID(userID, courseID)], nil
}

func TestListPublishedFiltersAndProjects(t *testing.T) {
	repo := newFakeRepo(
		&models.Course{
			ID:          "c1",
			IsPublished: true,
			Ratings:     []models.Rating{{UserID: "u1", Rating: 4}, {UserID: "u2", Rating: 5}},
			Content: []models.Chapter{
				{ID: "ch01", Content: []models.Lecture{{ID: "l1", Duration: 30}, {ID: "l2", Duration: 45}}},
			},
		},
		&models.Course{ID: "c2", IsPublished: false},
	)
	svc := NewService(repo, repo)

	listings, err := svc.ListPublished(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error listing courses: %v", err)
	}
	if len(listings) != 1 || listings[0].Course.ID != "c1" {
		t.Fatalf("Expected only the published course, got %v listings", len(listings))
	}
	if listings[0].Course.Content != nil {
		t.Error("Expected content to be stripped from the listing")
	}
	if listings[0].AverageRating != 4 {
		t.Errorf("Expected average rating 4, got %d", listings[0].AverageRating)
	}
	if listings[0].Duration.TotalMinutes() != 75 {
		t.Errorf("Expected a 75 minute duration, got %v", listings[0].Duration)
	}
	if listings[0].TotalLectures != 2 {
		t.Errorf("Expected 2 lectures, got %d", listings[0].TotalLectures)
	}
}

func TestRateRejectsOutOfRange(t *testing.T) {
	repo := newFakeRepo(&models.Course{ID: "c1", IsPublished: true})
	svc := NewService(repo, repo)

	for _, rating := range []int{0, 6, -1} {
		err := svc.Rate(context.Background(), &models.RateCourseRequest{CourseID: "c1", UserID: "u1", Rating: rating})
		if !errors.Is(err, apperrors.InvalidRangeError) {
			t.Errorf("Expected InvalidRangeError for rating %d, got %v", rating, err)
		}
	}
}

func TestRateRequiresEnrollment(t *testing.T) {
	repo := newFakeRepo(&models.Course{ID: "c1", IsPublished: true})
	svc := NewService(repo, repo)

	err := svc.Rate(context.Background(), &models.RateCourseRequest{CourseID: "c1", UserID: "u1", Rating: 5})
	if !errors.Is(err, apperrors.NotEnrolledError) {
		t.Errorf("Expected NotEnrolledError, got %v", err)
	}

	repo.enrolled["u1_c1"] = true
	if err := svc.Rate(context.Background(), &models.RateCourseRequest{CourseID: "c1", UserID: "u1", Rating: 5}); err != nil {
		t.Errorf("Unexpected error rating as an enrolled user: %v", err)
	}
	if len(repo.ratings) != 1 {
		t.Errorf("Expected one stored rating, got %d", len(repo.ratings))
	}
}
