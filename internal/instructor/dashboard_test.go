package instructor

import (
	"context"
	"testing"
	"time"

	"coursely/internal/apperrors"
	"coursely/internal/models"
)

type fakeRepo struct {
	courses   []*models.Course
	purchases []*models.Purchase
	users     map[string]*models.User
}

func (f *fakeRepo) GetCoursesByInstructor(_ context.Context, instructorID string) ([]*models.Course, error) {
	matched := []*models.Course{}
	for _, course := range f.courses {
		if course.InstructorID == instructorID {
			matched = append(matched, course)
		}
	}
	return matched, nil
}

func (f *fakeRepo) GetCompletedPurchasesByCourseIDs(_ context.Context, courseIDs []string) ([]*models.Purchase, error) {
	ids := make(map[string]bool)
	for _, id := range courseIDs {
		ids[id] = true
	}

	matched := []*models.Purchase{}
	for _, purchase := range f.purchases {
		if purchase.Status == models.PurchaseCompleted && ids[purchase.CourseID] {
			matched = append(matched, purchase)
		}
	}
	return matched, nil
}

func (f *fakeRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.UserNotFoundError
	}
	return user, nil
}

func createService() (*Service, *fakeRepo) {
	repo := &fakeRepo{
		courses: []*models.Course{
			{ID: "c1", Title: "Go Basics", InstructorID: "inst-1"},
			{ID: "c2", Title: "Advanced Go", InstructorID: "inst-1"},
			{ID: "c3", Title: "Someone Else's Course", InstructorID: "inst-2"},
		},
		purchases: []*models.Purchase{
			{ID: "p1", UserID: "u1", CourseID: "c1", Amount: 45, Status: models.PurchaseCompleted, CreatedAt: time.Now()},
			{ID: "p2", UserID: "u2", CourseID: "c2", Amount: 90, Status: models.PurchaseCompleted, CreatedAt: time.Now()},
			{ID: "p3", UserID: "u3", CourseID: "c1", Amount: 45, Status: models.PurchasePending, CreatedAt: time.Now()},
		},
		users: map[string]*models.User{
			"u1": {ID: "u1", Profile: &models.Profile{DisplayName: "Student One"}},
			"u2": {ID: "u2", Profile: &models.Profile{DisplayName: "Student Two"}},
		},
	}
	return NewService(repo, repo, repo), repo
}

func TestDashboard(t *testing.T) {
	service, _ := createService()

	dashboard, err := service.Dashboard(context.Background(), "inst-1")
	if err != nil {
		t.Fatalf("Unexpected error building dashboard: %v", err)
	}

	if dashboard.TotalCourses != 2 {
		t.Errorf("Expected 2 courses, got %d", dashboard.TotalCourses)
	}
	// Pending purchases must not count towards earnings.
	if dashboard.TotalEarnings != 135 {
		t.Errorf("Expected earnings of 135, got %v", dashboard.TotalEarnings)
	}
	if len(dashboard.EnrolledStudents) != 2 {
		t.Errorf("Expected 2 roster rows, got %d", len(dashboard.EnrolledStudents))
	}
}

func TestEnrolledStudentsSkipsMissingProfiles(t *testing.T) {
	service, repo := createService()
	repo.purchases = append(repo.purchases, &models.Purchase{
		ID: "p4", UserID: "deleted-user", CourseID: "c1", Amount: 45,
		Status: models.PurchaseCompleted, CreatedAt: time.Now(),
	})

	roster, err := service.EnrolledStudents(context.Background(), "inst-1")
	if err != nil {
		t.Fatalf("Unexpected error building roster: %v", err)
	}
	if len(roster) != 2 {
		t.Errorf("Expected deleted student to be skipped, got %d rows", len(roster))
	}
}

func TestDashboardEmptyInstructor(t *testing.T) {
	service, _ := createService()

	dashboard, err := service.Dashboard(context.Background(), "inst-none")
	if err != nil {
		t.Fatalf("Unexpected error building dashboard: %v", err)
	}
	if dashboard.TotalCourses != 0 || dashboard.TotalEarnings != 0 || len(dashboard.EnrolledStudents) != 0 {
		t.Errorf("Expected empty dashboard, got %+v", dashboard)
	}
}
