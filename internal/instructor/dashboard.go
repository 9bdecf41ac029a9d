// Package instructor aggregates the figures shown on the instructor
// console: earnings, course counts, and the enrolled student roster.
package instructor

import (
	"context"

	"coursely/internal/models"

	"github.com/golang/glog"
)

// CourseRepository provides an instructor's courses.
type CourseRepository interface {
	GetCoursesByInstructor(ctx context.Context, instructorID string) ([]*models.Course, error)
}

// PurchaseRepository provides the completed purchases earnings are derived
// from.
type PurchaseRepository interface {
	GetCompletedPurchasesByCourseIDs(ctx context.Context, courseIDs []string) ([]*models.Purchase, error)
}

// UserRepository resolves student profiles for the roster.
type UserRepository interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// EnrolledStudent is one row of the instructor's student roster.
type EnrolledStudent struct {
	CourseTitle string          `json:"courseTitle"`
	Student     *models.Profile `json:"student"`
	PurchasedAt string          `json:"purchaseDate"`
}

// DashboardData is the summary shown on the instructor dashboard.
type DashboardData struct {
	TotalEarnings    float64           `json:"totalEarnings"`
	TotalCourses     int               `json:"totalCourses"`
	EnrolledStudents []EnrolledStudent `json:"enrolledStudentsData"`
}

// Service answers instructor console reads.
type Service struct {
	courses   CourseRepository
	purchases PurchaseRepository
	users     UserRepository
}

func NewService(courses CourseRepository, purchases PurchaseRepository, users UserRepository) *Service {
	return &Service{courses: courses, purchases: purchases, users: users}
}

// Dashboard aggregates total earnings, course count, and the student roster
// for an instructor.
func (s *Service) Dashboard(ctx context.Context, instructorID string) (*DashboardData, error) {
	courses, err := s.courses.GetCoursesByInstructor(ctx, instructorID)
	if err != nil {
		return nil, err
	}

	purchases, err := s.purchases.GetCompletedPurchasesByCourseIDs(ctx, courseIDs(courses))
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		TotalEarnings:    TotalEarnings(purchases),
		TotalCourses:     len(courses),
		EnrolledStudents: s.roster(ctx, courses, purchases),
	}, nil
}

// EnrolledStudents returns completed purchases joined with student profiles
// and course titles.
func (s *Service) EnrolledStudents(ctx context.Context, instructorID string) ([]EnrolledStudent, error) {
	courses, err := s.courses.GetCoursesByInstructor(ctx, instructorID)
	if err != nil {
		return nil, err
	}

	purchases, err := s.purchases.GetCompletedPurchasesByCourseIDs(ctx, courseIDs(courses))
	if err != nil {
		return nil, err
	}

	return s.roster(ctx, courses, purchases), nil
}

// TotalEarnings sums the amounts of the given purchases.
func TotalEarnings(purchases []*models.Purchase) float64 {
	total := 0.0
	for _, purchase := range purchases {
		total += purchase.Amount
	}
	return total
}

func (s *Service) roster(ctx context.Context, courses []*models.Course, purchases []*models.Purchase) []EnrolledStudent {
	titles := make(map[string]string, len(courses))
	for _, course := range courses {
		titles[course.ID] = course.Title
	}

	roster := make([]EnrolledStudent, 0, len(purchases))
	for _, purchase := range purchases {
		user, err := s.users.GetUserByID(ctx, purchase.UserID)
		if err != nil {
			// A student profile may have been deleted since the purchase;
			// skip the row rather than failing the whole dashboard.
			glog.Warningf("error resolving student %v for roster: %v\n", purchase.UserID, err)
			continue
		}

		roster = append(roster, EnrolledStudent{
			CourseTitle: titles[purchase.CourseID],
			Student:     user.Profile,
			PurchasedAt: purchase.CreatedAt.Format("2006-01-02"),
		})
	}
	return roster
}

func courseIDs(courses []*models.Course) []string {
	ids := make([]string, 0, len(courses))
	for _, course := range courses {
		ids = append(ids, course.ID)
	}
	return ids
}
