package catalog

import (
	"context"

	"coursely/internal/apperrors"
	"coursely/internal/coursestats"
	"coursely/internal/models"
)

// CourseRepository encapsulates the course reads and the rating upsert the
// catalog needs.
type CourseRepository interface {
	// GetCourseByID returns the course corresponding to the specified course ID.
	GetCourseByID(ctx context.Context, id string) (*models.Course, error)
	// GetPublishedCourses returns every published course.
	GetPublishedCourses(ctx context.Context) ([]*models.Course, error)
	// SetCourseRating adds or replaces a user's rating of a course.
	SetCourseRating(ctx context.Context, courseID string, rating models.Rating) error
}

// EnrollmentRepository answers enrollment lookups.
type EnrollmentRepository interface {
	IsEnrolled(ctx context.Context, userID, courseID string) (bool, error)
}

// Overview pairs a projected course with the derived figures the storefront
// renders alongside it.
type Overview struct {
	Course        *models.Course       `json:"course"`
	AverageRating int                  `json:"averageRating"`
	Duration      coursestats.Duration `json:"duration"`
	TotalLectures int                  `json:"totalLectures"`
}

// ViewerOverview builds the detail overview of a course for a viewer. The
// derived figures come from the full course so stripped previews still show
// the real totals.
func ViewerOverview(course *models.Course, enrolled bool) *Overview {
	return overviewOf(course, ProjectForViewer(course, enrolled))
}

func overviewOf(course, projected *models.Course) *Overview {
	return &Overview{
		Course:        projected,
		AverageRating: coursestats.AverageRating(course),
		Duration:      coursestats.CourseDuration(course),
		TotalLectures: coursestats.LectureCount(course),
	}
}

// Service serves the storefront's course reads.
type Service struct {
	courses     CourseRepository
	enrollments EnrollmentRepository
}

func NewService(courses CourseRepository, enrollments EnrollmentRepository) *Service {
	return &Service{courses: courses, enrollments: enrollments}
}

// ListPublished returns the public catalog: every published course in its
// listing projection, with the figures the storefront renders per card.
func (s *Service) ListPublished(ctx context.Context) ([]*Overview, error) {
	courses, err := s.courses.GetPublishedCourses(ctx)
	if err != nil {
		return nil, err
	}

	listings := make([]*Overview, 0, len(courses))
	for _, course := range courses {
		listings = append(listings, overviewOf(course, ProjectForListing(course)))
	}
	return listings, nil
}

// GetForViewer returns the detail overview of a course for the given viewer.
// An empty viewerID means an anonymous viewer.
func (s *Service) GetForViewer(ctx context.Context, courseID, viewerID string) (*Overview, error) {
	course, err := s.courses.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	enrolled := false
	if viewerID != "" {
		enrolled, err = s.enrollments.IsEnrolled(ctx, viewerID, courseID)
		if err != nil {
			return nil, err
		}
	}

	return ViewerOverview(course, enrolled), nil
}

// Rate records a user's rating of a course, replacing any rating the user
// submitted before. Only enrolled users may rate.
func (s *Service) Rate(ctx context.Context, req *models.RateCourseRequest) error {
	if req.Rating < 1 || req.Rating > 5 {
		return apperrors.InvalidRangeError
	}

	if _, err := s.courses.GetCourseByID(ctx, req.CourseID); err != nil {
		return err
	}

	enrolled, err := s.enrollments.IsEnrolled(ctx, req.UserID, req.CourseID)
	if err != nil {
		return err
	}
	if !enrolled {
		return apperrors.NotEnrolledError
	}

	return s.courses.SetCourseRating(ctx, req.CourseID, models.Rating{UserID: req.UserID, Rating: req.Rating})
}
