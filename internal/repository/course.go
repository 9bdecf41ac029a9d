package repository

import (
	"context"
	"fmt"

	"coursely/internal/apperrors"
	"coursely/internal/models"

	"cloud.google.com/go/firestore"
	"github.com/mitchellh/mapstructure"
	"google.golang.org/api/iterator"
)

// GetCourseByID returns the course corresponding to the provided course ID.
func (fr *FirebaseRepository) GetCourseByID(ctx context.Context, id string) (*models.Course, error) {
	doc, err := fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.CourseNotFoundError
		}
		return nil, fmt.Errorf("error getting course %v: %v", id, err)
	}

	return docToCourse(doc)
}

// GetPublishedCourses returns every course with the publish flag set.
func (fr *FirebaseRepository) GetPublishedCourses(ctx context.Context) ([]*models.Course, error) {
	query := fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Where("isPublished", "==", true)
	return fr.queryCourses(ctx, query)
}

// GetCoursesByInstructor returns every course owned by an instructor.
func (fr *FirebaseRepository) GetCoursesByInstructor(ctx context.Context, instructorID string) ([]*models.Course, error) {
	query := fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Where("instructor", "==", instructorID)
	return fr.queryCourses(ctx, query)
}

// CreateCourse saves a new course owned by the requesting instructor.
func (fr *FirebaseRepository) CreateCourse(ctx context.Context, c *models.CreateCourseRequest) (*models.Course, error) {
	course := &models.Course{
		Title:            c.Title,
		Description:      c.Description,
		Thumbnail:        c.Thumbnail,
		Price:            c.Price,
		Discount:         c.Discount,
		IsPublished:      c.IsPublished,
		Content:          c.Content,
		Ratings:          []models.Rating{},
		InstructorID:     c.InstructorID,
		EnrolledStudents: []string{},
	}

	ref, _, err := fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Add(ctx, map[string]interface{}{
		"courseTitle":       course.Title,
		"courseDescription": course.Description,
		"courseThumbnail":   course.Thumbnail,
		"coursePrice":       course.Price,
		"discount":          course.Discount,
		"isPublished":       course.IsPublished,
		"courseContent":     course.Content,
		"courseRatings":     course.Ratings,
		"instructor":        course.InstructorID,
		"enrolledStudents":  course.EnrolledStudents,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating course: %v", err)
	}
	course.ID = ref.ID

	return course, nil
}

// SetCourseRating adds or replaces a user's rating of a course. The
// replace is transactional so two ratings from the same user cannot both
// survive a concurrent write.
func (fr *FirebaseRepository) SetCourseRating(ctx context.Context, courseID string, rating models.Rating) error {
	ref := fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Doc(courseID)

	return fr.firestoreClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return apperrors.CourseNotFoundError
			}
			return err
		}

		course, err := docToCourse(doc)
		if err != nil {
			return err
		}

		ratings := make([]models.Rating, 0, len(course.Ratings)+1)
		for _, existing := range course.Ratings {
			if existing.UserID != rating.UserID {
				ratings = append(ratings, existing)
			}
		}
		ratings = append(ratings, rating)

		return tx.Update(ref, []firestore.Update{
			{Path: "courseRatings", Value: ratings},
		})
	})
}

func (fr *FirebaseRepository) queryCourses(ctx context.Context, query firestore.Query) ([]*models.Course, error) {
	courses := []*models.Course{}

	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating courses: %v", err)
		}

		course, err := docToCourse(doc)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}

	return courses, nil
}

func docToCourse(doc *firestore.DocumentSnapshot) (*models.Course, error) {
	var course models.Course
	if err := mapstructure.Decode(doc.Data(), &course); err != nil {
		return nil, fmt.Errorf("error destructuring course document: %v", err)
	}
	course.ID = doc.Ref.ID
	return &course, nil
}
