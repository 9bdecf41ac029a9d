package models

import "math"

var (
	FirestoreCoursesCollection = "courses"
)

// Rating is a single user's rating of a course. A user may rate a course
// at most once; re-rating replaces the previous value.
type Rating struct {
	UserID string `json:"userId" mapstructure:"userId" firestore:"userId"`
	Rating int    `json:"rating" mapstructure:"rating" firestore:"rating" validate:"gte=1,lte=5"`
}

// Lecture is a single playable unit within a chapter. URL is an opaque
// content locator and is redacted from projections for viewers without
// access (see catalog.ProjectForViewer).
type Lecture struct {
	ID            string `json:"lectureId" mapstructure:"lectureId" firestore:"lectureId" validate:"required"`
	Title         string `json:"lectureTitle" mapstructure:"lectureTitle" firestore:"lectureTitle" validate:"required"`
	Duration      int    `json:"lectureDuration" mapstructure:"lectureDuration" firestore:"lectureDuration" validate:"gte=0"`
	URL           string `json:"lectureUrl" mapstructure:"lectureUrl" firestore:"lectureUrl" validate:"required"`
	IsPreviewFree bool   `json:"isPreviewFree" mapstructure:"isPreviewFree" firestore:"isPreviewFree"`
	Order         int    `json:"lectureOrder" mapstructure:"lectureOrder" firestore:"lectureOrder" validate:"gte=0"`
}

// Chapter is an ordered group of lectures. Order is significant: chapter
// and lecture order indices strictly define the playback sequence.
type Chapter struct {
	ID      string    `json:"chapterId" mapstructure:"chapterId" firestore:"chapterId" validate:"required"`
	Order   int       `json:"chapterOrder" mapstructure:"chapterOrder" firestore:"chapterOrder" validate:"gte=0"`
	Title   string    `json:"chapterTitle" mapstructure:"chapterTitle" firestore:"chapterTitle" validate:"required"`
	Content []Lecture `json:"chapterContent" mapstructure:"chapterContent" firestore:"chapterContent" validate:"dive"`
}

// Course is the root marketplace document. It is exclusively owned and
// mutated by its instructor.
type Course struct {
	ID               string    `json:"id" mapstructure:"id" firestore:"-"`
	Title            string    `json:"courseTitle" mapstructure:"courseTitle" firestore:"courseTitle"`
	Description      string    `json:"courseDescription" mapstructure:"courseDescription" firestore:"courseDescription"`
	Thumbnail        string    `json:"courseThumbnail" mapstructure:"courseThumbnail" firestore:"courseThumbnail"`
	Price            float64   `json:"coursePrice" mapstructure:"coursePrice" firestore:"coursePrice"`
	Discount         int       `json:"discount" mapstructure:"discount" firestore:"discount"`
	IsPublished      bool      `json:"isPublished" mapstructure:"isPublished" firestore:"isPublished"`
	Content          []Chapter `json:"courseContent" mapstructure:"courseContent" firestore:"courseContent"`
	Ratings          []Rating  `json:"courseRatings" mapstructure:"courseRatings" firestore:"courseRatings"`
	InstructorID     string    `json:"instructor" mapstructure:"instructor" firestore:"instructor"`
	EnrolledStudents []string  `json:"enrolledStudents" mapstructure:"enrolledStudents" firestore:"enrolledStudents"`
}

// DiscountedPrice returns the amount a purchase of the course charges: the
// price with the discount percentage applied, rounded to two decimals.
func (c *Course) DiscountedPrice() float64 {
	amount := c.Price - float64(c.Discount)*c.Price/100
	return math.Round(amount*100) / 100
}

// CreateCourseRequest is the parameter struct to the CreateCourse function.
// The payload is structurally validated at the boundary before it enters
// the domain.
type CreateCourseRequest struct {
	Title       string    `json:"courseTitle" validate:"required"`
	Description string    `json:"courseDescription" validate:"required"`
	Thumbnail   string    `json:"courseThumbnail"`
	Price       float64   `json:"coursePrice" validate:"gte=0"`
	Discount    int       `json:"discount" validate:"gte=0,lte=100"`
	IsPublished bool      `json:"isPublished"`
	Content     []Chapter `json:"courseContent" validate:"dive"`

	// Will be set from context
	InstructorID string `json:",omitempty"`
}

// RateCourseRequest is the parameter struct to the RateCourse function.
type RateCourseRequest struct {
	CourseID string `json:"courseID,omitempty"`
	Rating   int    `json:"rating" validate:"gte=1,lte=5"`

	// Will be set from context
	UserID string `json:",omitempty"`
}
