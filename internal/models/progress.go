package models

var (
	FirestoreProgressCollection = "progress"
)

// Progress is the per-user, per-course record of completed lectures. The
// completion set only grows; there is no un-completion operation. Its
// document id is UserID + "_" + CourseID.
type Progress struct {
	UserID           string   `json:"userId" mapstructure:"userId" firestore:"userId"`
	CourseID         string   `json:"courseId" mapstructure:"courseId" firestore:"courseId"`
	LectureCompleted []string `json:"lectureCompleted" mapstructure:"lectureCompleted" firestore:"lectureCompleted"`
}

// ProgressID returns the deterministic document id for a (user, course)
// progress record.
func ProgressID(userID, courseID string) string {
	return userID + "_" + courseID
}

// MarkLectureCompleteRequest is the parameter struct to the
// MarkLectureComplete function.
type MarkLectureCompleteRequest struct {
	CourseID  string `json:"courseID" validate:"required"`
	LectureID string `json:"lectureID" validate:"required"`

	// Will be set from context
	UserID string `json:",omitempty"`
}
