package models

import "time"

var (
	FirestorePurchasesCollection   = "purchases"
	FirestoreEnrollmentsCollection = "enrollments"
)

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseFailed    PurchaseStatus = "failed"
)

// Purchase records a user's payment for a course. It is created pending at
// checkout initiation and transitions to completed only via a verified
// payment-confirmation event. Completed and failed are terminal.
type Purchase struct {
	ID        string         `json:"id" mapstructure:"id" firestore:"-"`
	UserID    string         `json:"userId" mapstructure:"userId" firestore:"userId"`
	CourseID  string         `json:"courseId" mapstructure:"courseId" firestore:"courseId"`
	Amount    float64        `json:"amount" mapstructure:"amount" firestore:"amount"`
	Status    PurchaseStatus `json:"status" mapstructure:"status" firestore:"status"`
	CreatedAt time.Time      `json:"createdAt" mapstructure:"createdAt" firestore:"createdAt"`
	// CompletedAt is zero until the purchase completes.
	CompletedAt time.Time `json:"completedAt,omitempty" mapstructure:"completedAt" firestore:"completedAt"`
	// NeedsReconciliation is set when a purchase completed for a course
	// that no longer exists: the learner was charged but gained no access.
	NeedsReconciliation bool `json:"needsReconciliation,omitempty" mapstructure:"needsReconciliation" firestore:"needsReconciliation"`
}

// Enrollment is the derived grant of access from a user to a course,
// created exactly once when a purchase completes for that pair. Its
// document id is UserID + "_" + CourseID, so replaying the same completion
// event cannot create a second one.
type Enrollment struct {
	UserID     string    `json:"userId" mapstructure:"userId" firestore:"userId"`
	CourseID   string    `json:"courseId" mapstructure:"courseId" firestore:"courseId"`
	PurchaseID string    `json:"purchaseId" mapstructure:"purchaseId" firestore:"purchaseId"`
	EnrolledAt time.Time `json:"enrolledAt" mapstructure:"enrolledAt" firestore:"enrolledAt"`
}

// EnrollmentID returns the deterministic document id for a (user, course)
// enrollment.
func EnrollmentID(userID, courseID string) string {
	return userID + "_" + courseID
}

// CreatePurchaseRequest is the parameter struct to the CreatePurchase
// function.
type CreatePurchaseRequest struct {
	CourseID string `json:"courseID" validate:"required"`

	// Will be set from context
	UserID string `json:",omitempty"`
}
