package repository

import (
	"context"
	"fmt"
	"time"

	"coursely/internal/apperrors"
	"coursely/internal/models"

	"cloud.google.com/go/firestore"
	"github.com/mitchellh/mapstructure"
	"google.golang.org/api/iterator"
)

// firestoreInLimit is the maximum number of values Firestore accepts in a
// single "in" filter.
const firestoreInLimit = 10

// CreatePurchase saves a new pending purchase under the provided id.
func (fr *FirebaseRepository) CreatePurchase(ctx context.Context, purchase *models.Purchase) error {
	_, err := fr.firestoreClient.Collection(models.FirestorePurchasesCollection).Doc(purchase.ID).Create(ctx, map[string]interface{}{
		"userId":    purchase.UserID,
		"courseId":  purchase.CourseID,
		"amount":    purchase.Amount,
		"status":    purchase.Status,
		"createdAt": purchase.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("error creating purchase: %v", err)
	}
	return nil
}

// GetPurchase returns the purchase corresponding to the provided id.
func (fr *FirebaseRepository) GetPurchase(ctx context.Context, id string) (*models.Purchase, error) {
	doc, err := fr.firestoreClient.Collection(models.FirestorePurchasesCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.PurchaseNotFoundError
		}
		return nil, fmt.Errorf("error getting purchase %v: %v", id, err)
	}

	return docToPurchase(doc)
}

// CompletePurchase marks a pending purchase completed and creates the
// matching enrollment in a single transaction. The status check and both
// writes are atomic: a purchase that is no longer pending returns
// AlreadyProcessedError and nothing is written.
func (fr *FirebaseRepository) CompletePurchase(ctx context.Context, purchaseID string, enrollment *models.Enrollment) error {
	purchaseRef := fr.firestoreClient.Collection(models.FirestorePurchasesCollection).Doc(purchaseID)
	enrollmentRef := fr.firestoreClient.Collection(models.FirestoreEnrollmentsCollection).Doc(models.EnrollmentID(enrollment.UserID, enrollment.CourseID))
	courseRef := fr.firestoreClient.Collection(models.FirestoreCoursesCollection).Doc(enrollment.CourseID)

	return fr.firestoreClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := fr.checkPending(tx, purchaseRef); err != nil {
			return err
		}

		if err := tx.Update(purchaseRef, []firestore.Update{
			{Path: "status", Value: models.PurchaseCompleted},
			{Path: "completedAt", Value: time.Now()},
		}); err != nil {
			return err
		}

		if err := tx.Set(enrollmentRef, map[string]interface{}{
			"userId":     enrollment.UserID,
			"courseId":   enrollment.CourseID,
			"purchaseId": enrollment.PurchaseID,
			"enrolledAt": enrollment.EnrolledAt,
		}); err != nil {
			return err
		}

		return tx.Update(courseRef, []firestore.Update{
			{Path: "enrolledStudents", Value: firestore.ArrayUnion(enrollment.UserID)},
		})
	})
}

// CompleteOrphanedPurchase marks a pending purchase completed without an
// enrollment and flags it for reconciliation.
func (fr *FirebaseRepository) CompleteOrphanedPurchase(ctx context.Context, purchaseID string) error {
	purchaseRef := fr.firestoreClient.Collection(models.FirestorePurchasesCollection).Doc(purchaseID)

	return fr.firestoreClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := fr.checkPending(tx, purchaseRef); err != nil {
			return err
		}

		return tx.Update(purchaseRef, []firestore.Update{
			{Path: "status", Value: models.PurchaseCompleted},
			{Path: "completedAt", Value: time.Now()},
			{Path: "needsReconciliation", Value: true},
		})
	})
}

// FailPurchase marks a pending purchase failed. Purchases that already
// reached a terminal status return AlreadyProcessedError.
func (fr *FirebaseRepository) FailPurchase(ctx context.Context, purchaseID string) error {
	purchaseRef := fr.firestoreClient.Collection(models.FirestorePurchasesCollection).Doc(purchaseID)

	return fr.firestoreClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := fr.checkPending(tx, purchaseRef); err != nil {
			return err
		}

		return tx.Update(purchaseRef, []firestore.Update{
			{Path: "status", Value: models.PurchaseFailed},
		})
	})
}

// GetCompletedPurchasesByCourseIDs returns the completed purchases for the
// given courses, batching the query around Firestore's "in" filter limit.
func (fr *FirebaseRepository) GetCompletedPurchasesByCourseIDs(ctx context.Context, courseIDs []string) ([]*models.Purchase, error) {
	purchases := []*models.Purchase{}

	for start := 0; start < len(courseIDs); start += firestoreInLimit {
		end := start + firestoreInLimit
		if end > len(courseIDs) {
			end = len(courseIDs)
		}

		iter := fr.firestoreClient.Collection(models.FirestorePurchasesCollection).
			Where("courseId", "in", courseIDs[start:end]).
			Where("status", "==", models.PurchaseCompleted).
			Documents(ctx)
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				iter.Stop()
				return nil, fmt.Errorf("error iterating purchases: %v", err)
			}

			purchase, err := docToPurchase(doc)
			if err != nil {
				iter.Stop()
				return nil, err
			}
			purchases = append(purchases, purchase)
		}
		iter.Stop()
	}

	return purchases, nil
}

// IsEnrolled reports whether an enrollment document exists for the pair.
func (fr *FirebaseRepository) IsEnrolled(ctx context.Context, userID, courseID string) (bool, error) {
	_, err := fr.firestoreClient.Collection(models.FirestoreEnrollmentsCollection).Doc(models.EnrollmentID(userID, courseID)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("error getting enrollment: %v", err)
	}
	return true, nil
}

// GetEnrolledCourses returns the courses a user holds enrollments for.
// Enrollments pointing at since-deleted courses are skipped.
func (fr *FirebaseRepository) GetEnrolledCourses(ctx context.Context, userID string) ([]*models.Course, error) {
	courses := []*models.Course{}

	iter := fr.firestoreClient.Collection(models.FirestoreEnrollmentsCollection).Where("userId", "==", userID).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating enrollments: %v", err)
		}

		var enrollment models.Enrollment
		if err := mapstructure.Decode(doc.Data(), &enrollment); err != nil {
			return nil, fmt.Errorf("error destructuring enrollment document: %v", err)
		}

		course, err := fr.GetCourseByID(ctx, enrollment.CourseID)
		if err != nil {
			if err == apperrors.CourseNotFoundError {
				continue
			}
			return nil, err
		}
		courses = append(courses, course)
	}

	return courses, nil
}

// checkPending returns AlreadyProcessedError unless the purchase the ref
// points at is still pending. Runs inside a transaction so the caller's
// writes are conditioned on the read.
func (fr *FirebaseRepository) checkPending(tx *firestore.Transaction, ref *firestore.DocumentRef) error {
	doc, err := tx.Get(ref)
	if err != nil {
		if isNotFound(err) {
			return apperrors.PurchaseNotFoundError
		}
		return err
	}

	purchase, err := docToPurchase(doc)
	if err != nil {
		return err
	}
	if purchase.Status != models.PurchasePending {
		return apperrors.AlreadyProcessedError
	}
	return nil
}

func docToPurchase(doc *firestore.DocumentSnapshot) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := mapstructure.Decode(doc.Data(), &purchase); err != nil {
		return nil, fmt.Errorf("error destructuring purchase document: %v", err)
	}
	purchase.ID = doc.Ref.ID
	return &purchase, nil
}
