// Package enrollment reconciles payment completion events into enrollment
// records. The payment provider delivers completion events at least once,
// so every operation here must tolerate duplicates.
package enrollment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"coursely/internal/apperrors"
	"coursely/internal/models"

	"github.com/golang/glog"
)

// Repository persists purchases and enrollments.
type Repository interface {
	// GetPurchase returns the purchase corresponding to the specified ID.
	GetPurchase(ctx context.Context, id string) (*models.Purchase, error)
	// CompletePurchase atomically marks the purchase completed and creates
	// the enrollment. Both succeed or neither does. Returns
	// apperrors.AlreadyProcessedError when the purchase is no longer
	// pending.
	CompletePurchase(ctx context.Context, purchaseID string, enrollment *models.Enrollment) error
	// CompleteOrphanedPurchase marks a purchase completed without creating
	// an enrollment and flags it for reconciliation.
	CompleteOrphanedPurchase(ctx context.Context, purchaseID string) error
	// FailPurchase marks a pending purchase failed. Returns
	// apperrors.AlreadyProcessedError when the purchase already reached a
	// terminal status.
	FailPurchase(ctx context.Context, purchaseID string) error
	// IsEnrolled reports whether the user holds an enrollment for the course.
	IsEnrolled(ctx context.Context, userID, courseID string) (bool, error)
}

// CourseRepository provides the course a completed purchase grants access to.
type CourseRepository interface {
	GetCourseByID(ctx context.Context, id string) (*models.Course, error)
}

// Notifier delivers in-app notifications. Delivery is best effort and never
// fails ledger operations.
type Notifier interface {
	AddNotification(ctx context.Context, userID string, notification models.Notification) error
}

// Ledger applies purchase completion events exactly once.
type Ledger struct {
	repo     Repository
	courses  CourseRepository
	notifier Notifier

	// Completion is serialized per purchase id so concurrent deliveries of
	// the same event cannot race past the status check.
	locksLock sync.Mutex
	locks     map[string]*sync.Mutex
}

func NewLedger(repo Repository, courses CourseRepository, notifier Notifier) *Ledger {
	return &Ledger{
		repo:     repo,
		courses:  courses,
		notifier: notifier,
		locks:    make(map[string]*sync.Mutex),
	}
}

// RecordPurchaseCompletion applies a payment completion event for the given
// purchase. The first delivery transitions the purchase to completed and
// creates the enrollment atomically; replays are absorbed as logged no-ops.
func (l *Ledger) RecordPurchaseCompletion(ctx context.Context, purchaseID string) error {
	lock := l.lockFor(purchaseID)
	lock.Lock()
	defer lock.Unlock()

	purchase, err := l.repo.GetPurchase(ctx, purchaseID)
	if err != nil {
		return err
	}

	switch purchase.Status {
	case models.PurchaseCompleted:
		glog.Infof("purchase %v already completed, ignoring duplicate completion event", purchaseID)
		return nil
	case models.PurchaseFailed:
		return fmt.Errorf("purchase %v already failed, completion event rejected", purchaseID)
	}

	course, err := l.courses.GetCourseByID(ctx, purchase.CourseID)
	if err != nil {
		if errors.Is(err, apperrors.CourseNotFoundError) {
			// The course was deleted between checkout and completion. The
			// learner was charged, so the purchase is still completed, but
			// flagged for reconciliation instead of granting access.
			glog.Warningf("purchase %v references deleted course %v, flagging for reconciliation", purchaseID, purchase.CourseID)
			return l.repo.CompleteOrphanedPurchase(ctx, purchaseID)
		}
		return err
	}

	enrollment := &models.Enrollment{
		UserID:     purchase.UserID,
		CourseID:   purchase.CourseID,
		PurchaseID: purchase.ID,
		EnrolledAt: time.Now(),
	}
	if err := l.repo.CompletePurchase(ctx, purchaseID, enrollment); err != nil {
		if errors.Is(err, apperrors.AlreadyProcessedError) {
			glog.Infof("purchase %v completed concurrently, ignoring duplicate completion event", purchaseID)
			return nil
		}
		return err
	}

	l.notifyEnrolled(ctx, purchase.UserID, course)
	return nil
}

// RecordPurchaseFailure marks a purchase failed after an expired or failed
// checkout. Like completion, it tolerates duplicate deliveries: events for
// purchases already in a terminal status are absorbed as logged no-ops.
func (l *Ledger) RecordPurchaseFailure(ctx context.Context, purchaseID string) error {
	lock := l.lockFor(purchaseID)
	lock.Lock()
	defer lock.Unlock()

	if err := l.repo.FailPurchase(ctx, purchaseID); err != nil {
		if errors.Is(err, apperrors.AlreadyProcessedError) {
			glog.Infof("purchase %v already in a terminal status, ignoring failure event", purchaseID)
			return nil
		}
		return err
	}
	return nil
}

// IsEnrolled reports whether the user holds an enrollment for the course.
func (l *Ledger) IsEnrolled(ctx context.Context, userID, courseID string) (bool, error) {
	return l.repo.IsEnrolled(ctx, userID, courseID)
}

func (l *Ledger) notifyEnrolled(ctx context.Context, userID string, course *models.Course) {
	if l.notifier == nil {
		return
	}

	notification := models.Notification{
		Title:     "You're enrolled!",
		Body:      course.Title,
		Timestamp: time.Now(),
		Type:      models.NotificationEnrolled,
	}
	if err := l.notifier.AddNotification(ctx, userID, notification); err != nil {
		glog.Warningf("error sending enrollment notification: %v\n", err)
	}
}

func (l *Ledger) lockFor(purchaseID string) *sync.Mutex {
	l.locksLock.Lock()
	defer l.locksLock.Unlock()

	lock, ok := l.locks[purchaseID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[purchaseID] = lock
	}
	return lock
}
