package enrollment

import (
	"context"
	"errors"
	"sync"
	"testing"

	"coursely/internal/apperrors"
	"coursely/internal/models"
)

type fakeRepo struct {
	mu          sync.Mutex
	purchases   map[string]*models.Purchase
	enrollments map[string]*models.Enrollment
	courses     map[string]*models.Course
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		purchases:   make(map[string]*models.Purchase),
		enrollments: make(map[string]*models.Enrollment),
		courses:     make(map[string]*models.Course),
	}
}

func (f *fakeRepo) GetPurchase(_ context.Context, id string) (*models.Purchase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	purchase, ok := f.purchases[id]
	if !ok {
		return nil, apperrors.PurchaseNotFoundError
	}
	copied := *purchase
	return &copied, nil
}

func (f *fakeRepo) CompletePurchase(_ context.Context, purchaseID string, enrollment *models.Enrollment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	purchase := f.purchases[purchaseID]
	if purchase.Status != models.PurchasePending {
		return apperrors.AlreadyProcessedError
	}
	purchase.Status = models.PurchaseCompleted
	f.enrollments[models.EnrollmentID(enrollment.UserID, enrollment.CourseID)] = enrollment
	return nil
}

func (f *fakeRepo) CompleteOrphanedPurchase(_ context.Context, purchaseID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	purchase := f.purchases[purchaseID]
	if purchase.Status != models.PurchasePending {
		return apperrors.AlreadyProcessedError
	}
	purchase.Status = models.PurchaseCompleted
	purchase.NeedsReconciliation = true
	return nil
}

func (f *fakeRepo) FailPurchase(_ context.Context, purchaseID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	purchase := f.purchases[purchaseID]
	if purchase.Status != models.PurchasePending {
		return apperrors.AlreadyProcessedError
	}
	purchase.Status = models.PurchaseFailed
	return nil
}

func (f *fakeRepo) IsEnrolled(_ context.Context, userID, courseID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.enrollments[models.EnrollmentID(userID, courseID)]
	return ok, nil
}

func (f *fakeRepo) GetCourseByID(_ context.Context, id string) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	course, ok := f.courses[id]
	if !ok {
		return nil, apperrors.CourseNotFoundError
	}
	return course, nil
}

func createLedger() (*Ledger, *fakeRepo) {
	repo := newFakeRepo()
	repo.courses["course-1"] = &models.Course{ID: "course-1", Title: "Test Course"}
	repo.purchases["p1"] = &models.Purchase{
		ID:       "p1",
		UserID:   "u1",
		CourseID: "course-1",
		Amount:   45,
		Status:   models.PurchasePending,
	}
	return NewLedger(repo, repo, nil), repo
}

func TestRecordPurchaseCompletion(t *testing.T) {
	ledger, repo := createLedger()

	if err := ledger.RecordPurchaseCompletion(context.Background(), "p1"); err != nil {
		t.Fatalf("Unexpected error completing purchase: %v", err)
	}

	if repo.purchases["p1"].Status != models.PurchaseCompleted {
		t.Errorf("Expected purchase status completed, got %v", repo.purchases["p1"].Status)
	}

	enrolled, err := ledger.IsEnrolled(context.Background(), "u1", "course-1")
	if err != nil {
		t.Fatalf("Unexpected error checking enrollment: %v", err)
	}
	if !enrolled {
		t.Error("Expected user to be enrolled after purchase completion")
	}
}

func TestRecordPurchaseCompletionIsIdempotent(t *testing.T) {
	ledger, repo := createLedger()

	for i := 0; i < 3; i++ {
		if err := ledger.RecordPurchaseCompletion(context.Background(), "p1"); err != nil {
			t.Fatalf("Unexpected error on delivery %d: %v", i+1, err)
		}
	}

	if len(repo.enrollments) != 1 {
		t.Errorf("Expected exactly one enrollment after duplicate deliveries, got %d", len(repo.enrollments))
	}
}

func TestRecordPurchaseCompletionConcurrentDeliveries(t *testing.T) {
	ledger, repo := createLedger()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ledger.RecordPurchaseCompletion(context.Background(), "p1"); err != nil {
				t.Errorf("Unexpected error on concurrent delivery: %v", err)
			}
		}()
	}
	wg.Wait()

	if len(repo.enrollments) != 1 {
		t.Errorf("Expected exactly one enrollment after concurrent deliveries, got %d", len(repo.enrollments))
	}
}

func TestRecordPurchaseCompletionUnknownPurchase(t *testing.T) {
	ledger, _ := createLedger()

	err := ledger.RecordPurchaseCompletion(context.Background(), "missing")
	if !errors.Is(err, apperrors.PurchaseNotFoundError) {
		t.Errorf("Expected PurchaseNotFoundError, got %v", err)
	}
}

func TestRecordPurchaseCompletionFailedPurchaseIsTerminal(t *testing.T) {
	ledger, repo := createLedger()
	repo.purchases["p1"].Status = models.PurchaseFailed

	if err := ledger.RecordPurchaseCompletion(context.Background(), "p1"); err == nil {
		t.Error("Expected an error completing a failed purchase")
	}
	if repo.purchases["p1"].Status != models.PurchaseFailed {
		t.Errorf("Expected failed status to be terminal, got %v", repo.purchases["p1"].Status)
	}
}

func TestRecordPurchaseFailure(t *testing.T) {
	ledger, repo := createLedger()

	if err := ledger.RecordPurchaseFailure(context.Background(), "p1"); err != nil {
		t.Fatalf("Unexpected error failing purchase: %v", err)
	}
	if repo.purchases["p1"].Status != models.PurchaseFailed {
		t.Errorf("Expected purchase status failed, got %v", repo.purchases["p1"].Status)
	}

	// A completion event after failure must not revive the purchase, and a
	// duplicate failure event is absorbed.
	if err := ledger.RecordPurchaseCompletion(context.Background(), "p1"); err == nil {
		t.Error("Expected an error completing a failed purchase")
	}
	if err := ledger.RecordPurchaseFailure(context.Background(), "p1"); err != nil {
		t.Errorf("Expected duplicate failure event to be absorbed, got %v", err)
	}
}

func TestRecordPurchaseCompletionDeletedCourse(t *testing.T) {
	ledger, repo := createLedger()
	delete(repo.courses, "course-1")

	if err := ledger.RecordPurchaseCompletion(context.Background(), "p1"); err != nil {
		t.Fatalf("Unexpected error completing orphaned purchase: %v", err)
	}

	purchase := repo.purchases["p1"]
	if purchase.Status != models.PurchaseCompleted {
		t.Errorf("Expected orphaned purchase to be completed, got %v", purchase.Status)
	}
	if !purchase.NeedsReconciliation {
		t.Error("Expected orphaned purchase to be flagged for reconciliation")
	}
	if len(repo.enrollments) != 0 {
		t.Errorf("Expected no enrollment for a deleted course, got %d", len(repo.enrollments))
	}
}
