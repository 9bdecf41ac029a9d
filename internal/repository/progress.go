package repository

import (
	"context"
	"fmt"

	"coursely/internal/models"

	"cloud.google.com/go/firestore"
	"github.com/mitchellh/mapstructure"
)

// GetProgress returns the progress record for a (user, course) pair. A pair
// without completions yet yields an empty record rather than an error.
func (fr *FirebaseRepository) GetProgress(ctx context.Context, userID, courseID string) (*models.Progress, error) {
	doc, err := fr.firestoreClient.Collection(models.FirestoreProgressCollection).Doc(models.ProgressID(userID, courseID)).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return &models.Progress{UserID: userID, CourseID: courseID}, nil
		}
		return nil, fmt.Errorf("error getting progress: %v", err)
	}

	var progress models.Progress
	if err := mapstructure.Decode(doc.Data(), &progress); err != nil {
		return nil, fmt.Errorf("error destructuring progress document: %v", err)
	}
	return &progress, nil
}

// AddCompletedLecture adds a lecture id to the completion set. The union
// write makes duplicate adds no-ops, so concurrent calls from the same user
// need no locking.
func (fr *FirebaseRepository) AddCompletedLecture(ctx context.Context, userID, courseID, lectureID string) error {
	_, err := fr.firestoreClient.Collection(models.FirestoreProgressCollection).Doc(models.ProgressID(userID, courseID)).Set(ctx, map[string]interface{}{
		"userId":           userID,
		"courseId":         courseID,
		"lectureCompleted": firestore.ArrayUnion(lectureID),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("error adding completed lecture: %v", err)
	}
	return nil
}
