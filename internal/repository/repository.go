// Package repository persists the marketplace's documents in Firestore.
package repository

import (
	"coursely/internal/firebase"

	firebaseAuth "firebase.google.com/go/auth"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirebaseRepository accesses courses, purchases, enrollments, progress
// records, and user profiles stored in Firestore, and user accounts in
// Firebase Auth.
type FirebaseRepository struct {
	authClient      *firebaseAuth.Client
	firestoreClient *firestore.Client
}

func NewFirebaseRepository(app *firebase.App) *FirebaseRepository {
	return &FirebaseRepository{
		authClient:      app.Auth,
		firestoreClient: app.Firestore,
	}
}

// isNotFound reports whether a Firestore error means the document does not
// exist.
func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
