// Package firebase initializes the Firebase clients the rest of the server
// depends on. The app is constructed once by the entry point and passed
// down explicitly.
package firebase

import (
	"context"
	"fmt"

	firebaseAuth "firebase.google.com/go/auth"

	"cloud.google.com/go/firestore"
	firebaseSDK "firebase.google.com/go"
	"google.golang.org/api/option"
)

// App bundles the identity and document-store clients.
type App struct {
	Auth      *firebaseAuth.Client
	Firestore *firestore.Client
}

// NewApp creates the Firebase Auth and Firestore clients from a service
// account credentials file.
func NewApp(ctx context.Context, credentialsFile string) (*App, error) {
	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebaseSDK.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %v", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("Auth client error: %v", err)
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("Firestore client error: %v", err)
	}

	return &App{Auth: authClient, Firestore: firestoreClient}, nil
}

// Close releases the Firestore connection.
func (a *App) Close() error {
	return a.Firestore.Close()
}
