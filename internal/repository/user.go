package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"coursely/internal/apperrors"
	"coursely/internal/models"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

// VerifySessionCookie verifies that the given session cookie is valid and
// returns the associated User if valid. The role on the returned user comes
// from the identity provider's custom claims, not from the stored profile,
// so role changes take effect on the next request.
func (fr *FirebaseRepository) VerifySessionCookie(ctx context.Context, sessionCookie *http.Cookie) (*models.User, error) {
	decoded, err := fr.authClient.VerifySessionCookieAndCheckRevoked(ctx, sessionCookie.Value)
	if err != nil {
		return nil, fmt.Errorf("error verifying cookie: %v", err)
	}

	user, err := fr.GetUserByID(ctx, decoded.UID)
	if err != nil {
		return nil, fmt.Errorf("error getting user from cookie: %v", err)
	}

	if role, ok := decoded.Claims["role"].(string); ok {
		user.Profile.Role = models.Role(role)
	}

	return user, nil
}

// CreateSessionCookie exchanges a verified ID token for a session cookie.
func (fr *FirebaseRepository) CreateSessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error) {
	return fr.authClient.SessionCookie(ctx, idToken, expiresIn)
}

// GetUserByID returns the user with the given identity-provider id,
// creating a default student profile on first sight.
func (fr *FirebaseRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	fbUser, err := fr.authClient.GetUser(ctx, id)
	if err != nil {
		return nil, apperrors.UserNotFoundError
	}

	profile, err := fr.getUserProfile(ctx, fbUser.UID)
	if err != nil {
		// no profile for the user found, create one.
		profile = &models.Profile{
			DisplayName:   fbUser.DisplayName,
			Email:         fbUser.Email,
			PhotoURL:      fbUser.PhotoURL,
			Role:          models.RoleStudent,
			Notifications: []models.Notification{},
		}
		_, err = fr.firestoreClient.Collection(models.FirestoreUserProfilesCollection).Doc(fbUser.UID).Set(ctx, profile)
		if err != nil {
			return nil, fmt.Errorf("error creating user profile: %v", err)
		}
	}

	return &models.User{
		Profile:            profile,
		ID:                 fbUser.UID,
		Disabled:           fbUser.Disabled,
		CreationTimestamp:  fbUser.UserMetadata.CreationTimestamp,
		LastLogInTimestamp: fbUser.UserMetadata.LastLogInTimestamp,
	}, nil
}

// SetUserRole assigns a role through identity-provider custom claims and
// mirrors it into the profile document. The claim is authoritative; the
// mirror only serves profile reads.
func (fr *FirebaseRepository) SetUserRole(ctx context.Context, userID string, role models.Role) error {
	err := fr.authClient.SetCustomUserClaims(ctx, userID, map[string]interface{}{
		"role": string(role),
	})
	if err != nil {
		return fmt.Errorf("error setting role claim: %v", err)
	}

	_, err = fr.firestoreClient.Collection(models.FirestoreUserProfilesCollection).Doc(userID).Set(ctx, map[string]interface{}{
		"role": role,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("error mirroring role to profile: %v", err)
	}
	return nil
}

// UpdateUser updates the mutable fields of a user profile.
func (fr *FirebaseRepository) UpdateUser(ctx context.Context, req *models.UpdateUserRequest) error {
	_, err := fr.firestoreClient.Collection(models.FirestoreUserProfilesCollection).Doc(req.UserID).Update(ctx, []firestore.Update{
		{Path: "displayName", Value: req.DisplayName},
		{Path: "photoUrl", Value: req.PhotoURL},
	})
	return err
}

// AddNotification appends an in-app notification to a user's profile.
func (fr *FirebaseRepository) AddNotification(ctx context.Context, userID string, notification models.Notification) error {
	notification.ID = uuid.New().String()

	_, err := fr.firestoreClient.Collection(models.FirestoreUserProfilesCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "notifications", Value: firestore.ArrayUnion(notification)},
	})
	if err != nil {
		return fmt.Errorf("error adding notification: %v", err)
	}
	return nil
}

func (fr *FirebaseRepository) getUserProfile(ctx context.Context, id string) (*models.Profile, error) {
	doc, err := fr.firestoreClient.Collection(models.FirestoreUserProfilesCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, apperrors.UserNotFoundError
	}

	var profile models.Profile
	if err := mapstructure.Decode(doc.Data(), &profile); err != nil {
		return nil, fmt.Errorf("error destructuring profile document: %v", err)
	}
	return &profile, nil
}
