package models

import "time"

const (
	FirestoreUserProfilesCollection = "user_profiles"
)

// Role determines what a user may do on the marketplace. It is assigned
// through identity-provider custom claims and mirrored in the profile
// document; the domain treats it as an input and never mutates it locally.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
)

type NotificationType string

const (
	NotificationEnrolled NotificationType = "ENROLLED"
)

// Profile is a collection of standard profile information for a user.
// This struct separates client-safe profile information from internal user
// metadata.
type Profile struct {
	DisplayName   string         `json:"displayName" mapstructure:"displayName" firestore:"displayName"`
	Email         string         `json:"email" mapstructure:"email" firestore:"email"`
	PhotoURL      string         `json:"photoUrl,omitempty" mapstructure:"photoUrl" firestore:"photoUrl"`
	Role          Role           `json:"role" mapstructure:"role" firestore:"role"`
	Notifications []Notification `json:"notifications" mapstructure:"notifications" firestore:"notifications"`
}

// User represents a registered user.
type User struct {
	*Profile
	ID                 string `json:"id" mapstructure:"id"`
	Disabled           bool
	CreationTimestamp  int64
	LastLogInTimestamp int64
}

// IsInstructor reports whether the user may publish courses.
func (u *User) IsInstructor() bool {
	return u.Profile != nil && u.Profile.Role == RoleInstructor
}

type Notification struct {
	ID        string           `json:"id" mapstructure:"id" firestore:"id"`
	Title     string           `json:"title" mapstructure:"title" firestore:"title"`
	Body      string           `json:"body" mapstructure:"body" firestore:"body"`
	Timestamp time.Time        `json:"timestamp" mapstructure:"timestamp" firestore:"timestamp"`
	Type      NotificationType `json:"type" mapstructure:"type" firestore:"type"`
}

// UpdateUserRequest is the parameter struct for the UpdateUser function.
type UpdateUserRequest struct {
	// Will be set from context
	UserID      string `json:",omitempty"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl"`
}
