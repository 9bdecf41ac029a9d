package router

import (
	"net/http"
	"time"

	"coursely/internal/auth"
	"coursely/internal/catalog"
	"coursely/internal/config"
	"coursely/internal/models"
	"coursely/internal/payments"
	"coursely/internal/progress"
	repo "coursely/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

// UserDeps carries what the student-facing routes need.
type UserDeps struct {
	Repo     *repo.FirebaseRepository
	Tracker  *progress.Tracker
	Payments *payments.Client
	Config   *config.ServerConfig
}

func UserRoutes(deps UserDeps) *chi.Mux {
	router := chi.NewRouter()

	// Routes that require authentication
	router.Route("/", func(r chi.Router) {
		r.Use(auth.RequireAuth(deps.Repo, deps.Config.SessionCookieName))

		// Information about the current user
		r.Get("/me", getMeHandler)
		r.Post("/update", updateUserHandler(deps))

		// Courses the user is enrolled in
		r.Get("/enrollments", getEnrollmentsHandler(deps))

		// Checkout initiation
		r.Post("/purchase", createPurchaseHandler(deps))

		// Lecture-completion tracking
		r.Post("/progress", markProgressHandler(deps))
		r.Get("/progress/{courseID}", getProgressHandler(deps))
	})

	// Alter the current session. No auth middlewares required.
	router.Post("/session", createSessionHandler(deps))
	router.Post("/signout", signOutHandler(deps))

	return router
}

// GET: /me
func getMeHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	render.JSON(w, r, struct {
		*models.Profile
		ID string `json:"id"`
	}{user.Profile, user.ID})
}

// POST: /update
func updateUserHandler(deps UserDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := auth.GetUserFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		var req models.UpdateUserRequest
		if err := decodeAndValidate(r, &req); err != nil {
			respondError(w, err)
			return
		}
		req.UserID = user.ID

		if err := deps.Repo.UpdateUser(r.Context(), &req); err != nil {
			respondError(w, err)
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Successfully updated user " + req.UserID))
	}
}

// GET: /enrollments
func getEnrollmentsHandler(deps UserDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := auth.GetUserFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		courses, err := deps.Repo.GetEnrolledCourses(r.Context(), user.ID)
		if err != nil {
			respondError(w, err)
			return
		}

		// The caller is enrolled in each of these, so locators stay intact.
		enrolled := make([]*catalog.Overview, 0, len(courses))
		for _, course := range courses {
			enrolled = append(enrolled, catalog.ViewerOverview(course, true))
		}

		render.JSON(w, r, map[string]interface{}{"courses": enrolled})
	}
}

// POST: /purchase
func createPurchaseHandler(deps UserDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := auth.GetUserFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		var req models.CreatePurchaseRequest
		if err := decodeAndValidate(r, &req); err != nil {
			respondError(w, err)
			return
		}
		req.UserID = user.ID

		course, err := deps.Repo.GetCourseByID(r.Context(), req.CourseID)
		if err != nil {
			respondError(w, err)
			return
		}
		if !course.IsPublished {
			http.Error(w, "course is not published", http.StatusNotFound)
			return
		}

		enrolled, err := deps.Repo.IsEnrolled(r.Context(), user.ID, course.ID)
		if err != nil {
			respondError(w, err)
			return
		}
		if enrolled {
			http.Error(w, "already enrolled in this course", http.StatusConflict)
			return
		}

		purchase := &models.Purchase{
			ID:        uuid.New().String(),
			UserID:    user.ID,
			CourseID:  course.ID,
			Amount:    course.DiscountedPrice(),
			Status:    models.PurchasePending,
			CreatedAt: time.Now(),
		}
		if err := deps.Repo.CreatePurchase(r.Context(), purchase); err != nil {
			respondError(w, err)
			return
		}

		sessionURL, err := deps.Payments.CreateCheckoutSession(r.Context(), purchase, course)
		if err != nil {
			respondError(w, err)
			return
		}

		render.JSON(w, r, map[string]string{"sessionUrl": sessionURL})
	}
}

// POST: /progress
func markProgressHandler(deps UserDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := auth.GetUserFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		var req models.MarkLectureCompleteRequest
		if err := decodeAndValidate(r, &req); err != nil {
			respondError(w, err)
			return
		}
		req.UserID = user.ID

		if err := deps.Tracker.MarkLectureComplete(r.Context(), &req); err != nil {
			respondError(w, err)
			return
		}

		summary, err := deps.Tracker.Get(r.Context(), user.ID, req.CourseID)
		if err != nil {
			respondError(w, err)
			return
		}

		render.JSON(w, r, summary)
	}
}

// GET: /progress/{courseID}
func getProgressHandler(deps UserDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := auth.GetUserFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		summary, err := deps.Tracker.Get(r.Context(), user.ID, chi.URLParam(r, "courseID"))
		if err != nil {
			respondError(w, err)
			return
		}

		render.JSON(w, r, summary)
	}
}

// POST: /session
func createSessionHandler(deps UserDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Token string `json:"token" validate:"required"`
		}
		if err := decodeAndValidate(r, &req); err != nil {
			respondError(w, err)
			return
		}

		cookieValue, err := deps.Repo.CreateSessionCookie(r.Context(), req.Token, deps.Config.SessionCookieExpiration)
		if err != nil {
			http.Error(w, "failed to create session", http.StatusUnauthorized)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     deps.Config.SessionCookieName,
			Value:    cookieValue,
			MaxAge:   int(deps.Config.SessionCookieExpiration.Seconds()),
			HttpOnly: true,
			Path:     "/",
		})
		w.WriteHeader(http.StatusOK)
	}
}

// POST: /signout
func signOutHandler(deps UserDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     deps.Config.SessionCookieName,
			Value:    "",
			MaxAge:   -1,
			HttpOnly: true,
			Path:     "/",
		})
		w.WriteHeader(http.StatusOK)
	}
}
