package router

import (
	"net/http"

	"coursely/internal/auth"
	"coursely/internal/catalog"
	"coursely/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func CourseRoutes(svc *catalog.Service, sessions auth.SessionVerifier, cookieName string) *chi.Mux {
	router := chi.NewRouter()

	// Public catalog listing
	router.Get("/", listCoursesHandler(svc))

	// Single-course detail; the projection depends on who is asking
	router.With(auth.OptionalAuth(sessions, cookieName)).Get("/{courseID}", getCourseHandler(svc))

	// Rating a course requires enrollment
	router.With(auth.RequireAuth(sessions, cookieName)).Post("/{courseID}/rate", rateCourseHandler(svc))

	return router
}

// GET: /
func listCoursesHandler(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courses, err := svc.ListPublished(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}

		render.JSON(w, r, map[string]interface{}{"courses": courses})
	}
}

// GET: /{courseID}
func getCourseHandler(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := chi.URLParam(r, "courseID")

		viewerID := ""
		if user, err := auth.GetUserFromRequest(r); err == nil {
			viewerID = user.ID
		}

		course, err := svc.GetForViewer(r.Context(), courseID, viewerID)
		if err != nil {
			respondError(w, err)
			return
		}

		render.JSON(w, r, course)
	}
}

// POST: /{courseID}/rate
func rateCourseHandler(svc *catalog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := auth.GetUserFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		var req models.RateCourseRequest
		if err := decodeAndValidate(r, &req); err != nil {
			respondError(w, err)
			return
		}
		req.CourseID = chi.URLParam(r, "courseID")
		req.UserID = user.ID

		if err := svc.Rate(r.Context(), &req); err != nil {
			respondError(w, err)
			return
		}

		render.JSON(w, r, map[string]string{"message": "Rating saved"})
	}
}
