package router

import (
	"net/http"

	"coursely/internal/auth"
	"coursely/internal/config"
	"coursely/internal/instructor"
	"coursely/internal/models"
	repo "coursely/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// InstructorDeps carries what the instructor console routes need.
type InstructorDeps struct {
	Repo      *repo.FirebaseRepository
	Dashboard *instructor.Service
	Config    *config.ServerConfig
}

func InstructorRoutes(deps InstructorDeps) *chi.Mux {
	router := chi.NewRouter()
	router.Use(auth.RequireAuth(deps.Repo, deps.Config.SessionCookieName))

	// Any authenticated user may promote themselves to instructor.
	router.Post("/update-role", updateRoleHandler(deps))

	// Everything else requires the instructor role.
	router.Route("/", func(r chi.Router) {
		r.Use(auth.RequireInstructor())

		r.Post("/courses", createCourseHandler(deps))
		r.Get("/courses", getInstructorCoursesHandler(deps))
		r.Get("/dashboard", getDashboardHandler(deps))
		r.Get("/enrolled-students", getEnrolledStudentsHandler(deps))
	})

	return router
}

// POST: /update-role
func updateRoleHandler(deps InstructorDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := auth.GetUserFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		if err := deps.Repo.SetUserRole(r.Context(), user.ID, models.RoleInstructor); err != nil {
			respondError(w, err)
			return
		}

		render.JSON(w, r, map[string]string{"message": "You can start publishing courses now"})
	}
}

// POST: /courses
func createCourseHandler(deps InstructorDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := auth.GetUserFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		var req models.CreateCourseRequest
		if err := decodeAndValidate(r, &req); err != nil {
			respondError(w, err)
			return
		}
		req.InstructorID = user.ID

		course, err := deps.Repo.CreateCourse(r.Context(), &req)
		if err != nil {
			respondError(w, err)
			return
		}

		render.JSON(w, r, course)
	}
}

// GET: /courses
func getInstructorCoursesHandler(deps InstructorDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := auth.GetUserFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		courses, err := deps.Repo.GetCoursesByInstructor(r.Context(), user.ID)
		if err != nil {
			respondError(w, err)
			return
		}

		render.JSON(w, r, map[string]interface{}{"courses": courses})
	}
}

// GET: /dashboard
func getDashboardHandler(deps InstructorDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := auth.GetUserFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		dashboard, err := deps.Dashboard.Dashboard(r.Context(), user.ID)
		if err != nil {
			respondError(w, err)
			return
		}

		render.JSON(w, r, dashboard)
	}
}

// GET: /enrolled-students
func getEnrolledStudentsHandler(deps InstructorDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := auth.GetUserFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		students, err := deps.Dashboard.EnrolledStudents(r.Context(), user.ID)
		if err != nil {
			respondError(w, err)
			return
		}

		render.JSON(w, r, map[string]interface{}{"enrolledStudents": students})
	}
}
