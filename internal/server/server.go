package server

import (
	"fmt"
	"log"
	"net/http"

	"coursely/internal/catalog"
	"coursely/internal/config"
	"coursely/internal/enrollment"
	"coursely/internal/instructor"
	"coursely/internal/payments"
	"coursely/internal/progress"
	"coursely/internal/repository"
	rtr "coursely/internal/router"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// Services bundles the constructed dependencies the routes are wired with.
type Services struct {
	Config     *config.ServerConfig
	Repo       *repository.FirebaseRepository
	Catalog    *catalog.Service
	Tracker    *progress.Tracker
	Ledger     *enrollment.Ledger
	Instructor *instructor.Service
	Payments   *payments.Client
}

func Routes(s *Services) *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.Logger, // Log API Request Calls
	)

	router.Route("/", func(r chi.Router) {
		r.Mount("/", rtr.HealthRoutes())
	})

	router.Route("/v1", func(r chi.Router) {
		r.Mount("/courses", rtr.CourseRoutes(s.Catalog, s.Repo, s.Config.SessionCookieName))
		r.Mount("/users", rtr.UserRoutes(rtr.UserDeps{
			Repo:     s.Repo,
			Tracker:  s.Tracker,
			Payments: s.Payments,
			Config:   s.Config,
		}))
		r.Mount("/instructor", rtr.InstructorRoutes(rtr.InstructorDeps{
			Repo:      s.Repo,
			Dashboard: s.Instructor,
			Config:    s.Config,
		}))
		r.Mount("/stripe", rtr.PaymentRoutes(rtr.PaymentDeps{
			Ledger:   s.Ledger,
			Payments: s.Payments,
		}))
	})

	return router
}

func Start(s *Services) {
	if s.Config == nil {
		log.Panic("missing or invalid configuration")
	}

	router := Routes(s)
	c := cors.New(cors.Options{
		AllowedOrigins:   s.Config.AllowedOrigins,
		AllowedHeaders:   []string{"Cookie", "Content-Type", "Stripe-Signature"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "PATCH"},
		ExposedHeaders:   []string{"Set-Cookie"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)
	log.Printf("Server is listening on port %v\n", s.Config.Port)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", s.Config.Port), handler))
}
