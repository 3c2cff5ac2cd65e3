package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/nota10/academico/internal/academic"
	api "github.com/nota10/academico/internal/api/http"
	auth "github.com/nota10/academico/internal/auth/middleware"
	"github.com/nota10/academico/internal/config"
	"github.com/nota10/academico/internal/db"
	"github.com/nota10/academico/internal/rbac"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := academic.NewSQLStore(dbh, cfg.DBDriver, academic.WithBcryptCost(cfg.BcryptCost))

	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public surface: login, registration, curriculum
	r.Post("/auth/login", api.LoginHandler(store, authSvc))
	r.Post("/students", api.CreateStudentHandler(store))
	r.Post("/professors", api.CreateProfessorHandler(store))
	r.Get("/subjects", api.SubjectsHandler())

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Student surface
		pr.With(rbac.Require("grades:view-own")).
			Get("/grades", api.MyGradesHandler(store))
		pr.With(rbac.Require("user:first_access")).
			Post("/auth/first-access", api.FirstAccessHandler(store))

		// Professor surface
		pr.With(rbac.Require("grades:view-any")).
			Get("/students/{ra}/grades/{subject}", api.GetGradesHandler(store))
		pr.With(rbac.Require("grades:set")).
			Put("/students/{ra}/grades/{subject}", api.SetGradeHandler(store))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
