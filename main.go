package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"gorm.io/gorm"

	"github.com/stedward-parish/directorybackend/config"
	"github.com/stedward-parish/directorybackend/database"
	"github.com/stedward-parish/directorybackend/handlers"
	"github.com/stedward-parish/directorybackend/media"
	"github.com/stedward-parish/directorybackend/models"
	"github.com/stedward-parish/directorybackend/permissions"
	"github.com/stedward-parish/directorybackend/repository"
	"github.com/stedward-parish/directorybackend/utils"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.ProfilePhotosPath, filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}

	mediaStore, err := media.NewLocalStorage(cfg.MediaStoragePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize media store: %v", err)
	}

	userRepo := repository.NewGormUserRepository(db)
	parishRepo := repository.NewGormParishRepository(db)
	familyRepo := repository.NewGormFamilyRepository(db)
	profileRepo := repository.NewGormProfileRepository(db)
	inviteCodeRepo := repository.NewGormInviteCodeRepository(db)

	if err := ensureDefaultParish(parishRepo, cfg.DefaultParishSlug); err != nil {
		log.Fatalf("FATAL: Failed to ensure default parish: %v", err)
	}
	if err := ensureAdminUser(userRepo); err != nil {
		log.Fatalf("FATAL: Failed to ensure admin user: %v", err)
	}

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Storing profile photos in: %s", cfg.ProfilePhotosPath)
	log.Printf("Directory fallback parish: %s", cfg.DefaultParishSlug)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	authHandler := handlers.NewAuthHandler(cfg, userRepo, profileRepo, inviteCodeRepo)
	directoryHandler := handlers.NewDirectoryHandler(cfg, db, profileRepo)
	profileHandler := handlers.NewProfileHandler(cfg, profileRepo, familyRepo, mediaStore)
	adminParishHandler := handlers.NewAdminParishHandler(parishRepo)
	adminFamilyHandler := handlers.NewAdminFamilyHandler(familyRepo, parishRepo)
	adminProfileHandler := handlers.NewAdminProfileHandler(profileRepo, parishRepo, familyRepo, userRepo)
	adminInviteCodeHandler := handlers.NewAdminInviteCodeHandler(inviteCodeRepo, parishRepo)
	adminMediaHandler := handlers.NewAdminMediaHandler(mediaStore)

	requireAuth := handlers.AuthMiddleware(cfg, userRepo)

	r.Get("/", handlers.HomeRedirect(cfg))
	r.Get("/health", handlers.Health)
	r.Get("/health/", handlers.Health)
	r.Get("/healthz", handlers.Health)
	r.Get("/healthz/", handlers.Health)
	r.Get("/robots.txt", handlers.RobotsTxt)

	r.Post("/api/auth/register", authHandler.Register)
	r.Post("/api/auth/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/api/auth/me", authHandler.CurrentUser)
		r.Get("/directory/", directoryHandler.List)
		r.Get("/media/*", handlers.MediaServer(mediaStore))

		r.Route("/api/profile", func(r chi.Router) {
			r.Get("/", profileHandler.GetOwn)
			r.Put("/", profileHandler.UpdateOwn)
			r.Put("/photo", profileHandler.UploadPhoto)
		})

		r.Route("/api/admin", func(r chi.Router) {
			r.With(handlers.RequireGlobalPermission(permissions.ParishManage)).Route("/parishes", func(r chi.Router) {
				r.Post("/", adminParishHandler.Create)
				r.Get("/", adminParishHandler.List)
				r.Route("/{parish_id}", func(r chi.Router) {
					r.Get("/", adminParishHandler.Get)
					r.Put("/", adminParishHandler.Update)
					r.Delete("/", adminParishHandler.Delete)
				})
			})

			r.With(handlers.RequireGlobalPermission(permissions.FamilyManage)).Route("/families", func(r chi.Router) {
				r.Post("/", adminFamilyHandler.Create)
				r.Get("/", adminFamilyHandler.List)
				r.Route("/{family_id}", func(r chi.Router) {
					r.Get("/", adminFamilyHandler.Get)
					r.Put("/", adminFamilyHandler.Update)
					r.Delete("/", adminFamilyHandler.Delete)
				})
			})

			r.With(handlers.RequireGlobalPermission(permissions.ProfileManage)).Route("/profiles", func(r chi.Router) {
				r.Post("/", adminProfileHandler.Create)
				r.Get("/", adminProfileHandler.List)
				r.Route("/{profile_id}", func(r chi.Router) {
					r.Get("/", adminProfileHandler.Get)
					r.Put("/", adminProfileHandler.Update)
					r.Delete("/", adminProfileHandler.Delete)
				})
			})

			r.With(handlers.RequireGlobalPermission(permissions.InviteCodeManage)).Route("/invite-codes", func(r chi.Router) {
				r.Post("/", adminInviteCodeHandler.Create)
				r.Get("/", adminInviteCodeHandler.List)
				r.Route("/{invite_code_id}", func(r chi.Router) {
					r.Put("/", adminInviteCodeHandler.Update)
					r.Delete("/", adminInviteCodeHandler.Delete)
				})
			})

			r.With(handlers.RequireGlobalPermission(permissions.MediaAudit)).
				Get("/media", adminMediaHandler.List)

			r.Get("/permissions", handlers.ListPermissions)
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	fmt.Printf("Server starting on http://localhost:%s\n", port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

// ensureDefaultParish creates the fallback parish on first run so directory
// listings and invite codes have something to attach to.
func ensureDefaultParish(parishRepo repository.ParishRepository, slug string) error {
	_, err := parishRepo.GetBySlug(slug)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	name := utils.TitleFromSlug(slug)
	log.Printf("Default parish '%s' not found, creating '%s'", slug, name)
	return parishRepo.Create(&models.Parish{Name: name, Slug: slug})
}

// ensureAdminUser seeds an administrator account from ADMIN_USERNAME and
// ADMIN_PASSWORD when no users exist yet. Idempotent across restarts.
func ensureAdminUser(userRepo repository.UserRepository) error {
	users, err := userRepo.ListAll()
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		log.Printf("No users exist and ADMIN_USERNAME/ADMIN_PASSWORD are unset; skipping admin bootstrap")
		return nil
	}

	admin := &models.User{
		Username:          username,
		GlobalPermissions: permissions.AllKeys(),
	}
	if err := admin.SetPassword(password); err != nil {
		return err
	}
	if err := userRepo.Create(admin); err != nil {
		return err
	}
	log.Printf("Created bootstrap admin user '%s'", username)
	return nil
}
