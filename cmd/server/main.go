package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/adityaverma/portfolio-backend/internal/config"
	"github.com/adityaverma/portfolio-backend/internal/database"
	"github.com/adityaverma/portfolio-backend/internal/handlers"
	"github.com/adityaverma/portfolio-backend/internal/middleware"
	"github.com/adityaverma/portfolio-backend/internal/routes"
	"github.com/adityaverma/portfolio-backend/internal/services"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	if !cfg.HasFallbackAdmin() {
		log.Println("⚠️  WARNING: ADMIN_EMAIL / ADMIN_PASSWORD not set. Fallback admin login is disabled.")
	}
	if cfg.JWTSecret == "your-secret-key-change-in-production" && cfg.IsProduction() {
		log.Println("⚠️  WARNING: JWT_SECRET is using the default value in production")
	}

	// Connect to MySQL
	log.Printf("Connecting to MySQL...")
	if err := database.ConnectMySQL(cfg.MySQLDSN); err != nil {
		log.Fatal("Failed to connect to MySQL:", err)
	}
	defer database.DisconnectMySQL()

	// Connect to Redis (optional; rate limiting is skipped without it)
	rateLimited := false
	if cfg.RedisURI != "" {
		log.Printf("Connecting to Redis...")
		if err := database.ConnectRedis(cfg.RedisURI); err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v", err)
			log.Println("Rate limiting will not be available")
		} else {
			defer database.DisconnectRedis()
			rateLimited = true
		}
	} else {
		log.Println("REDIS_URI not set. Rate limiting will not be available")
	}

	handlers.InitAuth(cfg)

	// Profile image uploads: Cloudinary when configured, local disk otherwise
	var localUploads *services.LocalStorage
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		cld, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Fatal("Failed to initialize Cloudinary:", err)
		}
		handlers.InitUploadService(cld)
		log.Println("✅ Cloudinary service initialized")
	} else {
		ls, err := services.NewLocalStorage(cfg.UploadDir)
		if err != nil {
			log.Fatal("Failed to initialize local upload storage:", err)
		}
		localUploads = ls
		handlers.InitUploadService(ls)
		log.Printf("✅ Local upload storage initialized (%s)", ls.Dir())
	}

	// Setup router
	r := chi.NewRouter()

	// Custom CORS: set headers and respond to OPTIONS with 200 so preflight never gets 403
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	if rateLimited {
		r.Use(middleware.RateLimit)
		log.Println("✅ Per-IP rate limiting enabled")
	}

	// Health checks (no auth)
	healthOK := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}
	r.Get("/health", healthOK)
	r.Get("/api/health", healthOK)
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := database.MySQLDB.PingContext(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("OK"))
	})

	// Serve locally stored profile images
	if localUploads != nil {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(localUploads.Dir())))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	routes.SetupRoutes(r, cfg)

	log.Printf("🚀 Portfolio backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
