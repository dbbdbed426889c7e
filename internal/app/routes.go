package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campuskit/scholarbase/internal/middleware"
	"github.com/campuskit/scholarbase/internal/plugins/auth"
	"github.com/campuskit/scholarbase/internal/plugins/faculty"
	"github.com/campuskit/scholarbase/internal/plugins/scholarships"
	"github.com/campuskit/scholarbase/internal/plugins/students"
	"github.com/campuskit/scholarbase/internal/plugins/users"
	"github.com/campuskit/scholarbase/internal/token"
)

// rate limiter tier names. Tier is part of the Redis key so each tier
// counts independently per client IP.
const (
	tierAuth   = "auth"
	tierAPI    = "api"
	tierStrict = "strict"
)

// RegisterRoutes wires every plugin into the Echo instance. Repositories are
// chosen here once, at composition time: SQL-backed against the MariaDB pool,
// or in-memory fixtures when cfg.UseFixtures is set. Nothing below this
// function knows which one it got.
func (a *App) RegisterRoutes() error {
	cfg := a.Config

	// Repositories.
	var (
		userRepo        auth.UserRepository
		studentRepo     students.StudentRepository
		scholarshipRepo scholarships.ScholarshipRepository
		facultyRepo     faculty.FacultyRepository
	)
	if cfg.UseFixtures {
		userRepo = auth.NewMemoryUserRepository()
		studentRepo = students.NewFixtureRepository(nil)
		scholarshipRepo = scholarships.NewFixtureRepository(nil)
		facultyRepo = faculty.NewFixtureRepository(nil)

		// Fixture mode gets the predefined login accounts so the frontend
		// can sign in without a database.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := auth.Seed(ctx, userRepo, cfg.Auth.BcryptCost); err != nil {
			return err
		}
		slog.Info("running with fixture repositories and seeded accounts")
	} else {
		userRepo = auth.NewUserRepository(a.DB)
		studentRepo = students.NewStudentRepository(a.DB)
		scholarshipRepo = scholarships.NewScholarshipRepository(a.DB)
		facultyRepo = faculty.NewFacultyRepository(a.DB)
	}

	// Services.
	tokens, err := token.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	authService := auth.NewAuthService(userRepo, tokens, cfg.Auth.BcryptCost)
	userService := users.NewUserService(userRepo, cfg.Auth.BcryptCost)
	studentService := students.NewStudentService(studentRepo)
	scholarshipService := scholarships.NewScholarshipService(scholarshipRepo)
	facultyService := faculty.NewFacultyService(facultyRepo)

	// Rate limiter tiers. Health probes and session verification never count
	// against a client's budget.
	limiter := middleware.NewRateLimiter(a.Redis, []string{
		"/api/health",
		"/api/status",
		"/api/auth/verify",
	})
	authLimit := limiter.Limit(tierAuth, cfg.RateLimit.AuthMax, cfg.RateLimit.Window)
	apiLimit := limiter.Limit(tierAPI, cfg.RateLimit.APIMax, cfg.RateLimit.Window)
	strictLimit := limiter.Limit(tierStrict, cfg.RateLimit.StrictMax, cfg.RateLimit.StrictWindow)

	api := a.Echo.Group("/api", apiLimit)

	// Health endpoints.
	api.GET("/health", a.health)
	api.GET("/status", a.status)

	// Auth: register, login, verify.
	auth.RegisterRoutes(api.Group("/auth"), auth.NewHandler(authService), authService, authLimit)

	// Everything below requires a valid session.
	requireAuth := auth.RequireAuth(authService)

	users.RegisterRoutes(api.Group("/users", requireAuth), users.NewHandler(userService), strictLimit)
	students.RegisterRoutes(api.Group("/students", requireAuth), students.NewHandler(studentService))
	scholarships.RegisterRoutes(api.Group("/scholarships", requireAuth), scholarships.NewHandler(scholarshipService))
	faculty.RegisterRoutes(api.Group("/faculty", requireAuth), faculty.NewHandler(facultyService))

	return nil
}

// health is a liveness probe. Always 200 while the process is up.
func (a *App) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
	})
}

// status reports readiness: the process plus its backing services. Degraded
// dependencies are reported per-component rather than failing the whole
// response so operators can see exactly what is down.
func (a *App) status(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	components := map[string]string{}
	healthy := true

	if a.Config.UseFixtures || a.DB == nil {
		components["database"] = "fixtures"
	} else if err := a.DB.PingContext(ctx); err != nil {
		components["database"] = "down"
		healthy = false
	} else {
		components["database"] = "ok"
	}

	if a.Redis == nil {
		components["redis"] = "disabled"
	} else if err := a.Redis.Ping(ctx).Err(); err != nil {
		components["redis"] = "down"
		healthy = false
	} else {
		components["redis"] = "ok"
	}

	code := http.StatusOK
	status := "ok"
	if !healthy {
		code = http.StatusServiceUnavailable
		status = "degraded"
	}
	return c.JSON(code, map[string]any{
		"status":     status,
		"env":        a.Config.Env,
		"components": components,
	})
}
