package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/hamdaan-dev/taskboard-api/internal/config"
	"github.com/hamdaan-dev/taskboard-api/internal/constants"
	"github.com/hamdaan-dev/taskboard-api/internal/database"
	"github.com/hamdaan-dev/taskboard-api/internal/handlers"
	"github.com/hamdaan-dev/taskboard-api/internal/logger"
	"github.com/hamdaan-dev/taskboard-api/internal/middleware"
	"github.com/hamdaan-dev/taskboard-api/internal/repository"
	"github.com/hamdaan-dev/taskboard-api/internal/services"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		zapLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	semesterRepo := repository.NewSemesterRepository(db)
	rosterRepo := repository.NewRosterRepository(db)
	weekRepo := repository.NewWeekRepository(db)
	eventRepo := repository.NewEventRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// Services
	auditService := services.NewAuditService(auditRepo, zapLogger)
	authService := services.NewAuthService(userRepo, auditService)
	userService := services.NewUserService(userRepo, teamRepo, auditService)
	teamService := services.NewTeamService(teamRepo, auditService)
	semesterService := services.NewSemesterService(semesterRepo, auditService)
	rosterService := services.NewRosterService(rosterRepo, semesterRepo, userRepo)
	scheduleService := services.NewScheduleService(weekRepo, eventRepo, semesterRepo, auditService)
	commentService := services.NewCommentService(commentRepo, taskRepo)

	notifier := services.NewDiscordNotifier(cfg, zapLogger)
	resolver := services.NewAssignmentResolver(taskRepo, teamRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, eventRepo, teamRepo, userRepo, resolver, auditService, notifier, zapLogger)
	reminderService := services.NewReminderService(taskRepo, eventRepo, resolver, notifier, zapLogger, cfg.ReminderWindow)
	dashboardService := services.NewDashboardService(semesterRepo, weekRepo, eventRepo, taskRepo, resolver)
	statsService := services.NewStatsService(statsRepo, userRepo, teamRepo, semesterRepo, weekRepo)
	templateService := services.NewTemplateService(weekRepo, eventRepo, teamRepo, auditService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	teamHandler := handlers.NewTeamHandler(teamService)
	semesterHandler := handlers.NewSemesterHandler(semesterService)
	rosterHandler := handlers.NewRosterHandler(rosterService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	taskHandler := handlers.NewTaskHandler(taskService, reminderService)
	commentHandler := handlers.NewCommentHandler(commentService)
	auditHandler := handlers.NewAuditHandler(auditService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	statsHandler := handlers.NewStatsHandler(statsService)
	templateHandler := handlers.NewTemplateHandler(templateService)

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(zapLogger))

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		zapLogger.Fatal("failed to create redis store", zap.Error(err))
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Background auto-reminder loop
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runReminderLoop(ctx, reminderService, cfg.TickInterval, zapLogger)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		authed := api.Group("")
		authed.Use(middleware.RequireAuth(), middleware.LoadUser())
		{
			authed.GET("/dashboard", dashboardHandler.GetDashboard)

			users := authed.Group("/users")
			{
				users.GET("", userHandler.ListUsers)
				users.GET("/:id", userHandler.GetUser)
				users.POST("", middleware.RequireAdmin(), userHandler.CreateUser)
				users.PATCH("/:id", middleware.RequireAdmin(), userHandler.UpdateUser)
				users.DELETE("/:id", middleware.RequireAdmin(), userHandler.DeleteUser)
			}

			teams := authed.Group("/teams")
			{
				teams.GET("", teamHandler.ListTeams)
				teams.GET("/:id", teamHandler.GetTeam)
				teams.GET("/:id/members", teamHandler.ListTeamMembers)
				teams.POST("", middleware.RequireAdmin(), teamHandler.CreateTeam)
				teams.PATCH("/:id", middleware.RequireAdmin(), teamHandler.UpdateTeam)
				teams.DELETE("/:id", middleware.RequireAdmin(), teamHandler.DeleteTeam)
			}

			semesters := authed.Group("/semesters")
			{
				semesters.GET("", semesterHandler.ListSemesters)
				semesters.GET("/active", semesterHandler.GetActiveSemester)
				semesters.GET("/:id", semesterHandler.GetSemester)
				semesters.GET("/:id/weeks", scheduleHandler.ListWeeks)
				semesters.GET("/:id/roster", rosterHandler.ListRoster)

				admin := semesters.Group("")
				admin.Use(middleware.RequireAdmin())
				{
					admin.POST("", semesterHandler.CreateSemester)
					admin.PATCH("/:id", semesterHandler.UpdateSemester)
					admin.POST("/:id/activate", semesterHandler.ActivateSemester)
					admin.DELETE("/:id", semesterHandler.DeleteSemester)
					admin.POST("/:id/weeks", scheduleHandler.CreateWeek)
					admin.POST("/:id/roster", rosterHandler.AddToRoster)
					admin.DELETE("/:id/roster/:user_id", rosterHandler.RemoveFromRoster)
					admin.GET("/:id/roster/available", rosterHandler.ListAvailableUsers)
				}
			}

			weeks := authed.Group("/weeks")
			{
				weeks.GET("/:id/events", scheduleHandler.ListEvents)
				weeks.PATCH("/:id", middleware.RequireAdmin(), scheduleHandler.UpdateWeek)
				weeks.DELETE("/:id", middleware.RequireAdmin(), scheduleHandler.DeleteWeek)
				weeks.POST("/:id/events", middleware.RequireAdmin(), scheduleHandler.CreateEvent)
			}

			events := authed.Group("/events")
			{
				events.GET("/:id", scheduleHandler.GetEvent)
				events.GET("/:id/tasks", taskHandler.ListEventTasks)
				events.PATCH("/:id", middleware.RequireAdmin(), scheduleHandler.UpdateEvent)
				events.DELETE("/:id", middleware.RequireAdmin(), scheduleHandler.DeleteEvent)
				events.POST("/:id/tasks", middleware.RequireAdmin(), taskHandler.CreateTask)
				events.POST("/:id/remind", middleware.RequireAdmin(), taskHandler.SendEventReminders)
			}

			tasks := authed.Group("/tasks")
			{
				tasks.GET("/:id", taskHandler.GetTask)
				tasks.POST("/:id/done", taskHandler.MarkDone)
				tasks.POST("/:id/cannot-do", taskHandler.MarkCannotDo)
				tasks.POST("/:id/undo", taskHandler.UndoStatus)
				tasks.GET("/:id/comments", commentHandler.ListComments)
				tasks.POST("/:id/comments", commentHandler.CreateComment)
				tasks.DELETE("/:id/comments/:comment_id", commentHandler.DeleteComment)
				tasks.PATCH("/:id", middleware.RequireAdmin(), taskHandler.UpdateTask)
				tasks.DELETE("/:id", middleware.RequireAdmin(), taskHandler.DeleteTask)
				tasks.POST("/:id/reassign", middleware.RequireAdmin(), taskHandler.Reassign)
				tasks.POST("/:id/remind", middleware.RequireAdmin(), taskHandler.SendReminder)
			}

			stats := authed.Group("/stats", middleware.RequireAdmin())
			{
				stats.GET("/overview", statsHandler.GetOverview)
				stats.GET("/users", statsHandler.ListUserStats)
				stats.GET("/teams", statsHandler.ListTeamStats)
				stats.GET("/semesters", statsHandler.ListSemesterStats)
				stats.GET("/activity", statsHandler.ListWeeklyActivity)
			}

			templates := authed.Group("/templates", middleware.RequireAdmin())
			{
				templates.GET("", templateHandler.ListTemplates)
				templates.POST("/create", templateHandler.CreateFromTemplate)
			}

			authed.GET("/audit", middleware.RequireAdmin(), auditHandler.ListAuditLog)
		}
	}

	// Start server
	zapLogger.Info("starting server", zap.String("addr", ":8080"))
	if err := r.Run(":8080"); err != nil {
		zapLogger.Fatal("server exited", zap.Error(err))
	}
}

// runReminderLoop drives the auto-reminder pass on a fixed interval until
// the context is cancelled.
func runReminderLoop(ctx context.Context, reminders *services.ReminderService, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			sent, err := reminders.Tick(ctx, now)
			if err != nil {
				log.Error("reminder pass failed", zap.Error(err))
				continue
			}
			if sent > 0 {
				log.Info("reminder pass complete", zap.Int("sent", sent))
			}
		}
	}
}
