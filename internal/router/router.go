package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"presence/backend/foundation/web"
	"presence/backend/internal/auth"
	"presence/backend/internal/middleware"
	"presence/backend/internal/pkg/logger"
	"presence/backend/internal/pkg/repository/postgresql"
	"presence/backend/internal/repository/memory"
	"presence/backend/internal/repository/postgres/attendance"
	"presence/backend/internal/repository/postgres/employee"
	"presence/backend/internal/repository/postgres/user"
	attendance_service "presence/backend/internal/service/attendance"

	attendance_controller "presence/backend/internal/controller/http/v1/attendance"
	auth_controller "presence/backend/internal/controller/http/v1/auth"
	employee_controller "presence/backend/internal/controller/http/v1/employee"
	health_controller "presence/backend/internal/controller/http/v1/health"
)

// Stores groups the repositories one storage backend provides.
type Stores struct {
	Users      auth.Users
	Sessions   auth.Sessions
	Employees  employee_controller.Employee
	Attendance attendance_service.Store
}

// PostgresStores builds the postgres repositories. Sessions live elsewhere
// (redis or memory) and are passed in.
func PostgresStores(db *postgresql.Database, sessions auth.Sessions) Stores {
	return Stores{
		Users:      user.NewRepository(db),
		Sessions:   sessions,
		Employees:  employee.NewRepository(db),
		Attendance: attendance.NewRepository(db),
	}
}

// MemoryStores builds repositories sharing one in-process database.
func MemoryStores(db *memory.DB) Stores {
	return Stores{
		Users:      memory.NewUserRepository(db),
		Sessions:   memory.NewSessionStore(db),
		Employees:  memory.NewEmployeeRepository(db),
		Attendance: memory.NewAttendanceRepository(db),
	}
}

type Config struct {
	Auth           auth.Config
	AllowedOrigins []string
	// Clock overrides time.Now for attendance timestamps.
	Clock          func() time.Time
}

type Router struct {
	*web.App
	stores  Stores
	pingers map[string]health_controller.Pinger
	cfg     Config
	log     *logger.Logger
}

func NewRouter(
	app *web.App,
	stores Stores,
	pingers map[string]health_controller.Pinger,
	cfg Config,
	log *logger.Logger,
) *Router {
	return &Router{
		App:     app,
		stores:  stores,
		pingers: pingers,
		cfg:     cfg,
		log:     log,
	}
}

func (r Router) Init() error {
	r.HandleMethodNotAllowed = true
	r.Use(middleware.RequestLogger(r.log), gin.Recovery(), middleware.CorsMiddleware(r.cfg.AllowedOrigins))

	// - services
	authService, err := auth.New(r.stores.Users, r.stores.Sessions, r.cfg.Auth, r.log.With("component", "auth"))
	if err != nil {
		return err
	}

	var opts []attendance_service.Option
	if r.cfg.Clock != nil {
		opts = append(opts, attendance_service.WithClock(r.cfg.Clock))
	}
	engine := attendance_service.NewEngine(r.stores.Attendance, r.log.With("component", "attendance"), opts...)

	// controller
	authController := auth_controller.NewController(authService)
	employeeController := employee_controller.NewController(r.stores.Employees)
	attendanceController := attendance_controller.NewController(engine, r.stores.Employees)
	healthController := health_controller.NewController(r.pingers)

	// #health
	r.Get("/health", healthController.Check)

	// #user
	r.Post("/user/register", authController.Register)
	r.Post("/user/login", authController.SignIn)
	r.Post("/user/logout", authController.SignOut, middleware.Authenticate(authService))

	// #employee
	r.Get("/employee", employeeController.GetDetail, middleware.Authenticate(authService))
	r.Post("/employee", employeeController.Create, middleware.Authenticate(authService))
	r.Put("/employee", employeeController.UpdateAll, middleware.Authenticate(authService))

	// #attendance
	r.Post("/employee/enter", attendanceController.Enter, middleware.Authenticate(authService))
	r.Post("/employee/leave", attendanceController.Leave, middleware.Authenticate(authService))
	r.Get("/employee/co-workers", attendanceController.CoWorkers, middleware.Authenticate(authService))

	return nil
}
