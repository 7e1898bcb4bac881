package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"institute-app-go/internal/config"
	"institute-app-go/internal/db"
	academicsdomain "institute-app-go/internal/domain/academics"
	admissiondomain "institute-app-go/internal/domain/admission"
	feesdomain "institute-app-go/internal/domain/fees"
	ledgerdomain "institute-app-go/internal/domain/ledger"
	"institute-app-go/internal/repository/inmemory"
	academicsrepo "institute-app-go/internal/repository/postgres/academics"
	admissionrepo "institute-app-go/internal/repository/postgres/admission"
	feesrepo "institute-app-go/internal/repository/postgres/fees"
	ledgerrepo "institute-app-go/internal/repository/postgres/ledger"
	receiptsrepo "institute-app-go/internal/repository/postgres/receipts"
	redisrepo "institute-app-go/internal/repository/redis"
	"institute-app-go/internal/transport/httpserver"
	"institute-app-go/internal/transport/httpserver/handler"
	"institute-app-go/internal/transport/httpserver/handler/billing"
	"institute-app-go/internal/transport/httpserver/handler/common"
	"institute-app-go/internal/transport/httpserver/handler/enrollment"
	ledgerhandler "institute-app-go/internal/transport/httpserver/handler/ledger"
	"institute-app-go/internal/transport/httpserver/middleware"
	"institute-app-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	redis      *redis.Client
	backends   Backends
}

// Backends names where records and receipt numbers are kept.
type Backends struct {
	Storage  string
	Receipts string
}

// Services is every domain service the HTTP layer serves.
type Services struct {
	Fees      *feesdomain.Service
	Ledger    *ledgerdomain.Service
	Admission *admissiondomain.Service
	Academics *academicsdomain.Service
}

type Repositories struct {
	Fees      feesdomain.Repository
	Ledger    ledgerdomain.Repository
	Admission admissiondomain.Repository
	Academics academicsdomain.Repository
	Receipts  ledgerdomain.ReceiptGenerator
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	application := &App{cfg: cfg, backends: Backends{Storage: cfg.Storage, Receipts: cfg.Storage}}

	var repos Repositories
	switch cfg.Storage {
	case config.StorageMemory:
		log.Warn("app: using in-memory storage, data is lost on restart")
		repos = MemoryRepositories(cfg.Receipts.Prefix)
	default:
		log.Info("app: initializing database")
		dbConn, err := db.NewPostgres(cfg.DB, log)
		if err != nil {
			return nil, err
		}
		application.db = dbConn

		if cfg.DB.AutoMigrate {
			if err := db.Migrate(dbConn, log); err != nil {
				_ = application.Close()
				return nil, err
			}
		}

		repos = Repositories{
			Fees:      feesrepo.NewPostgres(dbConn),
			Ledger:    ledgerrepo.NewPostgres(dbConn),
			Admission: admissionrepo.NewPostgres(dbConn),
			Academics: academicsrepo.NewPostgres(dbConn),
			Receipts:  receiptsrepo.NewPostgres(dbConn, cfg.Receipts.Prefix),
		}
	}

	redisClient, err := db.NewRedis(cfg.Redis, log)
	if err != nil {
		_ = application.Close()
		return nil, err
	}
	if redisClient != nil {
		application.redis = redisClient
		application.backends.Receipts = "redis"
		repos.Receipts = redisrepo.NewReceiptGenerator(redisClient, cfg.Receipts.Prefix)
		log.Info("app: receipt numbers from redis")
	}

	services := NewServices(repos, log)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, NewHandlers(services, log))

	log.Info("app: initializing http server")
	application.httpServer = httpserver.New(cfg, router)
	return application, nil
}

// MemoryRepositories backs every repository with one shared in-memory store.
func MemoryRepositories(receiptPrefix string) Repositories {
	store := inmemory.NewStore()
	return Repositories{
		Fees:      store.Fees(),
		Ledger:    store.Ledger(),
		Admission: store.Admission(),
		Academics: store.Academics(),
		Receipts:  inmemory.NewReceiptGenerator(receiptPrefix),
	}
}

// NewServices wires the domain services. Voiding is limited to super-admins.
func NewServices(repos Repositories, log logger.Logger) Services {
	feeFactory := feesdomain.NewFactory(repos.Fees, log)

	ledgerService := ledgerdomain.NewService(repos.Ledger, feeFactory, repos.Receipts, log)
	ledgerService.SetVoidGate(middleware.VoidGate(middleware.RoleSuperAdmin))

	return Services{
		Fees:      feesdomain.NewService(repos.Fees, feeFactory),
		Ledger:    ledgerService,
		Admission: admissiondomain.NewService(repos.Admission, feeFactory, repos.Receipts, log),
		Academics: academicsdomain.NewService(repos.Academics, log),
	}
}

func NewHandlers(services Services, log logger.Logger) *handler.Handlers {
	validator := common.NewValidator()
	return handler.New(
		common.New(log),
		billing.New(services.Fees, services.Admission, validator, log),
		ledgerhandler.New(services.Ledger, services.Admission, validator, log),
		enrollment.New(services.Admission, services.Academics, validator, log),
	)
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Backends() Backends {
	return a.backends
}

func (a *App) Env() string {
	return a.cfg.Env
}

func (a *App) ShutdownTimeout() time.Duration {
	return a.cfg.ShutdownTimeout
}

func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err != nil {
			errs = append(errs, err)
		} else {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
