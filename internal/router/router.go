package router

import (
	"database/sql"
	"net/http"
	"time"

	mem "pet-adoption/internal/adapters/storage/memory"
	pg "pet-adoption/internal/adapters/storage/postgres"
	"pet-adoption/internal/domain/adoptions"
	"pet-adoption/internal/domain/history"
	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/domain/shelters"
	"pet-adoption/internal/domain/users"
	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/metrics"
	"pet-adoption/internal/platform/respond"
	"pet-adoption/internal/ports/auth"
	"pet-adoption/internal/ports/notify"

	_ "pet-adoption/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Outbox de notificaciones. nil = se descartan.
	Outbox notify.Queue

	Logger logger.Logger

	// 0 = sin timeout por request.
	RequestTimeout time.Duration
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	outbox := opts.Outbox
	if outbox == nil {
		outbox = notify.Discard{}
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(chimw.Timeout(opts.RequestTimeout))
	}

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respond.Error(w, http.StatusNotFound, "route not found")
	})

	var (
		petRepo      pets.Repository
		shelterRepo  shelters.Repository
		userRepo     users.Repository
		historyRepo  history.Repository
		adoptionRepo func(ledger adoptions.PetLedger) adoptions.Repository
	)

	if opts.DB != nil {
		petRepo = pg.NewPetsRepo(opts.DB)
		shelterRepo = pg.NewSheltersRepo(opts.DB)
		userRepo = pg.NewUsersRepo(opts.DB)
		historyRepo = pg.NewHistoryRepo(opts.DB)
		// En Postgres el ledger se mueve dentro de la transacción de aprobación.
		adoptionRepo = func(adoptions.PetLedger) adoptions.Repository { return pg.NewAdoptionsRepo(opts.DB) }
	} else {
		petRepo = mem.NewPetRepo()
		shelterRepo = mem.NewShelterRepo()
		userRepo = mem.NewUserRepo()
		historyRepo = mem.NewHistoryRepo()
		adoptionRepo = mem.NewAdoptionRepo
	}

	// Services por módulo
	petsSvc := pets.NewService(petRepo)
	sheltersSvc := shelters.NewService(shelterRepo)
	guard := shelters.NewGuard(sheltersSvc)
	usersSvc := users.NewService(userRepo)
	historySvc := history.NewService(historyRepo)
	adoptionsSvc := adoptions.NewService(adoptionRepo(petsSvc), adoptions.Deps{
		Pets:     petsSvc,
		Shelters: sheltersSvc,
		Guard:    guard,
		Users:    usersSvc,
		History:  historySvc,
		Outbox:   outbox,
		Logger:   log,
	})

	// Rutas por módulo
	users.RegisterRoutes(r, usersSvc)
	shelters.RegisterRoutes(r, sheltersSvc)
	pets.RegisterRoutes(r, petsSvc, sheltersSvc, guard)
	adoptions.RegisterRoutes(r, adoptionsSvc)

	return r
}
