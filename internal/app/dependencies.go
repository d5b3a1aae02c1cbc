package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/MartinJulianGarcia/hrk-b2b-backend/internal/domain"
	healthcheck "github.com/MartinJulianGarcia/hrk-b2b-backend/internal/health"
	"github.com/MartinJulianGarcia/hrk-b2b-backend/internal/storage/memory"
	"github.com/MartinJulianGarcia/hrk-b2b-backend/internal/storage/postgres"
)

// runtimeDependencies содержит хранилища, собранные под выбранный driver.
type runtimeDependencies struct {
	orders         domain.OrderRepository
	customers      domain.CustomerRepository
	variants       domain.VariantRepository
	outboxRepo     domain.OutboxRepository
	storageChecker healthcheck.Checker
	closeFn        func() error
}

// initRuntimeDependencies инициализирует хранилища по cfg.StorageDriver.
// Memory-вариант предназначен для разработки и тестов и засеивается
// демонстрационным справочником.
func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (runtimeDependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	switch cfg.StorageDriver {
	case StorageDriverMemory, "":
		logger.Info("using in-memory storage with demo catalog")
		return runtimeDependencies{
			orders:     memory.NewOrderRepository(),
			customers:  memory.NewCustomerRepositorySeeded(demoCustomers()...),
			variants:   memory.NewVariantRepository(demoVariants()...),
			outboxRepo: memory.NewOutboxRepository(),
		}, nil

	case StorageDriverPostgres:
		if cfg.PostgresDSN == "" {
			return runtimeDependencies{}, fmt.Errorf("postgres storage driver requires a DSN")
		}

		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return runtimeDependencies{}, fmt.Errorf("open postgres store: %w", err)
		}

		if cfg.PostgresAutoMigrate {
			if err := store.MigrateUp(ctx, 0); err != nil {
				_ = store.Close()
				return runtimeDependencies{}, fmt.Errorf("apply postgres migrations: %w", err)
			}
		}

		logger.Info("using postgres storage")
		return runtimeDependencies{
			orders:         postgres.NewOrderRepository(store),
			customers:      postgres.NewCustomerRepository(store),
			variants:       postgres.NewVariantRepository(store),
			outboxRepo:     postgres.NewOutboxRepository(store),
			storageChecker: healthcheck.NewPingChecker("postgres", 0, store.Ping),
			closeFn:        store.Close,
		}, nil

	default:
		return runtimeDependencies{}, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
	}
}

func demoCustomers() []domain.Customer {
	return []domain.Customer{
		{ID: "demo-acme", Name: "ACME SRL", Email: "compras@acme.test", Type: domain.CustomerTypeWholesale},
		{ID: "demo-sol", Name: "Tienda Sol", Email: "hola@sol.test", Type: domain.CustomerTypeRetail},
	}
}

func demoVariants() []domain.Variant {
	return []domain.Variant{
		{ID: "demo-rem-m", ProductID: "demo-remera", ProductName: "Remera básica", SKU: "REM-001-M", Color: "negro", Size: "M", Price: 10.0, Stock: 25},
		{ID: "demo-rem-l", ProductID: "demo-remera", ProductName: "Remera básica", SKU: "REM-001-L", Color: "negro", Size: "L", Price: 10.0, Stock: 14},
		{ID: "demo-pan-42", ProductID: "demo-pantalon", ProductName: "Pantalón clásico", SKU: "PAN-002-42", Color: "azul", Size: "42", Price: 5.5, Stock: 8},
	}
}
