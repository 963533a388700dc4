package fx

import (
	"context"

	"go.uber.org/fx"

	"raidtracker/internal/armory"
	"raidtracker/internal/catalog"
	"raidtracker/internal/config"
	"raidtracker/internal/database"
	"raidtracker/internal/logger"
	"raidtracker/internal/repository"
	"raidtracker/internal/service"
)

// ProvideCatalog loads the static reference data once at startup.
func ProvideCatalog(repo *repository.CatalogRepository) (catalog.Store, error) {
	return repo.Load(context.Background())
}

func ProvideArmory(repo *repository.ArmoryRepository) armory.Store {
	return repo
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewInstanceRepository),
	fx.Provide(repository.NewAttemptRepository),
	fx.Provide(repository.NewRankingRepository),
	fx.Provide(repository.NewLootRepository),
	fx.Provide(repository.NewCatalogRepository),
	fx.Provide(repository.NewArmoryRepository),
	// collaborators
	fx.Provide(ProvideCatalog),
	fx.Provide(ProvideArmory),
	// svc
	fx.Provide(service.NewProcessor),
)
