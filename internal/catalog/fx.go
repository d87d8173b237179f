package catalog

import (
	"github.com/reservaspro/reservaspro/internal/catalog/repository"
	"github.com/reservaspro/reservaspro/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
