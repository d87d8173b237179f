package organization

import (
	"github.com/reservaspro/reservaspro/internal/organization/repository"
	"github.com/reservaspro/reservaspro/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
