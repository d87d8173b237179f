package audit

import (
	"github.com/reservaspro/reservaspro/internal/audit/repository"
	"github.com/reservaspro/reservaspro/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
