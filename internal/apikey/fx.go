package apikey

import (
	"github.com/reservaspro/reservaspro/internal/apikey/repository"
	"github.com/reservaspro/reservaspro/internal/apikey/service"
	"go.uber.org/fx"
)

var Module = fx.Module("apikey.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
