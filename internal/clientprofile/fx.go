package clientprofile

import (
	"github.com/reservaspro/reservaspro/internal/clientprofile/repository"
	"github.com/reservaspro/reservaspro/internal/clientprofile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("clientprofile.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
