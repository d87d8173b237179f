package booking

import (
	"github.com/reservaspro/reservaspro/internal/booking/repository"
	"github.com/reservaspro/reservaspro/internal/booking/service"
	"go.uber.org/fx"
)

var Module = fx.Module("booking.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
