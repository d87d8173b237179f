package loyalty

import (
	"github.com/reservaspro/reservaspro/internal/loyalty/domain"
	"github.com/reservaspro/reservaspro/internal/loyalty/repository"
	"github.com/reservaspro/reservaspro/internal/loyalty/service"
	orgdomain "github.com/reservaspro/reservaspro/internal/organization/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("loyalty.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(
		func(s domain.Service) domain.RewardIssuer { return s },
		func(s domain.Service) domain.LevelTableReader { return s },
		func(s domain.Service) orgdomain.LevelSeeder { return s },
	),
)
