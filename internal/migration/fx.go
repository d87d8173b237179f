package migration

import (
	"context"

	"github.com/reservaspro/reservaspro/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module migrates the schema and seeds the default tenant on startup.
var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, p seed.Params) error {
		if err := Run(conn); err != nil {
			return err
		}
		_, err := seed.EnsureDefaults(context.Background(), p)
		return err
	}),
)
