package pdf

import (
	"context"
	"io"

	"go.uber.org/fx"
)

var Module = fx.Module("pdf",
	fx.Provide(New),
)

type Provider interface {
	GenerateVoucher(ctx context.Context, data VoucherData) (io.Reader, error)
}

type MarotoProvider struct{}

func New() Provider {
	return &MarotoProvider{}
}
