package pdf

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// VoucherData is the printable view of an earned reward. Values are
// preformatted by the caller.
type VoucherData struct {
	BusinessName string
	ClientName   string
	LevelName    string
	Benefit      string
	Description  string
	Code         string
	IssuedOn     string
	ExpiresOn    string
	Status       string
}

var ErrMissingVoucherCode = errors.New("missing_voucher_code")

func (p *MarotoProvider) GenerateVoucher(ctx context.Context, data VoucherData) (io.Reader, error) {
	if strings.TrimSpace(data.Code) == "" {
		return nil, ErrMissingVoucherCode
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithRightMargin(15).
		WithTopMargin(15).
		Build()
	m := maroto.New(cfg)

	m.AddRow(18,
		text.NewCol(8, data.BusinessName, props.Text{Size: 18, Style: fontstyle.Bold, Align: align.Left}),
		text.NewCol(4, "Reward voucher", props.Text{Size: 12, Align: align.Right, Top: 3}),
	)
	m.AddRow(4, line.NewCol(12))

	m.AddRow(30,
		col.New(12).Add(
			text.New(data.Benefit, props.Text{Size: 22, Style: fontstyle.Bold, Align: align.Center, Top: 4}),
			text.New(data.Description, props.Text{Size: 11, Align: align.Center, Top: 18}),
		),
	)

	m.AddRow(24,
		col.New(6).Add(
			text.New("Issued to", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.New(data.ClientName, props.Text{Top: 5, Size: 11}),
			text.New("Level reached: "+data.LevelName, props.Text{Top: 12, Size: 9}),
		),
		col.New(6).Add(
			text.New("Issued: "+data.IssuedOn, props.Text{Size: 9, Align: align.Right}),
			text.New("Valid until: "+data.ExpiresOn, props.Text{Top: 5, Size: 9, Align: align.Right}),
			text.New("Status: "+data.Status, props.Text{Top: 10, Size: 9, Align: align.Right}),
		),
	)

	m.AddRow(4, line.NewCol(12))
	m.AddRow(16,
		text.NewCol(12, data.Code, props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Center, Top: 4}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}
