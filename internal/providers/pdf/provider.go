package pdf

import (
	"strings"

	"github.com/smallbiznis/hostelhub/internal/config"
	orderdomain "github.com/smallbiznis/hostelhub/internal/order/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("pdf",
	fx.Provide(
		New,
		asReceiptRenderer,
	),
)

func asReceiptRenderer(p *Provider) orderdomain.ReceiptRenderer { return p }

// Provider renders order documents with maroto.
type Provider struct {
	brand    string
	currency string
}

func New(cfg config.Config) *Provider {
	brand := strings.TrimSpace(cfg.AppName)
	if brand == "" {
		brand = "hostelhub"
	}
	return &Provider{brand: brand, currency: "EUR"}
}
