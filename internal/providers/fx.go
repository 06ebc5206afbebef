package providers

import (
	"github.com/smallbiznis/hostelhub/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	pdf.Module,
)
