package pdf

import (
	"fmt"
	"strconv"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	orderdomain "github.com/smallbiznis/hostelhub/internal/order/domain"
)

const dateLayout = "2006-01-02 15:04 MST"

// RenderReceipt implements order/domain.ReceiptRenderer.
func (p *Provider) RenderReceipt(order orderdomain.Order) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(8, p.brand, props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, "Receipt", props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	m.AddRow(25,
		col.New(6).Add(
			text.New("Order number: "+order.Reference, props.Text{Top: 0}),
			text.New("Placed: "+order.CreatedAt.Format(dateLayout), props.Text{Top: 5}),
			text.New("Status: "+string(order.Status), props.Text{Top: 10}),
		),
		col.New(6).Add(
			text.New("Deliver to", props.Text{Style: fontstyle.Bold}),
			text.New(order.DeliveryAddress, props.Text{Top: 5}),
			text.New("Payment: "+order.PaymentMethod, props.Text{Top: 15}),
		),
	)

	m.AddRow(10,
		text.NewCol(6, "Listing", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range order.Items {
		m.AddRow(10,
			text.NewCol(6, item.Name, props.Text{Size: 9}),
			text.NewCol(2, strconv.Itoa(item.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, p.money(item.UnitPrice), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, p.money(item.Subtotal()), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(12,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Size: 10, Style: fontstyle.Bold, Top: 3}),
		text.NewCol(2, p.money(order.Total), props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right, Top: 3}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate receipt: %w", err)
	}
	return doc.GetBytes(), nil
}

func (p *Provider) money(amount float64) string {
	return fmt.Sprintf("%s %.2f", p.currency, amount)
}
