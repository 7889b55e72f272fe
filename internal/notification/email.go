package notification

import (
	"fmt"
	"strings"

	"github.com/mercadito/backend/internal/entity"
)

// Customer-facing labels stay in Spanish to match the storefront UI.
var statusLabels = map[entity.OrderStatus]string{
	entity.StatusPending:   "Pendiente",
	entity.StatusConfirmed: "Confirmado",
	entity.StatusPreparing: "En Preparación",
	entity.StatusShipped:   "Enviado",
	entity.StatusDelivered: "Entregado",
	entity.StatusCancelled: "Cancelado",
}

// StatusLabel returns the customer-facing name for a status.
func StatusLabel(s entity.OrderStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// FormatPrice renders integer currency units as "1234 CUP".
func FormatPrice(amount int64) string {
	return fmt.Sprintf("%d CUP", amount)
}

// ShortOrderID is the human reference printed on emails.
func ShortOrderID(orderID string) string {
	if len(orderID) > 8 {
		orderID = orderID[:8]
	}
	return strings.ToUpper(orderID)
}

// ConfirmationEmail builds the subject and HTML body for a new order:
// an itemized table plus the delivery and payment summary.
func ConfirmationEmail(o *entity.Order, customerName string) (subject, html string) {
	subject = fmt.Sprintf("Pedido #%s confirmado", ShortOrderID(o.ID))

	var b strings.Builder
	fmt.Fprintf(&b, "<h1>¡Gracias por tu pedido, %s!</h1>", customerName)
	fmt.Fprintf(&b, "<p>Tu pedido <strong>#%s</strong> ha sido recibido.</p>", ShortOrderID(o.ID))

	b.WriteString("<table><tr><th>Producto</th><th>Cantidad</th><th>Precio</th><th>Subtotal</th></tr>")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td><td>%s</td><td>%s</td></tr>",
			it.ProductName, it.Quantity,
			FormatPrice(it.PriceAtPurchase),
			FormatPrice(it.PriceAtPurchase*int64(it.Quantity)))
	}
	fmt.Fprintf(&b, "<tr><td colspan=\"3\"><strong>Total</strong></td><td><strong>%s</strong></td></tr>", FormatPrice(o.TotalAmount))
	b.WriteString("</table>")

	fmt.Fprintf(&b, "<p>Entrega: %s, %s (%s)</p>", o.DeliveryAddress, o.Municipality, o.DeliveryTime)
	fmt.Fprintf(&b, "<p>Método de pago: %s</p>", o.PaymentMethod)
	if o.Notes != "" {
		fmt.Fprintf(&b, "<p>Notas: %s</p>", o.Notes)
	}

	return subject, b.String()
}

// StatusEmail builds the subject and HTML body for a status change.
func StatusEmail(o *entity.Order, customerName string, prev, next entity.OrderStatus) (subject, html string) {
	subject = fmt.Sprintf("Pedido #%s: %s", ShortOrderID(o.ID), StatusLabel(next))

	var b strings.Builder
	fmt.Fprintf(&b, "<h1>Hola, %s</h1>", customerName)
	fmt.Fprintf(&b, "<p>Tu pedido <strong>#%s</strong> pasó de <strong>%s</strong> a <strong>%s</strong>.</p>",
		ShortOrderID(o.ID), StatusLabel(prev), StatusLabel(next))
	fmt.Fprintf(&b, "<p>Entrega: %s, %s (%s)</p>", o.DeliveryAddress, o.Municipality, o.DeliveryTime)
	fmt.Fprintf(&b, "<p>Total: %s</p>", FormatPrice(o.TotalAmount))

	return subject, b.String()
}
