package utils

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/Kariqs/tannaro-api/models"
	"github.com/shopspring/decimal"
)

//go:embed templates/order_invoice.html
var templateFS embed.FS

var invoiceTemplate = template.Must(template.ParseFS(templateFS, "templates/order_invoice.html"))

const invoiceDateLayout = "January 2, 2006 at 03:04 PM"

// StoreInfo is the sender identity printed on every invoice.
type StoreInfo struct {
	Name         string
	SupportEmail string
	SupportPhone string
}

type invoiceLine struct {
	Name      string
	Image     string
	Quantity  int
	Price     string
	LineTotal string
}

type invoiceData struct {
	StoreName      string
	OrderNumber    string
	CustomerName   string
	OrderDate      string
	PaymentMethod  string
	ShippingMethod string
	Items          []invoiceLine
	Subtotal       string
	Shipping       string
	Tax            string
	ShowTax        bool
	Total          string
	AddressLines   []string
	SupportEmail   string
	SupportPhone   string
}

// FormatTaka renders an amount with the currency sign and two decimals.
func FormatTaka(amount float64) string {
	return "৳" + decimal.NewFromFloat(amount).StringFixed(2)
}

func InvoiceSubject(orderNumber string) string {
	return "Order Confirmation - " + orderNumber
}

func paymentMethodText(method string) string {
	if method == models.PaymentCashOnDelivery {
		return "Cash on Delivery"
	}
	return method
}

func shippingMethodText(method models.ShippingMethod) string {
	if method == models.ShippingOutside {
		return "Outside Dhaka (৳120)"
	}
	return "Inside Dhaka (৳60)"
}

func addressLines(c models.Customer) []string {
	lines := []string{c.FullName(), c.Address}

	var locality []string
	if c.City != "" {
		locality = append(locality, c.City+",")
	}
	if c.Province != "" {
		locality = append(locality, c.Province)
	}
	if c.Zip != "" {
		locality = append(locality, c.Zip)
	}
	if len(locality) > 0 {
		lines = append(lines, strings.TrimSuffix(strings.Join(locality, " "), ","))
	}

	if c.Country != "" {
		lines = append(lines, c.Country)
	}
	return append(lines, "Phone: "+c.Phone)
}

// RenderOrderInvoice produces the confirmation email body for an order.
// The output depends only on its arguments.
func RenderOrderInvoice(store StoreInfo, order models.Order) (string, error) {
	data := invoiceData{
		StoreName:      store.Name,
		OrderNumber:    order.OrderNumber,
		CustomerName:   order.Customer.FullName(),
		OrderDate:      order.CreatedAt.UTC().Format(invoiceDateLayout),
		PaymentMethod:  paymentMethodText(order.PaymentMethod),
		ShippingMethod: shippingMethodText(order.ShippingMethod),
		Subtotal:       FormatTaka(order.Subtotal),
		Shipping:       FormatTaka(order.Shipping),
		Tax:            FormatTaka(order.Tax),
		ShowTax:        order.Tax > 0,
		Total:          FormatTaka(order.Total),
		AddressLines:   addressLines(order.Customer),
		SupportEmail:   store.SupportEmail,
		SupportPhone:   store.SupportPhone,
	}
	for _, item := range order.Items {
		data.Items = append(data.Items, invoiceLine{
			Name:      item.Name,
			Image:     item.Image,
			Quantity:  item.Quantity,
			Price:     FormatTaka(item.Price),
			LineTotal: FormatTaka(item.LineTotal()),
		})
	}

	var body bytes.Buffer
	if err := invoiceTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("render invoice %s: %w", order.OrderNumber, err)
	}
	return body.String(), nil
}

// InvoiceDispatcher sends order confirmations. Delivery is best effort: it
// never retries and never reports failure other than through its result.
type InvoiceDispatcher struct {
	mailer Mailer
	store  StoreInfo
	log    *slog.Logger
}

func NewInvoiceDispatcher(mailer Mailer, store StoreInfo, logger *slog.Logger) *InvoiceDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &InvoiceDispatcher{mailer: mailer, store: store, log: logger}
}

// SendOrderInvoice renders and sends the invoice for order and reports whether
// the relay accepted it.
func (d *InvoiceDispatcher) SendOrderInvoice(ctx context.Context, order models.Order) (sent bool) {
	defer func() {
		if r := recover(); r != nil {
			d.logFailure(order, fmt.Errorf("panic while sending invoice: %v", r))
			sent = false
		}
	}()

	if d.mailer == nil {
		d.logFailure(order, &MailError{Kind: MailErrorConfig, Err: ErrMissingMailCredentials})
		return false
	}

	body, err := RenderOrderInvoice(d.store, order)
	if err != nil {
		d.logFailure(order, err)
		return false
	}

	err = d.mailer.Send(ctx, EmailMessage{
		To:      order.Customer.Email,
		Subject: InvoiceSubject(order.OrderNumber),
		HTML:    body,
	})
	if err != nil {
		d.logFailure(order, err)
		return false
	}

	d.log.Info("order invoice sent", "orderNumber", order.OrderNumber, "recipient", order.Customer.Email)
	return true
}

func (d *InvoiceDispatcher) logFailure(order models.Order, err error) {
	credentialsSet := false
	if c, ok := d.mailer.(interface{ HasCredentials() bool }); ok {
		credentialsSet = c.HasCredentials()
	}
	d.log.Error("order invoice not sent",
		"kind", string(MailErrorKindOf(err)),
		"orderNumber", order.OrderNumber,
		"recipient", order.Customer.Email,
		"credentialsSet", credentialsSet,
		"error", err,
	)
}
