package invoices

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kiranapos/backend/pkg/db/models"
	pkgerrors "github.com/kiranapos/backend/pkg/errors"
)

// Document is the stable serializable invoice artifact built from a
// committed sale. It is the API representation; rendering to paper or PDF
// is a presentation concern outside the core.
type Document struct {
	InvoiceNo string       `json:"invoice_no"`
	Date      time.Time    `json:"date"`
	Store     StoreInfo    `json:"store"`
	Customer  CustomerInfo `json:"customer"`
	Items     []Item       `json:"items"`
	Totals    Totals       `json:"totals"`
}

// StoreInfo identifies the issuing store.
type StoreInfo struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// CustomerInfo is the customer snapshot carried on the sale.
type CustomerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// Item is one invoice row.
type Item struct {
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Quantity       int             `json:"qty"`
	MRP            decimal.Decimal `json:"mrp"`
	LineTotal      decimal.Decimal `json:"line_total"`
	Discount       decimal.Decimal `json:"discount"`
	EffectiveTotal decimal.Decimal `json:"effective_total"`
}

// Totals carries the invoice footer figures.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// Builder renders invoice documents for committed sales.
type Builder struct {
	store StoreInfo
}

// NewBuilder constructs an invoice builder stamped with the store identity.
func NewBuilder(storeName, storeAddress string) (*Builder, error) {
	if storeName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}
	return &Builder{store: StoreInfo{Name: storeName, Address: storeAddress}}, nil
}

// Build assembles the document from a sale and its lines.
func (b *Builder) Build(sale models.Sale) (Document, error) {
	if sale.ID == "" {
		return Document{}, pkgerrors.New(pkgerrors.CodeValidation, "sale id is required")
	}

	doc := Document{
		InvoiceNo: fmt.Sprintf("INV-%s", sale.ID),
		Date:      sale.Date,
		Store:     b.store,
		Customer:  CustomerInfo{Name: sale.CustomerName},
		Totals: Totals{
			Subtotal:   sale.Subtotal,
			GrandTotal: sale.GrandTotal,
		},
	}
	if sale.CustomerPhone != nil {
		doc.Customer.Phone = *sale.CustomerPhone
	}
	for _, line := range sale.Lines {
		doc.Items = append(doc.Items, Item{
			Name:           line.ProductName,
			Category:       line.Category,
			Quantity:       line.Quantity,
			MRP:            line.MRP,
			LineTotal:      line.LineTotal,
			Discount:       line.LineTotal.Sub(line.EffectiveTotal),
			EffectiveTotal: line.EffectiveTotal,
		})
	}
	return doc, nil
}

var emailBodyTemplate = template.Must(template.New("invoice_email").Parse(
	`Invoice {{.InvoiceNo}} from {{.Store.Name}}

Date: {{.Date.Format "02 Jan 2006 15:04"}}
Billed to: {{.Customer.Name}}

Items:
{{range .Items}}  {{.Name}} x{{.Quantity}} @ {{.MRP.StringFixed 2}} = {{.EffectiveTotal.StringFixed 2}}
{{end}}
Subtotal:    {{.Totals.Subtotal.StringFixed 2}}
Grand total: {{.Totals.GrandTotal.StringFixed 2}}

Thank you for shopping with us.
`))

// EmailBody renders the plain-text email representation of the document.
func (d Document) EmailBody() (string, error) {
	var buf bytes.Buffer
	if err := emailBodyTemplate.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("rendering invoice email: %w", err)
	}
	return buf.String(), nil
}
