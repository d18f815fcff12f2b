package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"storefront/internal/cart"
	"storefront/internal/model"
	"storefront/internal/pricing"
)

const (
	AdminReportFilename = "admin-report.pdf"
	OrderReportFilename = "order_report.pdf"
)

// WriteAdminPDF renders the back-office report: a products table, an
// orders table and a users table.
func WriteAdminPDF(w io.Writer, products []*model.Product, orders []*model.Order, users []*model.User) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Admin Report")
	pdf.Ln(14)

	writeSection(pdf, "Products Report", []string{"Product Name", "Stock", "Price"}, productRows(products))
	writeSection(pdf, "Order Report", []string{"Order ID", "Total Price", "Status"}, orderRows(orders))
	writeSection(pdf, "User Report", []string{"User ID", "Name", "Email"}, userRows(users))

	return pdf.Output(w)
}

// WriteOrderPDF renders the per-order confirmation summary generated at
// the confirm step.
func WriteOrderPDF(w io.Writer, customerName string, shipping model.ShippingInfo, items []cart.Item, quote pricing.Quote) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Order Report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, "Name: "+customerName)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Phone: "+shipping.PhoneNo)
	pdf.Ln(7)
	address := fmt.Sprintf("Address: %s, %s, %s, %s, %s",
		shipping.Address, shipping.City, shipping.State, shipping.PostalCode, shipping.Country)
	pdf.MultiCell(0, 7, address, "", "L", false)
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Items:")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 11)
	for i, item := range items {
		line := fmt.Sprintf("%d. %s - %d x $%s", i+1, item.Name, item.Quantity, item.Price.StringFixed(2))
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}
	pdf.Ln(3)

	pdf.Cell(0, 7, "Subtotal: $"+quote.ItemsPrice.StringFixed(2))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Shipping: $"+quote.ShippingPrice.StringFixed(2))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Tax: $"+quote.TaxPrice.StringFixed(2))
	pdf.Ln(7)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, "Total: $"+quote.TotalPrice.StringFixed(2))

	return pdf.Output(w)
}

func writeSection(pdf *fpdf.Fpdf, title string, headers []string, rows [][]string) {
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 9, title)
	pdf.Ln(11)

	colWidth := 190.0 / float64(len(headers))

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, h := range headers {
		pdf.CellFormat(colWidth, 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		for _, cell := range row {
			pdf.CellFormat(colWidth, 7, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}

func productRows(products []*model.Product) [][]string {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{p.Name, fmt.Sprintf("%d", p.Stock), "$" + p.Price.StringFixed(2)})
	}
	return rows
}

func orderRows(orders []*model.Order) [][]string {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{o.ID, "$" + o.TotalPrice.StringFixed(2), o.Status})
	}
	return rows
}

func userRows(users []*model.User) [][]string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.ID, u.Name, u.Email})
	}
	return rows
}
