package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/unicode/norm"

	"github.com/01moynul/sweetshop-golang/internal/cart"
	"github.com/01moynul/sweetshop-golang/internal/models"
)

const historyTimeLayout = "2006-01-02 15:04"

// Output renders command results as text tables or JSON.
type Output struct {
	Format string
	Writer io.Writer
	p      *message.Printer
}

func NewOutput(format string, w io.Writer) *Output {
	return &Output{Format: format, Writer: w, p: message.NewPrinter(language.English)}
}

func (o *Output) json(v any) error {
	enc := json.NewEncoder(o.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (o *Output) money(v float64) string {
	return o.p.Sprintf("%.2f", v)
}

// clean normalizes text from the server and fits it into width runes.
func clean(s string, width int) string {
	s = norm.NFC.String(s)
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func (o *Output) Message(msg string) error {
	if o.Format == "json" {
		return o.json(map[string]string{"message": msg})
	}
	_, err := fmt.Fprintln(o.Writer, msg)
	return err
}

func (o *Output) User(u *models.User) error {
	if o.Format == "json" {
		return o.json(u)
	}
	_, err := fmt.Fprintf(o.Writer, "Logged in as %s <%s> (%s)\n", clean(u.Name, 40), u.Email, u.Role)
	return err
}

func (o *Output) Sweets(sweets []models.Sweet) error {
	if o.Format == "json" {
		return o.json(sweets)
	}
	if len(sweets) == 0 {
		_, err := fmt.Fprintln(o.Writer, "No sweets found.")
		return err
	}

	fmt.Fprintf(o.Writer, "%-4s %-20s %-12s %10s %6s\n", "ID", "NAME", "CATEGORY", "PRICE", "STOCK")
	for _, s := range sweets {
		fmt.Fprintf(o.Writer, "%-4d %-20s %-12s %10s %6d\n",
			s.ID, clean(s.Name, 20), clean(s.Category, 12), o.money(s.Price), s.Quantity)
	}
	return nil
}

func (o *Output) Sweet(s *models.Sweet) error {
	if o.Format == "json" {
		return o.json(s)
	}

	fmt.Fprintf(o.Writer, "%s (#%d)\n", norm.NFC.String(s.Name), s.ID)
	fmt.Fprintf(o.Writer, "  Category:    %s\n", norm.NFC.String(s.Category))
	fmt.Fprintf(o.Writer, "  Price:       %s\n", o.money(s.Price))
	fmt.Fprintf(o.Writer, "  In stock:    %d\n", s.Quantity)
	if s.Description != nil && *s.Description != "" {
		fmt.Fprintf(o.Writer, "  Description: %s\n", norm.NFC.String(*s.Description))
	}
	if s.Image != nil && *s.Image != "" {
		fmt.Fprintf(o.Writer, "  Image:       %s\n", *s.Image)
	}
	return nil
}

func (o *Output) Categories(categories []models.Category) error {
	if o.Format == "json" {
		return o.json(categories)
	}
	if len(categories) == 0 {
		_, err := fmt.Fprintln(o.Writer, "No categories yet.")
		return err
	}

	fmt.Fprintf(o.Writer, "%-20s %-20s %5s\n", "NAME", "SLUG", "COUNT")
	for _, c := range categories {
		fmt.Fprintf(o.Writer, "%-20s %-20s %5d\n", clean(c.Name, 20), clean(c.Slug, 20), c.Count)
	}
	return nil
}

type cartView struct {
	Items      []cart.Line `json:"items"`
	TotalItems int         `json:"totalItems"`
	Total      string      `json:"total"`
}

func (o *Output) Cart(c *cart.Cart) error {
	if o.Format == "json" {
		return o.json(cartView{Items: c.Lines(), TotalItems: c.TotalItems(), Total: c.Total().StringFixed(2)})
	}
	if c.Empty() {
		_, err := fmt.Fprintln(o.Writer, "Your cart is empty.")
		return err
	}

	fmt.Fprintf(o.Writer, "%-4s %-20s %10s %5s %11s\n", "ID", "NAME", "PRICE", "QTY", "SUBTOTAL")
	for _, line := range c.Lines() {
		fmt.Fprintf(o.Writer, "%-4d %-20s %10s %5d %11s\n",
			line.SweetID, clean(line.Name, 20), o.money(line.Price), line.Quantity,
			o.money(line.Subtotal().InexactFloat64()))
	}
	fmt.Fprintf(o.Writer, "\nItems: %d\nTotal: %s\n", c.TotalItems(), o.money(c.Total().InexactFloat64()))
	return nil
}

func (o *Output) History(rows []models.HistoryRow) error {
	if o.Format == "json" {
		return o.json(rows)
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(o.Writer, "No purchases yet.")
		return err
	}

	fmt.Fprintf(o.Writer, "%-16s %-20s %5s %10s\n", "DATE", "NAME", "QTY", "PRICE")
	for _, r := range rows {
		fmt.Fprintf(o.Writer, "%-16s %-20s %5d %10s\n",
			r.PurchaseDate.UTC().Format(historyTimeLayout), clean(r.Name, 20), r.PurchasedQuantity, o.money(r.Price))
	}
	return nil
}
