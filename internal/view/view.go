// Package view renders the public menu pages.
package view

import (
	"embed"
	"html/template"

	"github.com/shirokumado/menu-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templateFS embed.FS

var printer = message.NewPrinter(language.Japanese)

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.html")
}

// FormatYen renders a price the way the shop prints it, e.g. ¥1,600.
// Fractions are rounded to whole yen.
func FormatYen(d decimal.Decimal) string {
	return printer.Sprintf("¥%d", d.Round(0).IntPart())
}

type PriceLabel struct {
	Label string
	Price string
}

// Item is one menu entry prepared for a template.
type Item struct {
	ID       uint
	Title    string
	Alt      string
	Caption  string
	ImageURL string
	Prices   []PriceLabel
}

type Section struct {
	Title string
	Items []Item
}

type MenuPage struct {
	Title    string
	Sections []Section
}

type DetailPage struct {
	Title string
	Item  Item
}

// NewItem converts an image using urlFor to resolve its file.
func NewItem(img *model.Image, urlFor func(*model.Image) string) Item {
	item := Item{
		ID:       img.ID,
		Title:    img.Title,
		Alt:      img.Alt(),
		ImageURL: urlFor(img),
	}
	if img.Caption != nil {
		item.Caption = *img.Caption
	}
	for _, p := range []struct {
		label string
		price decimal.NullDecimal
	}{
		{"Sサイズ", img.PriceS},
		{"Lサイズ", img.PriceL},
		{"その他", img.PriceOther},
	} {
		if p.price.Valid && p.price.Decimal.IsPositive() {
			item.Prices = append(item.Prices, PriceLabel{Label: p.label, Price: FormatYen(p.price.Decimal)})
		}
	}
	return item
}

// NewSection returns nil when images is empty so the page can skip it.
func NewSection(title string, images []model.Image, urlFor func(*model.Image) string) *Section {
	if len(images) == 0 {
		return nil
	}
	section := &Section{Title: title, Items: make([]Item, 0, len(images))}
	for i := range images {
		section.Items = append(section.Items, NewItem(&images[i], urlFor))
	}
	return section
}
