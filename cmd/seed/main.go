package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/shirokumado/menu-backend/config"
	"github.com/shirokumado/menu-backend/internal/app/model"
	"github.com/shirokumado/menu-backend/internal/app/repository"
	"github.com/shirokumado/menu-backend/internal/db"
	"github.com/shirokumado/menu-backend/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var columns = []string{
	"title", "file_path", "caption", "category",
	"price_s", "price_l", "price_other",
	"is_public", "tags", "display_order",
}

// menuRow is one spreadsheet line with names not yet resolved to ids.
type menuRow struct {
	Line         int
	Title        string
	FilePath     string
	Caption      *string
	Category     string
	PriceS       decimal.NullDecimal
	PriceL       decimal.NullDecimal
	PriceOther   decimal.NullDecimal
	IsPublic     bool
	Tags         []string
	DisplayOrder *int
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	if err := db.Seed(); err != nil {
		log.Fatal("Failed to seed categories and tags:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX file:", err)
	}
	defer f.Close()

	rows, problems, err := readMenuRows(f)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	for _, p := range problems {
		fmt.Println("skipped:", p)
	}

	fmt.Printf("Menu items to import: %d (skipped %d)\n", len(rows), len(problems))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	importer := newMenuImporter(
		repository.NewImageRepository(db.GetDB()),
		repository.NewCategoryRepository(db.GetDB()),
		repository.NewTagRepository(db.GetDB()),
	)
	imported, failures := importer.Import(rows)
	for _, failure := range failures {
		fmt.Println("failed:", failure)
	}

	fmt.Println("Import completed!")
	fmt.Printf("Menu items imported: %d, failed: %d\n", imported, len(failures))
}

// readMenuRows reads the first sheet. The header row names the columns, so
// their order in the sheet does not matter. Rows that cannot be parsed are
// reported and skipped.
func readMenuRows(f *excelize.File) ([]menuRow, []string, error) {
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no data found in XLSX file")
	}

	index := map[string]int{}
	for i, header := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, required := range []string{"title", "file_path"} {
		if _, ok := index[required]; !ok {
			return nil, nil, fmt.Errorf("missing %q column", required)
		}
	}

	var result []menuRow
	var problems []string
	for i, row := range rows[1:] {
		line := i + 2
		cell := func(name string) string {
			col, ok := index[name]
			if !ok || col >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[col])
		}

		parsed, err := parseMenuRow(line, cell)
		if err != nil {
			problems = append(problems, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if parsed == nil {
			continue
		}
		result = append(result, *parsed)
	}
	return result, problems, nil
}

// parseMenuRow returns nil for a blank line.
func parseMenuRow(line int, cell func(string) string) (*menuRow, error) {
	blank := true
	for _, name := range columns {
		if cell(name) != "" {
			blank = false
			break
		}
	}
	if blank {
		return nil, nil
	}

	row := &menuRow{
		Line:     line,
		Title:    cell("title"),
		FilePath: cell("file_path"),
		Caption:  util.StringPtr(cell("caption")),
		Category: cell("category"),
		IsPublic: true,
	}
	if row.Title == "" {
		return nil, errors.New("title is empty")
	}
	if row.FilePath == "" {
		return nil, errors.New("file_path is empty")
	}

	var err error
	if row.PriceS, err = util.ParsePrice(cell("price_s")); err != nil {
		return nil, fmt.Errorf("price_s: %w", err)
	}
	if row.PriceL, err = util.ParsePrice(cell("price_l")); err != nil {
		return nil, fmt.Errorf("price_l: %w", err)
	}
	if row.PriceOther, err = util.ParsePrice(cell("price_other")); err != nil {
		return nil, fmt.Errorf("price_other: %w", err)
	}
	if raw := cell("is_public"); raw != "" {
		if row.IsPublic, err = util.ParseFlag(raw); err != nil {
			return nil, fmt.Errorf("is_public: %w", err)
		}
	}
	if row.DisplayOrder, err = util.ParseOptionalInt(cell("display_order")); err != nil {
		return nil, fmt.Errorf("display_order: %w", err)
	}

	for _, name := range strings.FieldsFunc(cell("tags"), func(r rune) bool {
		return r == ',' || r == '、'
	}) {
		if name = strings.TrimSpace(name); name != "" {
			row.Tags = append(row.Tags, name)
		}
	}
	return row, nil
}

type menuImporter struct {
	imageRepo    repository.ImageRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
}

func newMenuImporter(
	imageRepo repository.ImageRepository,
	categoryRepo repository.CategoryRepository,
	tagRepo repository.TagRepository,
) *menuImporter {
	return &menuImporter{
		imageRepo:    imageRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
	}
}

// Import inserts each row on its own; a bad row does not stop the rest.
func (m *menuImporter) Import(rows []menuRow) (int, []string) {
	imported := 0
	var failures []string
	for _, row := range rows {
		if err := m.importRow(row); err != nil {
			failures = append(failures, fmt.Sprintf("line %d (%s): %v", row.Line, row.Title, err))
			continue
		}
		imported++
	}
	return imported, failures
}

func (m *menuImporter) importRow(row menuRow) error {
	image := &model.Image{
		Title:        row.Title,
		FilePath:     row.FilePath,
		Caption:      row.Caption,
		PriceS:       row.PriceS,
		PriceL:       row.PriceL,
		PriceOther:   row.PriceOther,
		IsPublic:     row.IsPublic,
		DisplayOrder: row.DisplayOrder,
	}

	if row.Category != "" {
		category, err := m.categoryRepo.FindByName(row.Category)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("unknown category %q", row.Category)
			}
			return err
		}
		image.CategoryID = &category.ID
	}

	for _, name := range row.Tags {
		tag, err := m.tagRepo.FindByName(name)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("unknown tag %q", name)
			}
			return err
		}
		image.Tags = append(image.Tags, *tag)
	}

	return m.imageRepo.Create(image)
}
