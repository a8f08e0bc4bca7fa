package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shop-ex/shopex-backend/config"
	"github.com/shop-ex/shopex-backend/internal/app/model"
	"github.com/shop-ex/shopex-backend/internal/app/repository"
	"github.com/shop-ex/shopex-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports listings from an XLSX export. Expected columns:
//
//	0 name | 1 category | 2 sub_category | 3 seller_price | 4 description
//	5 images (comma separated) | 6 sizes (comma separated) | 7 quantity
//	8 seller_name | 9 seller_email | 10 status (optional, defaults pending)
//
// Sellers referenced by the sheet are created as approved sellers when they
// do not exist yet.
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

	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, sellers, err := readListingsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total listings to import: %d (sellers: %d)\n", len(products), len(sellers))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	created := 0
	for _, seller := range sellers {
		existing, err := userRepo.FindByEmail(seller.Email)
		if err == nil && existing != nil {
			continue
		}
		s := seller
		if err := userRepo.Create(&s); err != nil {
			log.Fatal("Failed to create seller:", err)
		}
		created++
	}
	fmt.Printf("Sellers created: %d\n", created)

	batchSize := 1000
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := productRepo.BulkCreate(products, batchSize); err != nil {
		log.Fatal("Failed to bulk create listings:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total listings imported: %d\n", len(products))
}

func readListingsFromXLSX(filePath string) ([]model.Product, []model.User, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	sellerByEmail := make(map[string]model.User)
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 10 {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[0])
		sellerEmail := strings.TrimSpace(row[9])
		if name == "" || sellerEmail == "" {
			skippedCount++
			continue
		}

		sellerPrice, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		if err != nil || sellerPrice <= 0 {
			skippedCount++
			continue
		}

		quantity, _ := strconv.Atoi(strings.TrimSpace(row[7]))

		status := model.StatusPending
		if len(row) > 10 {
			if s := model.ProductStatus(strings.TrimSpace(row[10])); validStatus(s) {
				status = s
			}
		}

		stock := model.StockIn
		if quantity <= 0 {
			stock = model.StockOut
		}

		sellerName := strings.TrimSpace(row[8])
		products = append(products, model.Product{
			ID:          uuid.NewString(),
			Name:        name,
			Description: strings.TrimSpace(row[4]),
			Images:      splitList(row[5]),
			Sizes:       splitList(row[6]),
			Quantity:    quantity,
			Category:    strings.TrimSpace(row[1]),
			SubCategory: strings.TrimSpace(row[2]),
			SellerPrice: sellerPrice,
			Price:       model.PublicPrice(sellerPrice),
			Stock:       stock,
			SellerName:  sellerName,
			SellerEmail: sellerEmail,
			Status:      status,
		})

		if _, ok := sellerByEmail[sellerEmail]; !ok {
			approved := model.SellerRequestApproved
			sellerByEmail[sellerEmail] = model.User{
				Email:         sellerEmail,
				Name:          sellerName,
				Role:          model.RoleSeller,
				SellerRequest: &approved,
			}
		}
	}

	if skippedCount > 0 {
		fmt.Printf("Skipped rows: %d\n", skippedCount)
	}

	sellers := make([]model.User, 0, len(sellerByEmail))
	for _, s := range sellerByEmail {
		sellers = append(sellers, s)
	}
	return products, sellers, nil
}

func validStatus(s model.ProductStatus) bool {
	switch s {
	case model.StatusPending, model.StatusChecked, model.StatusRejected,
		model.StatusAdminRejected, model.StatusApproved:
		return true
	}
	return false
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
