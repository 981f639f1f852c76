package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/artsfest/artsfest-api/database"
	"github.com/artsfest/artsfest-api/services"
)

// importdata loads colleges or items from CSV files.
//
//	importdata -colleges colleges.csv
//	importdata -items items.csv
func main() {
	collegesPath := flag.String("colleges", "", "Path to colleges CSV (Username, College, District, Password)")
	itemsPath := flag.String("items", "", "Path to items CSV (ITEM, Numbers, Category)")
	flag.Parse()

	if *collegesPath == "" && *itemsPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	store, err := database.StartGORM()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := store.Init(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	gormDB := store.GetDB().(*gorm.DB)
	importService := services.NewImportService(gormDB)

	if *collegesPath != "" {
		runImport("colleges", *collegesPath, importService.ImportColleges)
	}

	if *itemsPath != "" {
		runImport("items", *itemsPath, importService.ImportItems)
	}
}

func runImport(kind, path string, fn func(r io.Reader) (*services.ImportSummary, error)) {
	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open %s file: %v", kind, err)
	}
	defer file.Close()

	summary, err := fn(file)
	if err != nil {
		log.Fatalf("%s import failed: %v", kind, err)
	}

	fmt.Printf("%s import: %d created, %d updated, %d skipped\n",
		kind, summary.Created, summary.Updated, summary.Skipped)
	for _, msg := range summary.Errors {
		fmt.Println("  !", msg)
	}
}
