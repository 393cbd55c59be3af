package cmd

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/akwasiboateng/campus-market/internal/core/datamodel/product"
	"github.com/akwasiboateng/campus-market/internal/core/datamodel/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample marketplace users and products for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm: %v", err)
		}

		subaccount := "ACCT_8f4s1eq7ml6rlzj"
		momo := "0244123456"

		users := []user.User{
			{Name: "Abena's Thrift Corner", Email: "abena@st.knust.edu.gh", Role: user.RoleVendor, SubaccountCode: &subaccount},
			{Name: "Kojo Campus Eats", Email: "kojo@st.ug.edu.gh", Role: user.RoleVendor, MomoNumber: &momo},
			{Name: "Efua Mensah", Email: "efua@st.ug.edu.gh", Role: user.RoleBuyer},
		}

		for i := range users {
			result := db.Where(user.User{Email: users[i].Email}).FirstOrCreate(&users[i])
			if result.Error != nil {
				log.Fatalf("failed to seed user %s: %v", users[i].Email, result.Error)
			}
			if result.RowsAffected > 0 {
				fmt.Println("Seeded user:", users[i].Email)
			} else {
				fmt.Println("User already exists:", users[i].Email)
			}
		}

		products := []product.Product{
			{VendorID: users[0].ID, Name: "Second-hand denim jacket", Description: "Lightly worn, size M", Price: decimal.NewFromFloat(85.00)},
			{VendorID: users[0].ID, Name: "Campus hoodie", Description: "Unisex, navy", Price: decimal.NewFromFloat(120.00)},
			{VendorID: users[1].ID, Name: "Jollof bowl", Description: "With grilled chicken", Price: decimal.NewFromFloat(35.50)},
		}

		for i := range products {
			result := db.Where(product.Product{VendorID: products[i].VendorID, Name: products[i].Name}).FirstOrCreate(&products[i])
			if result.Error != nil {
				log.Fatalf("failed to seed product %s: %v", products[i].Name, result.Error)
			}
			if result.RowsAffected > 0 {
				fmt.Println("Seeded product:", products[i].Name)
			}
		}

		fmt.Println("Sample marketplace data seeded successfully")
	},
}
