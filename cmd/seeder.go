package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
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

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			fmt.Println("Clearing existing data...")
			for _, table := range []string{"user_branch_roles", "products", "users", "branches"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
		}

		mainBranchID := seedBranch(db, "Main Branch", "Bangkok")
		secondBranchID := seedBranch(db, "Warehouse", "Chiang Mai")

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		ownerID := seedUser(db, "owner", string(hash), "owner", nil)
		managerID := seedUser(db, "m1", string(hash), "manager", &mainBranchID)
		staffID := seedUser(db, "s1", string(hash), "employee", &mainBranchID)
		_ = ownerID

		seedMembership(db, managerID, mainBranchID, "MANAGER")
		seedMembership(db, staffID, mainBranchID, "STAFF")
		seedMembership(db, managerID, secondBranchID, "MANAGER")

		seedProduct(db, "Rice 5kg", 129.0, 40, "grocery", mainBranchID)
		seedProduct(db, "Drinking Water 6-pack", 45.0, 3, "beverage", mainBranchID)
		seedProduct(db, "Cooking Oil 1L", 58.5, 0, "grocery", secondBranchID)

		fmt.Println("Seeding complete")
	},
}

func seedBranch(db *gorm.DB, name, location string) int64 {
	var id int64
	row := db.Raw("SELECT id FROM branches WHERE name = ?", name).Row()
	if err := row.Scan(&id); err == nil {
		fmt.Printf("branch %q already exists (id=%d)\n", name, id)
		return id
	}

	row = db.Raw(
		"INSERT INTO branches (name, location, created_at) VALUES (?, ?, now()) RETURNING id",
		name, location,
	).Row()
	if err := row.Scan(&id); err != nil {
		log.Fatalf("failed to insert branch %q: %v", name, err)
	}
	fmt.Printf("Seeded branch %q (id=%d)\n", name, id)
	return id
}

func seedUser(db *gorm.DB, username, passwordHash, globalRole string, defaultBranchID *int64) int64 {
	var id int64
	row := db.Raw("SELECT id FROM users WHERE username = ?", username).Row()
	if err := row.Scan(&id); err == nil {
		fmt.Printf("user %q already exists (id=%d)\n", username, id)
		return id
	}

	row = db.Raw(
		"INSERT INTO users (username, password_hash, global_role, default_branch_id, created_at) VALUES (?, ?, ?, ?, now()) RETURNING id",
		username, passwordHash, globalRole, defaultBranchID,
	).Row()
	if err := row.Scan(&id); err != nil {
		log.Fatalf("failed to insert user %q: %v", username, err)
	}
	fmt.Printf("Seeded user %q (id=%d, role=%s)\n", username, id, globalRole)
	return id
}

func seedMembership(db *gorm.DB, userID, branchID int64, role string) {
	var one int
	row := db.Raw("SELECT 1 FROM user_branch_roles WHERE user_id = ? AND branch_id = ?", userID, branchID).Row()
	if err := row.Scan(&one); err == nil {
		return
	}

	if err := db.Exec(
		"INSERT INTO user_branch_roles (user_id, branch_id, role, created_at) VALUES (?, ?, ?, now())",
		userID, branchID, role,
	).Error; err != nil {
		log.Fatalf("failed to insert membership user=%d branch=%d: %v", userID, branchID, err)
	}
	fmt.Printf("Seeded membership user=%d branch=%d role=%s\n", userID, branchID, role)
}

func seedProduct(db *gorm.DB, name string, price float64, quantity int, category string, branchID int64) {
	var one int
	row := db.Raw("SELECT 1 FROM products WHERE name = ? AND branch_id = ?", name, branchID).Row()
	if err := row.Scan(&one); err == nil {
		return
	}

	if err := db.Exec(
		"INSERT INTO products (name, price, quantity, category, branch_id, created_at) VALUES (?, ?, ?, ?, ?, now())",
		name, price, quantity, category, branchID,
	).Error; err != nil {
		log.Fatalf("failed to insert product %q: %v", name, err)
	}
	fmt.Printf("Seeded product %q (branch=%d qty=%d)\n", name, branchID, quantity)
}
