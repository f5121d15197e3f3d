package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
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

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			tables := []string{
				"notifications", "approval_instances", "approval_workflows",
				"approver_specs", "approval_levels", "approval_rules",
				"delegations", "documents", "role_members", "roles",
				"user_permissions", "permissions", "users",
			}
			for _, t := range tables {
				if err := db.Exec("DELETE FROM " + t).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", t, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		const tenantID = 1

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		users := []struct {
			Email string
			Name  string
		}{
			{"admin@procurement.test", "Site Admin"},
			{"requester@procurement.test", "Rina Requester"},
			{"finance.one@procurement.test", "Fira Finance"},
			{"finance.two@procurement.test", "Farel Finance"},
			{"director@procurement.test", "Dewi Director"},
		}

		for _, u := range users {
			var exists int
			if err := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row().Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec(
				"INSERT INTO users (tenant_id, email, name, password_hash, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, true, now(), now())",
				tenantID, u.Email, u.Name, string(hash),
			).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Println("Seeded user:", u.Email)
		}

		userID := func(email string) int64 {
			var id int64
			if err := db.Raw("SELECT id FROM users WHERE email = ?", email).Row().Scan(&id); err != nil {
				log.Fatalf("failed to lookup user %s: %v", email, err)
			}
			return id
		}

		permissions := []struct {
			Name string
			Desc string
		}{
			{"admin", "full administrator"},
			{"approve_documents", "Can approve procurement documents"},
			{"reject_documents", "Can reject procurement documents"},
			{"manage_rules", "Can manage approval rules"},
			{"can_read_document", "Can view any document in the tenant"},
		}

		for _, p := range permissions {
			var pid int64
			if err := db.Raw("SELECT id FROM permissions WHERE name = ?", p.Name).Row().Scan(&pid); err != nil {
				if err := db.Exec("INSERT INTO permissions (name, description, created_at) VALUES (?, ?, now())", p.Name, p.Desc).Error; err != nil {
					log.Fatalf("failed to insert permission %s: %v", p.Name, err)
				}
			}
		}

		permissionID := func(name string) int64 {
			var id int64
			if err := db.Raw("SELECT id FROM permissions WHERE name = ?", name).Row().Scan(&id); err != nil {
				log.Fatalf("permission not found %s: %v", name, err)
			}
			return id
		}

		grant := func(email string, perms ...string) {
			uid := userID(email)
			for _, name := range perms {
				pid := permissionID(name)
				var exists int
				if err := db.Raw("SELECT 1 FROM user_permissions WHERE user_id = ? AND permission_id = ?", uid, pid).Row().Scan(&exists); err == nil {
					continue
				}
				if err := db.Exec("INSERT INTO user_permissions (user_id, permission_id, granted_by, created_at) VALUES (?, ?, NULL, now())", uid, pid).Error; err != nil {
					log.Fatalf("failed to grant %s to %s: %v", name, email, err)
				}
			}
		}

		grant("admin@procurement.test", "admin")
		grant("finance.one@procurement.test", "approve_documents", "reject_documents", "can_read_document")
		grant("finance.two@procurement.test", "approve_documents", "reject_documents", "can_read_document")
		grant("director@procurement.test", "approve_documents", "reject_documents", "manage_rules", "can_read_document")
		fmt.Println("Granted permissions")

		roles := []struct {
			Name    string
			Desc    string
			Members []string
		}{
			{"finance", "Finance approvers", []string{"finance.one@procurement.test", "finance.two@procurement.test"}},
			{"management", "Directors and above", []string{"director@procurement.test"}},
		}

		for _, r := range roles {
			var rid int64
			if err := db.Raw("SELECT id FROM roles WHERE tenant_id = ? AND name = ?", tenantID, r.Name).Row().Scan(&rid); err != nil {
				if err := db.Exec("INSERT INTO roles (tenant_id, name, description, created_at) VALUES (?, ?, ?, now())", tenantID, r.Name, r.Desc).Error; err != nil {
					log.Fatalf("failed to insert role %s: %v", r.Name, err)
				}
				if err := db.Raw("SELECT id FROM roles WHERE tenant_id = ? AND name = ?", tenantID, r.Name).Row().Scan(&rid); err != nil {
					log.Fatalf("role not found after insert %s: %v", r.Name, err)
				}
			}
			for _, email := range r.Members {
				uid := userID(email)
				var exists int
				if err := db.Raw("SELECT 1 FROM role_members WHERE role_id = ? AND user_id = ?", rid, uid).Row().Scan(&exists); err == nil {
					continue
				}
				if err := db.Exec("INSERT INTO role_members (role_id, user_id, created_at) VALUES (?, ?, now())", rid, uid).Error; err != nil {
					log.Fatalf("failed to add %s to role %s: %v", email, r.Name, err)
				}
			}
			fmt.Println("Seeded role:", r.Name)
		}

		var financeRoleID int64
		if err := db.Raw("SELECT id FROM roles WHERE tenant_id = ? AND name = ?", tenantID, "finance").Row().Scan(&financeRoleID); err != nil {
			log.Fatalf("finance role missing: %v", err)
		}

		// sample two-level rule: any finance approver, then the director
		ruleName := "Purchase orders above 10jt"
		var ruleID int64
		if err := db.Raw("SELECT id FROM approval_rules WHERE tenant_id = ? AND name = ?", tenantID, ruleName).Row().Scan(&ruleID); err != nil {
			if err := db.Exec(
				"INSERT INTO approval_rules (tenant_id, name, document_type, min_amount, is_active, created_at, updated_at) VALUES (?, ?, 'purchase_order', 10000000, true, now(), now())",
				tenantID, ruleName,
			).Error; err != nil {
				log.Fatalf("failed to insert approval rule: %v", err)
			}
			if err := db.Raw("SELECT id FROM approval_rules WHERE tenant_id = ? AND name = ?", tenantID, ruleName).Row().Scan(&ruleID); err != nil {
				log.Fatalf("rule not found after insert: %v", err)
			}

			if err := db.Exec("INSERT INTO approval_levels (rule_id, level_order, mode, level_type, created_at) VALUES (?, 1, 'any', 'general', now())", ruleID).Error; err != nil {
				log.Fatalf("failed to insert level 1: %v", err)
			}
			if err := db.Exec("INSERT INTO approval_levels (rule_id, level_order, mode, level_type, created_at) VALUES (?, 2, 'all', 'general', now())", ruleID).Error; err != nil {
				log.Fatalf("failed to insert level 2: %v", err)
			}

			var level1ID, level2ID int64
			if err := db.Raw("SELECT id FROM approval_levels WHERE rule_id = ? AND level_order = 1", ruleID).Row().Scan(&level1ID); err != nil {
				log.Fatalf("level 1 missing: %v", err)
			}
			if err := db.Raw("SELECT id FROM approval_levels WHERE rule_id = ? AND level_order = 2", ruleID).Row().Scan(&level2ID); err != nil {
				log.Fatalf("level 2 missing: %v", err)
			}

			directorID := userID("director@procurement.test")
			if err := db.Exec("INSERT INTO approver_specs (level_id, spec_type, role_id) VALUES (?, 'role', ?)", level1ID, financeRoleID).Error; err != nil {
				log.Fatalf("failed to insert level 1 spec: %v", err)
			}
			if err := db.Exec("INSERT INTO approver_specs (level_id, spec_type, user_id) VALUES (?, 'user', ?)", level2ID, directorID).Error; err != nil {
				log.Fatalf("failed to insert level 2 spec: %v", err)
			}
			fmt.Println("Seeded approval rule:", ruleName)
		}

		categories := []struct {
			Name string
			Desc string
		}{
			{"it_hardware", "Computers, servers and peripherals"},
			{"it_software", "Software licenses and subscriptions"},
			{"office_supplies", "General office supplies"},
			{"professional_services", "Consulting and outsourced services"},
			{"facilities", "Building maintenance and utilities"},
		}

		for _, c := range categories {
			var exists int
			if err := db.Raw("SELECT 1 FROM document_categories WHERE name = ?", c.Name).Row().Scan(&exists); err != nil {
				if err := db.Exec("INSERT INTO document_categories (name, description, is_active, created_at, updated_at) VALUES (?, ?, true, now(), now())", c.Name, c.Desc).Error; err != nil {
					log.Fatalf("failed to insert document category %s: %v", c.Name, err)
				}
				fmt.Printf("Seeded document category: %s\n", c.Name)
			}
		}

		fmt.Println("Seeding complete")
	},
}
