// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/FeliPerrelliACT/Almoxarifado/internal/core/id"
	"github.com/FeliPerrelliACT/Almoxarifado/internal/infrastructure/storage/postgres"
	"github.com/FeliPerrelliACT/Almoxarifado/pkg/config"
	"github.com/FeliPerrelliACT/Almoxarifado/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load configuration", "error", err)
	}

	ctx := context.Background()

	poolCfg := postgres.DefaultPoolConfig(cfg.DB.ConnectionString())
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := seedRolesAndPermissions(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed roles and permissions", "error", err)
	}

	if err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// seedRolesAndPermissions creates the built-in roles and grants.
// Re-running is safe: every statement skips existing rows.
func seedRolesAndPermissions(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	permissions := []struct {
		code string
		name string
	}{
		{"catalog:product:read", "View products"},
		{"catalog:product:create", "Create products"},
		{"catalog:product:update", "Update products"},
		{"catalog:product:delete", "Delete products"},
		{"catalog:employee:read", "View employees"},
		{"catalog:employee:create", "Create employees"},
		{"catalog:employee:update", "Update employees"},
		{"catalog:employee:delete", "Delete employees"},
		{"catalog:warehouse:read", "View warehouses"},
		{"catalog:warehouse:create", "Create warehouses"},
		{"catalog:warehouse:update", "Update warehouses"},
		{"catalog:warehouse:delete", "Delete warehouses"},
		{"catalog:cost_center:read", "View cost centers"},
		{"catalog:cost_center:create", "Create cost centers"},
		{"catalog:cost_center:update", "Update cost centers"},
		{"catalog:cost_center:delete", "Delete cost centers"},
		{"catalog:financial_plan:read", "View financial plans"},
		{"catalog:financial_plan:create", "Create financial plans"},
		{"catalog:financial_plan:update", "Update financial plans"},
		{"catalog:financial_plan:delete", "Delete financial plans"},
		{"stock:read", "View stock balances and movements"},
		{"stock:record", "Record stock movements"},
		{"requests:access", "Use the purchase request workflow"},
		{"requests:approve", "Approve or reject purchase requests"},
		{"reports:read", "Export reports"},
	}

	for _, p := range permissions {
		parts := strings.Split(p.code, ":")
		resource := strings.Join(parts[:len(parts)-1], ":")
		action := parts[len(parts)-1]

		_, err := pool.Exec(ctx, `
			INSERT INTO permissions (id, code, name, resource, action)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (code) DO NOTHING
		`, id.New(), p.code, p.name, resource, action)
		if err != nil {
			return fmt.Errorf("insert permission %s: %w", p.code, err)
		}
	}

	roles := []struct {
		code        string
		name        string
		description string
		grants      []string // permission code prefixes
	}{
		{"admin", "Administrator", "Full access", nil},
		{"storekeeper", "Storekeeper", "Runs the storeroom",
			[]string{"catalog:", "stock:", "requests:access", "reports:read"}},
		{"requester", "Requester", "Raises purchase requests",
			[]string{"catalog:product:read", "stock:read", "requests:access"}},
		{"approver", "Approver", "Settles purchase requests",
			[]string{"requests:access", "requests:approve", "reports:read"}},
	}

	for _, r := range roles {
		_, err := pool.Exec(ctx, `
			INSERT INTO roles (id, code, name, description, is_system, created_at, updated_at)
			VALUES ($1, $2, $3, $4, true, now(), now())
			ON CONFLICT (code) DO NOTHING
		`, id.New(), r.code, r.name, r.description)
		if err != nil {
			return fmt.Errorf("insert role %s: %w", r.code, err)
		}

		for _, prefix := range r.grants {
			_, err := pool.Exec(ctx, `
				INSERT INTO role_permissions (role_id, permission_id, created_at)
				SELECT r.id, p.id, now()
				FROM roles r, permissions p
				WHERE r.code = $1 AND p.code LIKE $2
				ON CONFLICT DO NOTHING
			`, r.code, prefix+"%")
			if err != nil {
				return fmt.Errorf("grant %s to %s: %w", prefix, r.code, err)
			}
		}
	}

	log.Info("roles and permissions seeded")
	return nil
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	adminUsername := os.Getenv("ADMIN_USERNAME")
	if adminUsername == "" {
		adminUsername = "admin"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	// Check if admin already exists
	var existingID id.ID
	err := pool.QueryRow(ctx,
		`SELECT id FROM users WHERE username = $1 AND deleted_at IS NULL`,
		adminUsername,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "username", adminUsername, "user_id", existingID)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	_, err = pool.Exec(ctx, `
		INSERT INTO users (
			id, username, password_hash, first_name, last_name,
			is_active, is_admin, created_at, updated_at, version
		)
		VALUES ($1, $2, $3, 'System', 'Admin', true, true, now(), now(), 1)
	`, userID, adminUsername, string(passwordHash))
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id, granted_at)
		SELECT $1, id, now() FROM roles WHERE code = 'admin'
		ON CONFLICT (user_id, role_id) DO NOTHING
	`, userID)
	if err != nil {
		log.Warnw("failed to assign admin role", "error", err)
	}

	log.Infow("admin user created", "username", adminUsername, "user_id", userID)
	return nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	log.Info("seeding demo data...")

	// 1. Warehouses (stock locations)
	warehouses := []struct {
		name    string
		address string
	}{
		{"Almoxarifado Central", "Av. Industrial, 1200 - Galpão A"},
		{"Depósito Obra Norte", "Rod. BR-101, km 42"},
		{"Sala de Ferramentas", "Av. Industrial, 1200 - Anexo"},
	}

	for i, w := range warehouses {
		_, err := pool.Exec(ctx, `
			INSERT INTO cat_warehouses (id, code, name, address, active, version, deletion_mark, created_at, updated_at)
			VALUES ($1, $2, $3, $4, true, 1, false, now(), now())
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, id.New(), fmt.Sprintf("WH-%03d", i+1), w.name, w.address)
		if err != nil {
			log.Warnw("failed to seed warehouse", "name", w.name, "error", err)
		}
	}

	// 2. Products
	products := []struct {
		name     string
		unit     string
		category string
	}{
		{"Papel A4 (resma)", "un", "consumable"},
		{"Caneta esferográfica azul", "un", "consumable"},
		{"Luva de proteção (par)", "par", "consumable"},
		{"Capacete de segurança", "un", "returnable"},
		{"Furadeira de impacto", "un", "returnable"},
		{"Trena 5m", "un", "returnable"},
		{"Cimento CP-II 50kg", "sc", "consumable"},
		{"Cabo flexível 2,5mm (rolo)", "rl", "consumable"},
	}

	for i, p := range products {
		_, err := pool.Exec(ctx, `
			INSERT INTO cat_products (id, code, name, unit, category, active, version, deletion_mark, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, true, 1, false, now(), now())
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, id.New(), fmt.Sprintf("PRD-%05d", i+1), p.name, p.unit, p.category)
		if err != nil {
			log.Warnw("failed to seed product", "name", p.name, "error", err)
		}
	}

	// 3. Employees
	employees := []struct {
		name         string
		registration string
		role         string
	}{
		{"Maria Souza", "EMP-0001", "Almoxarife"},
		{"João Pereira", "EMP-0002", "Eletricista"},
		{"Ana Lima", "EMP-0003", "Engenheira Civil"},
		{"Carlos Santos", "EMP-0004", "Comprador"},
	}

	for i, e := range employees {
		_, err := pool.Exec(ctx, `
			INSERT INTO cat_employees (id, code, name, registration, role, active, version, deletion_mark, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, true, 1, false, now(), now())
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, id.New(), fmt.Sprintf("EMP-%03d", i+1), e.name, e.registration, e.role)
		if err != nil {
			log.Warnw("failed to seed employee", "name", e.name, "error", err)
		}
	}

	// 4. Cost centers
	costCenters := []struct {
		name        string
		description string
	}{
		{"Administrativo", "Despesas administrativas"},
		{"Obra Norte", "Obra rodoviária BR-101"},
		{"Manutenção", "Manutenção predial e de equipamentos"},
	}

	for i, cc := range costCenters {
		_, err := pool.Exec(ctx, `
			INSERT INTO cat_cost_centers (id, code, name, description, active, version, deletion_mark, created_at, updated_at)
			VALUES ($1, $2, $3, $4, true, 1, false, now(), now())
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, id.New(), fmt.Sprintf("CC-%03d", i+1), cc.name, cc.description)
		if err != nil {
			log.Warnw("failed to seed cost center", "name", cc.name, "error", err)
		}
	}

	// 5. Financial plans
	plans := []struct {
		name   string
		budget string
	}{
		{"Orçamento Operacional 2026", "250000.00"},
		{"Orçamento Obra Norte 2026", "1800000.00"},
	}

	for i, fp := range plans {
		_, err := pool.Exec(ctx, `
			INSERT INTO cat_financial_plans (id, code, name, budget, active, version, deletion_mark, created_at, updated_at)
			VALUES ($1, $2, $3, $4, true, 1, false, now(), now())
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, id.New(), fmt.Sprintf("FP-%03d", i+1), fp.name, fp.budget)
		if err != nil {
			log.Warnw("failed to seed financial plan", "name", fp.name, "error", err)
		}
	}

	log.Info("demo data seeded successfully")
	return nil
}
