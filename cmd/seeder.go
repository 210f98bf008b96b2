package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/osmech/workshop-management/internal/auth"
	"github.com/osmech/workshop-management/internal/company"
	"github.com/osmech/workshop-management/internal/user"
	userstore "github.com/osmech/workshop-management/internal/user/postgres"
	"github.com/osmech/workshop-management/pkg/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the default admin, mechanics and company settings",
	Long:  `Creates the default accounts and company settings. Skipped entirely when an admin already exists.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		logger.Init(os.Getenv("APP_ENV"))

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if err := migrateSchema(db); err != nil {
			log.Fatalf("failed to migrate schema: %v", err)
		}

		hasher := staticHasher{cost: cfg.Security.BCryptCost}
		if err := seedDefaults(db, hasher, logger.L()); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}

		fmt.Println("seed complete")
	},
}

// passwordHasher is the slice of the auth service the seeder needs.
type passwordHasher interface {
	HashPassword(password string) (string, error)
}

type staticHasher struct {
	cost int
}

func (h staticHasher) HashPassword(password string) (string, error) {
	cost := h.cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(hash), err
}

// seedDefaults provisions the default admin, three mechanics and the
// company settings row. It is a no-op when any admin account exists, so
// running it on every startup is safe.
func seedDefaults(db *gorm.DB, hasher passwordHasher, log *slog.Logger) error {
	users := userstore.NewUserRepository(db)

	adminCount, err := users.CountAdmins()
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}

	if adminCount == 0 {
		adminHash, err := hasher.HashPassword("admin123")
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		mechanicHash, err := hasher.HashPassword("123456")
		if err != nil {
			return fmt.Errorf("hash mechanic password: %w", err)
		}

		now := time.Now().UTC()
		adminPhone := "(11) 99999-9999"
		adminSpecialty := "Gestão"
		accounts := []*user.User{
			{
				Name:         "Administrador",
				Email:        "admin@osmech.com",
				PasswordHash: adminHash,
				Role:         auth.RoleAdmin,
				Phone:        &adminPhone,
				Specialty:    &adminSpecialty,
				Active:       true,
				CreatedAt:    now,
				UpdatedAt:    now,
			},
		}

		mechanics := []struct {
			name       string
			email      string
			specialty  string
			commission float64
		}{
			{"Carlos Silva", "carlos@osmech.com", "Motor", 15},
			{"João Santos", "joao@osmech.com", "Elétrica", 12},
			{"Pedro Lima", "pedro@osmech.com", "Suspensão", 10},
		}
		for _, m := range mechanics {
			specialty := m.specialty
			accounts = append(accounts, &user.User{
				Name:           m.name,
				Email:          m.email,
				PasswordHash:   mechanicHash,
				Role:           auth.RoleMechanic,
				Specialty:      &specialty,
				CommissionRate: m.commission,
				Active:         true,
				CreatedAt:      now,
				UpdatedAt:      now,
			})
		}

		for _, account := range accounts {
			if err := users.Create(account); err != nil {
				return fmt.Errorf("create user %s: %w", account.Email, err)
			}
		}
		log.Info("default accounts created", "count", len(accounts))
	}

	var settingsCount int64
	if err := db.Model(&company.Settings{}).Count(&settingsCount).Error; err != nil {
		return fmt.Errorf("count company settings: %w", err)
	}
	if settingsCount == 0 {
		email := "contato@osmech.com"
		subtitle := "Gestão Inteligente de Oficinas"
		settings := &company.Settings{
			Name:     "OSMech Oficina",
			CNPJ:     "00.000.000/0001-00",
			Address:  "Rua das Oficinas, 123 - Centro",
			Phone:    "(11) 3333-3333",
			Email:    &email,
			Subtitle: &subtitle,
		}
		if err := db.Create(settings).Error; err != nil {
			return fmt.Errorf("create company settings: %w", err)
		}
		log.Info("default company settings created")
	}

	return nil
}
