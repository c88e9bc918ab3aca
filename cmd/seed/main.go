package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"smartmess/internal/config"
	"smartmess/internal/db"
	"smartmess/internal/model"
	"smartmess/internal/repository"
)

// demoUser is one of the fixed accounts seeded for local development.
type demoUser struct {
	Name     string
	Email    string
	Password string
	Role     string
}

var demoUsers = []demoUser{
	{Name: "Demo Student", Email: "student@smartmess.local", Password: "student123", Role: model.RoleStudent},
	{Name: "Demo Staff", Email: "staff@smartmess.local", Password: "staff123", Role: model.RoleStaff},
	{Name: "Demo Admin", Email: "admin@smartmess.local", Password: "admin123", Role: model.RoleAdmin},
}

func main() {
	log.Println("Starting seed script...")

	_ = godotenv.Load()
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.WeeklyMenu{},
		&model.MealOption{},
		&model.Vote{},
		&model.Booking{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	menuRepo := repository.NewMenuRepository(gormDB)

	created, err := seedUsers(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	log.Printf("Users seeded: %d new, %d already present", created, len(demoUsers)-created)

	weekStart := model.WeekStartDate(time.Now())
	seededMenu, err := seedMenu(ctx, menuRepo, weekStart)
	if err != nil {
		log.Fatalf("Failed to seed weekly menu: %v", err)
	}
	if seededMenu {
		log.Printf("Default menu created for week starting %s", weekStart)
	} else {
		log.Printf("Menu for week starting %s already exists", weekStart)
	}

	log.Println("Seed completed successfully!")
}

// seedUsers creates the demo accounts, skipping any that already exist.
func seedUsers(ctx context.Context, repo repository.UserRepository) (int, error) {
	created := 0
	for _, du := range demoUsers {
		_, err := repo.FindByEmail(ctx, du.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, fmt.Errorf("error checking user %s: %w", du.Email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(du.Password), 12)
		if err != nil {
			return created, fmt.Errorf("error hashing password for %s: %w", du.Email, err)
		}
		user := model.User{
			Name:         du.Name,
			Email:        du.Email,
			PasswordHash: string(hash),
			Role:         du.Role,
			Level:        1,
		}
		if err := repo.Create(ctx, &user); err != nil {
			return created, fmt.Errorf("error creating user %s: %w", du.Email, err)
		}
		created++
	}
	return created, nil
}

// seedMenu creates the default menu for the given week if none exists.
func seedMenu(ctx context.Context, repo repository.MenuRepository, weekStart string) (bool, error) {
	_, err := repo.FindByWeekStart(ctx, weekStart)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("error checking menu for %s: %w", weekStart, err)
	}

	menu := model.DefaultWeeklyMenu(weekStart)
	if err := repo.Create(ctx, menu); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("error creating menu for %s: %w", weekStart, err)
	}
	return true, nil
}
