package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"webstarter/internal/auth"
	"webstarter/internal/logger"
	"webstarter/internal/models"
)

type seedUser struct {
	email    string
	name     string
	password string
	role     models.Role
}

var seedUsers = []seedUser{
	{email: "admin@example.com", name: "Admin User", password: "admin123", role: models.RoleAdmin},
	{email: "user@example.com", name: "Demo User", password: "user123", role: models.RoleUser},
}

// SeedProducts - демо-товары; цены в центах.
var SeedProducts = []models.Product{
	{
		Slug:        "demo-product-1",
		Name:        "Demo Product 1",
		Description: "This is a demo product for testing purposes",
		Price:       1999,
		Currency:    "USD",
		Stock:       100,
		Images:      []string{"https://via.placeholder.com/400"},
		IsActive:    true,
	},
	{
		Slug:        "demo-product-2",
		Name:        "Demo Product 2",
		Description: "Another demo product",
		Price:       2999,
		Currency:    "USD",
		Stock:       50,
		Images:      []string{"https://via.placeholder.com/400"},
		IsActive:    true,
	},
}

// Seed заполняет базу демо-данными. Existing rows are left untouched,
// so it is safe to run repeatedly.
func Seed(ctx context.Context, db *gorm.DB) error {
	log := logger.FromContext(ctx)
	log.Info("starting database seed")

	now := time.Now()
	for _, su := range seedUsers {
		hash, err := auth.HashPassword(su.password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", su.email, err)
		}
		u := models.User{
			Email:           su.email,
			Name:            su.name,
			PasswordHash:    hash,
			Role:            su.role,
			EmailVerifiedAt: &now,
		}
		err = db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
			Create(&u).Error
		if err != nil {
			return fmt.Errorf("seed user %s: %w", su.email, err)
		}
		log.Info("seeded user", "email", su.email, "role", su.role)
	}

	for _, p := range SeedProducts {
		p := p
		err := db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
			Create(&p).Error
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.Slug, err)
		}
	}
	log.Info("seeded products", "count", len(SeedProducts))
	log.Info("seed completed")
	return nil
}
