package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pawcare-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FindOrCreateUserByEmail returns the customer identity for email, creating it on first use.
func (s *Store) FindOrCreateUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOrCreateUser(ctx, models.User{Email: &email})
}

func (s *Store) FindOrCreateUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	return s.findOrCreateUser(ctx, models.User{Phone: &phone})
}

func (s *Store) findOrCreateUser(ctx context.Context, where models.User) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where(where).Attrs(models.User{IsActive: true}).FirstOrCreate(&u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// lost a concurrent first request; the row exists now
		err = s.db.WithContext(ctx).Where(where).First(&u).Error
	}
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) FindUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("phone = ?", phone).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) FindGroomerByEmail(ctx context.Context, email string) (*models.Groomer, error) {
	var g models.Groomer
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&g).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (s *Store) FindGroomerByPhone(ctx context.Context, phone string) (*models.Groomer, error) {
	var g models.Groomer
	if err := s.db.WithContext(ctx).Where("phone = ?", phone).First(&g).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

// EnsureCustomer provisions the Customer profile of a user on first login and
// links it back to the user row.
func (s *Store) EnsureCustomer(ctx context.Context, userID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, "id = ?", userID).Error; err != nil {
			return translate(err)
		}
		if u.CustomerID != nil {
			err := tx.First(&customer, "id = ?", *u.CustomerID).Error
			if err == nil {
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("load customer: %w", err)
			}
		}

		customer = models.Customer{UserID: u.ID}
		if u.Email != nil {
			customer.Email = *u.Email
		}
		if u.Phone != nil {
			customer.Phone = *u.Phone
		}
		if err := tx.Create(&customer).Error; err != nil {
			return fmt.Errorf("create customer: %w", err)
		}
		if err := tx.Model(&models.User{}).Where("id = ?", u.ID).Update("customer_id", customer.ID).Error; err != nil {
			return fmt.Errorf("link customer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// BumpUserTokenVersion increments the user's token version. With login set
// the login time is stamped in the same statement.
func (s *Store) BumpUserTokenVersion(ctx context.Context, userID uuid.UUID, login bool) (int, error) {
	var version int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		changes := map[string]interface{}{"token_version": gorm.Expr("token_version + 1")}
		if login {
			changes["last_login"] = time.Now()
		}
		res := tx.Model(&models.User{}).Where("id = ?", userID).Updates(changes)
		if res.Error != nil {
			return fmt.Errorf("bump token version: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&models.User{}).Select("token_version").Where("id = ?", userID).Scan(&version).Error
	})
	return version, err
}

func (s *Store) BumpGroomerTokenVersion(ctx context.Context, groomerID uuid.UUID) (int, error) {
	var version int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Groomer{}).Where("id = ?", groomerID).
			Update("token_version", gorm.Expr("token_version + 1"))
		if res.Error != nil {
			return fmt.Errorf("bump token version: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&models.Groomer{}).Select("token_version").Where("id = ?", groomerID).Scan(&version).Error
	})
	return version, err
}

func (s *Store) UserTokenVersion(ctx context.Context, userID uuid.UUID) (int, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Select("id", "token_version", "is_active").First(&u, "id = ?", userID).Error; err != nil {
		return 0, translate(err)
	}
	if !u.IsActive {
		return 0, ErrNotFound
	}
	return u.TokenVersion, nil
}

// GroomerTokenVersion fails with ErrNotFound for deactivated or deleted groomers.
func (s *Store) GroomerTokenVersion(ctx context.Context, groomerID uuid.UUID) (int, error) {
	var g models.Groomer
	err := s.db.WithContext(ctx).Select("id", "token_version").
		Where("is_active = ?", true).
		First(&g, "id = ?", groomerID).Error
	if err != nil {
		return 0, translate(err)
	}
	return g.TokenVersion, nil
}
