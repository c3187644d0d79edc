// Package ledger maintains each user's authentication credential and cash
// balance. Shares are never recorded here; they live in the transaction log.
package ledger

import (
	"errors"
	"strings"
	"trading_simulator/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Decimal-safe money arithmetic
	"golang.org/x/crypto/bcrypt"    // Password hashing
	"gorm.io/gorm"                  // GORM ORM library
)

var (
	// ErrDuplicateUsername is returned when the username is already taken.
	ErrDuplicateUsername = errors.New("ledger: username already exists")
	// ErrInvalidCredentials is returned when the username is unknown or the
	// password does not match the stored hash.
	ErrInvalidCredentials = errors.New("ledger: invalid credentials")
	// ErrInsufficientCash is returned by Debit when the guarded update would
	// drive the balance negative.
	ErrInsufficientCash = errors.New("ledger: insufficient cash")
)

// CreateAccount inserts a new user with the given starting cash and returns
// the new user id. Usernames are stored lowercase so uniqueness is
// case-insensitive. A duplicate username fails with ErrDuplicateUsername and
// leaves no side effects; any other storage failure is returned as-is.
func CreateAccount(db *gorm.DB, username, passwordHash string, startingCash decimal.Decimal) (uint, error) {
	name := strings.ToLower(username)
	// Friendly-path check so the common duplicate case never hits the index.
	var existing domain.User
	err := db.Where("username = ?", name).First(&existing).Error
	if err == nil {
		return 0, ErrDuplicateUsername
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	user := domain.User{Username: name, Password: passwordHash, Cash: startingCash}
	if err := db.Create(&user).Error; err != nil {
		// The unique index catches the register-register race the check above
		// cannot. Requires TranslateError on the gorm config.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrDuplicateUsername
		}
		return 0, err
	}
	return user.ID, nil
}

// Authenticate checks a username/password pair and returns the user id.
func Authenticate(db *gorm.DB, username, password string) (uint, error) {
	var user domain.User
	if err := db.Where("username = ?", strings.ToLower(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrInvalidCredentials
		}
		return 0, err
	}
	// bcrypt compare is constant-time over the hash.
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return 0, ErrInvalidCredentials
	}
	return user.ID, nil
}

// GetCash returns the user's current cash balance.
func GetCash(db *gorm.DB, userID uint) (decimal.Decimal, error) {
	var user domain.User
	if err := db.First(&user, userID).Error; err != nil {
		return decimal.Zero, err
	}
	return user.Cash, nil
}

// SetCash overwrites the user's cash balance. The caller guarantees the new
// amount is non-negative.
func SetCash(db *gorm.DB, userID uint, amount decimal.Decimal) error {
	return db.Model(&domain.User{}).Where("id = ?", userID).Update("cash", amount).Error
}

// Credit adds amount to the user's cash as a single expression update. A
// read-then-overwrite credit could erase a debit committed in between; the
// expression form composes with concurrent updates instead.
func Credit(db *gorm.DB, userID uint, amount decimal.Decimal) error {
	return db.Model(&domain.User{}).
		Where("id = ?", userID).
		Update("cash", gorm.Expr("cash + ?", amount)).Error
}

// Debit subtracts amount from the user's cash with a non-negativity guard in
// the statement itself, so concurrent buys cannot overdraw between a read and
// a write. Fails with ErrInsufficientCash when the guard rejects the update.
func Debit(db *gorm.DB, userID uint, amount decimal.Decimal) error {
	res := db.Model(&domain.User{}).
		Where("id = ? AND cash >= ?", userID, amount).
		Update("cash", gorm.Expr("cash - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientCash
	}
	return nil
}
