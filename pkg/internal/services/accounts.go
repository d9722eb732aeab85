package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kingtroga/health-takeaways/pkg/internal/database"
	"github.com/kingtroga/health-takeaways/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountExists      = errors.New("username is already taken")
)

const (
	InvalidCredentialsMessage = "Please enter a correct username and password."
	AccountExistsMessage      = "A user with that username already exists."
)

// Compared against when no account matches, so a failed lookup costs the
// same as a wrong password.
var dummyPasswordHash, _ = bcrypt.GenerateFromPassword([]byte("takeaways-dummy-password"), bcrypt.DefaultCost)

func GetAccountWithID(id uint) (models.Account, error) {
	var account models.Account
	if err := database.C.Where("id = ?", id).First(&account).Error; err != nil {
		return account, fmt.Errorf("unable to get account by id: %v", err)
	}
	return account, nil
}

func NewAccount(name, email, password string) (models.Account, error) {
	var count int64
	if err := database.C.Model(&models.Account{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return models.Account{}, err
	} else if count > 0 {
		return models.Account{}, ErrAccountExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Account{}, fmt.Errorf("unable to hash password: %v", err)
	}

	account := models.Account{
		Name:     name,
		Email:    email,
		Password: string(hash),
	}
	if err := database.C.Create(&account).Error; err != nil {
		return account, err
	}

	log.Info().Uint("id", account.ID).Str("name", account.Name).Msg("A new account was registered.")
	return account, nil
}

// ResolveLoginIdentifier turns an email address into the username of the
// single account that owns it. Unknown or shared addresses, and anything
// that is not an address, come back unchanged.
func ResolveLoginIdentifier(identifier string) string {
	if !strings.Contains(identifier, "@") {
		return identifier
	}

	var accounts []models.Account
	if err := database.C.
		Where("LOWER(email) = ?", strings.ToLower(identifier)).
		Limit(2).
		Find(&accounts).Error; err != nil || len(accounts) != 1 {
		return identifier
	}

	return accounts[0].Name
}

// Authenticate checks a username or email together with the password.
func Authenticate(identifier, password string) (models.Account, error) {
	name := ResolveLoginIdentifier(strings.TrimSpace(identifier))

	var account models.Account
	if err := database.C.Where("name = ?", name).First(&account).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Err(err).Msg("An error occurred when looking up account...")
		}
		_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
		return account, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return account, ErrInvalidCredentials
	}

	return account, nil
}
