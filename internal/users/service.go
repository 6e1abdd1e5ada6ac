package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rahulvarma/shopsphere-backend/pkg/db/models"
	pkgerrors "github.com/rahulvarma/shopsphere-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes profile and address management.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	CreateAddress(ctx context.Context, userID uuid.UUID, input AddressInput) (*models.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, input AddressInput) (*models.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error
	SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
	DefaultAddress(ctx context.Context, userID uuid.UUID) (*models.Address, error)
}

// UpdateProfileInput carries the mutable profile fields.
type UpdateProfileInput struct {
	FirstName string
	LastName  string
	Phone     *string
}

// AddressInput carries the fields for creating or replacing an address.
type AddressInput struct {
	Label      string
	Line1      string
	Line2      *string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      *string
	IsDefault  bool
}

type service struct {
	users     UserRepository
	addresses AddressRepository
	tx        txRunner
}

// NewService builds a users service backed by the provided stack.
func NewService(users UserRepository, addresses AddressRepository, tx txRunner) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if addresses == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{users: users, addresses: addresses, tx: tx}, nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.loadUser(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if first := strings.TrimSpace(input.FirstName); first != "" {
		user.FirstName = first
	}
	if last := strings.TrimSpace(input.LastName); last != "" {
		user.LastName = last
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if phone == "" {
			user.Phone = nil
		} else {
			user.Phone = &phone
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating profile")
	}
	return user, nil
}

func (s *service) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	addresses, err := s.addresses.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing addresses")
	}
	return addresses, nil
}

// CreateAddress saves a new address. The first address a user saves becomes
// the default; a default flag on a later address displaces the previous one
// inside the same transaction.
func (s *service) CreateAddress(ctx context.Context, userID uuid.UUID, input AddressInput) (*models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	if err := validateAddressInput(input); err != nil {
		return nil, err
	}

	existing, err := s.addresses.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing addresses")
	}

	address := newAddressModel(userID, input)
	if len(existing) == 0 {
		address.IsDefault = true
	}

	if address.IsDefault {
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.addresses.WithTx(tx)
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return err
			}
			return repo.Create(ctx, address)
		})
	} else {
		err = s.addresses.Create(ctx, address)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving address")
	}
	return address, nil
}

func (s *service) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, input AddressInput) (*models.Address, error) {
	if err := validateAddressInput(input); err != nil {
		return nil, err
	}

	address, err := s.loadAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	wasDefault := address.IsDefault
	applyAddressInput(address, input)

	if address.IsDefault && !wasDefault {
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.addresses.WithTx(tx)
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return err
			}
			address.IsDefault = true
			return repo.Update(ctx, address)
		})
	} else {
		// Dropping the default flag via update is ignored; the flag moves only
		// when another address claims it.
		if wasDefault {
			address.IsDefault = true
		}
		err = s.addresses.Update(ctx, address)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating address")
	}
	return address, nil
}

func (s *service) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	address, err := s.loadAddress(ctx, userID, addressID)
	if err != nil {
		return err
	}
	if address.IsDefault {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot delete the default address; set another default first")
	}
	if err := s.addresses.Delete(ctx, userID, addressID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting address")
	}
	return nil
}

// SetDefaultAddress moves the default flag atomically.
func (s *service) SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	address, err := s.loadAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	if address.IsDefault {
		return address, nil
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.addresses.WithTx(tx)
		if err := repo.ClearDefault(ctx, userID); err != nil {
			return err
		}
		address.IsDefault = true
		return repo.Update(ctx, address)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "setting default address")
	}
	return address, nil
}

// DefaultAddress returns the user's default address or a not-found error.
func (s *service) DefaultAddress(ctx context.Context, userID uuid.UUID) (*models.Address, error) {
	address, err := s.addresses.FindDefault(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no default address on file")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading default address")
	}
	return address, nil
}

func (s *service) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	return user, nil
}

func (s *service) loadAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	if addressID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id is required")
	}
	address, err := s.addresses.FindForUser(ctx, userID, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading address")
	}
	return address, nil
}

func validateAddressInput(input AddressInput) error {
	if strings.TrimSpace(input.Line1) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "address line1 is required")
	}
	if strings.TrimSpace(input.City) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "city is required")
	}
	if strings.TrimSpace(input.PostalCode) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "postal code is required")
	}
	return nil
}

func newAddressModel(userID uuid.UUID, input AddressInput) *models.Address {
	address := &models.Address{UserID: userID}
	applyAddressInput(address, input)
	return address
}

func applyAddressInput(address *models.Address, input AddressInput) {
	label := strings.TrimSpace(input.Label)
	if label == "" {
		label = "home"
	}
	address.Label = label
	address.Line1 = strings.TrimSpace(input.Line1)
	address.Line2 = trimPtr(input.Line2)
	address.City = strings.TrimSpace(input.City)
	address.State = strings.TrimSpace(input.State)
	address.PostalCode = strings.TrimSpace(input.PostalCode)
	country := strings.TrimSpace(input.Country)
	if country == "" {
		country = "IN"
	}
	address.Country = country
	address.Phone = trimPtr(input.Phone)
	address.IsDefault = input.IsDefault
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
