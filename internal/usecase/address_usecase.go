package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"
)

type AddressOutput struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Line1      string    `json:"line1"`
	Line2      string    `json:"line2"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	ZipCode    string    `json:"zip_code"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// 作成・更新で共通の入力
type AddressInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Line1   string `json:"line1"`
	Line2   string `json:"line2"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

func (in AddressInput) trimmed() AddressInput {
	return AddressInput{
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Line1:   strings.TrimSpace(in.Line1),
		Line2:   strings.TrimSpace(in.Line2),
		City:    strings.TrimSpace(in.City),
		State:   strings.TrimSpace(in.State),
		ZipCode: strings.TrimSpace(in.ZipCode),
	}
}

func (in AddressInput) validate() error {
	return validateShippingFields(in.Name, in.Phone, in.Line1, in.City, in.State, in.ZipCode)
}

// 宛名・住所・市区町村・州・郵便番号は必須。phoneは任意。
func validateShippingFields(name, phone, line, city, state, zip string) error {
	if name == "" || line == "" || city == "" || state == "" || zip == "" {
		return errInvalid("invalid address", "name, address, city, state and zip_code are required")
	}
	if len(name) > 255 || len(line) > 255 || len(city) > 255 {
		return errInvalid("invalid address", "name, address and city must be at most 255 characters")
	}
	if len(state) > 100 {
		return errInvalid("invalid address", "state must be at most 100 characters")
	}
	if len(zip) > 20 {
		return errInvalid("invalid address", "zip_code must be at most 20 characters")
	}
	if len(phone) > 30 {
		return errInvalid("invalid address", "phone must be at most 30 characters")
	}
	return nil
}

func toAddressOutput(a model.Address) AddressOutput {
	return AddressOutput{
		ID:         a.ID,
		CustomerID: a.CustomerID,
		Name:       a.Name,
		Phone:      a.Phone,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		ZipCode:    a.ZipCode,
		IsDefault:  a.IsDefault,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

type AddressUsecase struct {
	addresses repo.AddressRepository
}

func NewAddressUsecase(addresses repo.AddressRepository) *AddressUsecase {
	return &AddressUsecase{addresses: addresses}
}

func (u *AddressUsecase) List(ctx context.Context, customerID int64) ([]AddressOutput, error) {
	if customerID <= 0 {
		return nil, errUnauthorized()
	}

	list, err := u.addresses.ListByCustomerID(ctx, customerID)
	if err != nil {
		return nil, errInternal(ctx, "addresses.list", err)
	}

	out := make([]AddressOutput, 0, len(list))
	for _, a := range list {
		out = append(out, toAddressOutput(a))
	}
	return out, nil
}

func (u *AddressUsecase) Create(ctx context.Context, customerID int64, in AddressInput) (AddressOutput, error) {
	if customerID <= 0 {
		return AddressOutput{}, errUnauthorized()
	}
	in = in.trimmed()
	if err := in.validate(); err != nil {
		return AddressOutput{}, err
	}

	created, err := u.addresses.Create(ctx, model.Address{
		CustomerID: customerID,
		Name:       in.Name,
		Phone:      in.Phone,
		Line1:      in.Line1,
		Line2:      in.Line2,
		City:       in.City,
		State:      in.State,
		ZipCode:    in.ZipCode,
	})
	if err != nil {
		return AddressOutput{}, errInternal(ctx, "addresses.create", err)
	}
	return toAddressOutput(created), nil
}

func (u *AddressUsecase) Update(ctx context.Context, customerID int64, addressID int64, in AddressInput) error {
	if customerID <= 0 {
		return errUnauthorized()
	}
	if addressID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	in = in.trimmed()
	if err := in.validate(); err != nil {
		return err
	}
	if err := u.ensureOwned(ctx, customerID, addressID); err != nil {
		return err
	}

	err := u.addresses.Update(ctx, model.Address{
		ID:         addressID,
		CustomerID: customerID,
		Name:       in.Name,
		Phone:      in.Phone,
		Line1:      in.Line1,
		Line2:      in.Line2,
		City:       in.City,
		State:      in.State,
		ZipCode:    in.ZipCode,
	})
	if errors.Is(err, repo.ErrNotFound) {
		return errNotFound("address not found")
	}
	if err != nil {
		return errInternal(ctx, "addresses.update", err)
	}
	return nil
}

// 注文側は住所をコピーして持つので、削除しても過去の注文は変わらない
func (u *AddressUsecase) Delete(ctx context.Context, customerID int64, addressID int64) error {
	if customerID <= 0 {
		return errUnauthorized()
	}
	if addressID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := u.ensureOwned(ctx, customerID, addressID); err != nil {
		return err
	}

	err := u.addresses.Delete(ctx, customerID, addressID)
	if errors.Is(err, repo.ErrNotFound) {
		return errNotFound("address not found")
	}
	if err != nil {
		return errInternal(ctx, "addresses.delete", err)
	}
	return nil
}

func (u *AddressUsecase) SetDefault(ctx context.Context, customerID int64, addressID int64) error {
	if customerID <= 0 {
		return errUnauthorized()
	}
	if addressID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := u.ensureOwned(ctx, customerID, addressID); err != nil {
		return err
	}

	//顧客内でdefaultは1つ
	err := u.addresses.SetDefault(ctx, customerID, addressID)
	if errors.Is(err, repo.ErrNotFound) {
		return errNotFound("address not found")
	}
	if err != nil {
		return errInternal(ctx, "addresses.default", err)
	}
	return nil
}

// 存在しなければ404、他人の住所なら403
func (u *AddressUsecase) ensureOwned(ctx context.Context, customerID, addressID int64) error {
	a, err := u.addresses.FindByID(ctx, addressID)
	if errors.Is(err, repo.ErrNotFound) {
		return errNotFound("address not found")
	}
	if err != nil {
		return errInternal(ctx, "addresses.find", err)
	}
	if a.CustomerID != customerID {
		return errForbidden()
	}
	return nil
}
