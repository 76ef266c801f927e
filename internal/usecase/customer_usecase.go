package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"
	"eshop/internal/validator"
)

type CustomerUsecase struct {
	customers repo.CustomerRepository
	orders    repo.OrderRepository
}

func NewCustomerUsecase(customers repo.CustomerRepository, orders repo.OrderRepository) *CustomerUsecase {
	return &CustomerUsecase{customers: customers, orders: orders}
}

// Authenticate はトークンのsubを有効な顧客に解決する。無効なら401。
func (u *CustomerUsecase) Authenticate(ctx context.Context, customerID int64) (model.Customer, error) {
	if customerID <= 0 {
		return model.Customer{}, errUnauthorized()
	}
	c, err := u.customers.FindByID(ctx, customerID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Customer{}, errUnauthorized()
	}
	if err != nil {
		return model.Customer{}, errInternal(ctx, "customers.auth", err)
	}
	if !c.IsActive {
		return model.Customer{}, errUnauthorized()
	}
	return c, nil
}

type CustomerOutput struct {
	ID               int64         `json:"id"`
	Name             string        `json:"name"`
	Email            string        `json:"email"`
	Phone            string        `json:"phone"`
	IsActive         bool          `json:"is_active"`
	NewsletterOptIn  bool          `json:"newsletter_opt_in"`
	RegistrationDate time.Time     `json:"registration_date"`
	Orders           []OrderOutput `json:"orders"`
}

type CustomerListOutput struct {
	Items []CustomerOutput `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// 管理者用の顧客一覧。各顧客の注文（明細なし）を添える。
func (u *CustomerUsecase) AdminListCustomers(ctx context.Context, q repo.CustomerListQuery) (CustomerListOutput, error) {
	if q.Page < 1 {
		return CustomerListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if q.Limit < 1 || q.Limit > 100 {
		return CustomerListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	switch q.Sort {
	case "", "name", "email", "registration_date":
	default:
		return CustomerListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	customers, total, err := u.customers.List(ctx, q)
	if err != nil {
		return CustomerListOutput{}, errInternal(ctx, "admin.customers.list", err)
	}

	ids := make([]int64, 0, len(customers))
	for _, c := range customers {
		ids = append(ids, c.ID)
	}
	orders, err := u.orders.ListByCustomerIDs(ctx, ids)
	if err != nil {
		return CustomerListOutput{}, errInternal(ctx, "admin.customers.orders", err)
	}
	byCustomer := make(map[int64][]OrderOutput, len(customers))
	for _, o := range orders {
		byCustomer[o.CustomerID] = append(byCustomer[o.CustomerID], toOrderOutput(o, nil))
	}

	out := CustomerListOutput{Items: make([]CustomerOutput, 0, len(customers)), Total: total, Page: q.Page, Limit: q.Limit}
	for _, c := range customers {
		os := byCustomer[c.ID]
		if os == nil {
			os = []OrderOutput{}
		}
		out.Items = append(out.Items, CustomerOutput{
			ID:               c.ID,
			Name:             c.Name,
			Email:            c.Email,
			Phone:            c.Phone,
			IsActive:         c.IsActive,
			NewsletterOptIn:  c.NewsletterOptIn,
			RegistrationDate: c.RegistrationDate,
			Orders:           os,
		})
	}
	return out, nil
}

func (u *CustomerUsecase) SubscribeNewsletter(ctx context.Context, email string) error {
	email = validator.NormalizeEmail(email)
	if !validator.IsEmail(email) {
		return errInvalid("invalid email", "email must look like name@example.com")
	}
	if _, err := u.customers.SubscribeNewsletter(ctx, email); err != nil {
		return errInternal(ctx, "newsletter.subscribe", err)
	}
	return nil
}

func (u *CustomerUsecase) UnsubscribeNewsletter(ctx context.Context, email string) error {
	email = validator.NormalizeEmail(email)
	if !validator.IsEmail(email) {
		return errInvalid("invalid email", "email must look like name@example.com")
	}
	err := u.customers.UnsubscribeNewsletter(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return errNotFound("subscriber not found")
	}
	if err != nil {
		return errInternal(ctx, "newsletter.unsubscribe", err)
	}
	return nil
}
