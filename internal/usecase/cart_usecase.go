package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"
	"eshop/internal/validator"

	"github.com/google/uuid"
)

const (
	maxAddQuantity    = 1000
	maxUpdateQuantity = 100
)

// CartUsecase は顧客のpending注文をカートとして扱う。
// 変更系は1回のtxで「カート解決→明細変更→合計再計算」まで行う。
type CartUsecase struct {
	tx     repo.TransactionManager
	events OrderEventPublisher
}

func NewCartUsecase(tx repo.TransactionManager, events OrderEventPublisher) *CartUsecase {
	return &CartUsecase{tx: tx, events: events}
}

type AddCartItemInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateCartItemInput struct {
	ProductID int64
	Quantity  int64
}

// 配送先はaddress_idか直接指定のどちらか。どちらも無ければデフォルト住所を使う。
// Emailは省略時に顧客のメールを使う。
type CheckoutInput struct {
	AddressID *int64
	Name      string
	Email     string
	Phone     string
	Address   string
	City      string
	State     string
	ZipCode   string
}

func (in CheckoutInput) trimmed() CheckoutInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = validator.NormalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	in.ZipCode = strings.TrimSpace(in.ZipCode)
	return in
}

func (in CheckoutInput) hasInlineAddress() bool {
	return in.Name != "" || in.Phone != "" || in.Address != "" || in.City != "" || in.State != "" || in.ZipCode != ""
}

func (in CheckoutInput) validate() error {
	if in.Email != "" && !validator.IsEmail(in.Email) {
		return errInvalid("invalid email", "email must be a valid address")
	}
	if in.AddressID != nil {
		if *in.AddressID <= 0 {
			return errInvalid("invalid address_id", "address_id must be a positive integer")
		}
		if in.hasInlineAddress() {
			return errInvalid("invalid shipping", "address_id cannot be combined with shipping fields")
		}
		return nil
	}
	if in.hasInlineAddress() {
		return validateShippingFields(in.Name, in.Phone, in.Address, in.City, in.State, in.ZipCode)
	}
	return nil
}

// GetCart はカートの明細を返す。カートが無ければ空（作らない）。参照なのでロックは取らない。
func (u *CartUsecase) GetCart(ctx context.Context, customerID int64) ([]model.CartLine, error) {
	if customerID <= 0 {
		return nil, errUnauthorized()
	}

	lines := []model.CartLine{}
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindPendingByCustomerID(ctx, customerID)
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		if err != nil {
			return errInternal(ctx, "cart.find", err)
		}

		lines, err = r.OrderItems().ListCartLines(ctx, order.ID)
		if err != nil {
			return errInternal(ctx, "cart.lines", err)
		}
		return nil
	})
	if err != nil {
		return nil, txErr(ctx, "cart.get", err)
	}
	return lines, nil
}

// AddItem はカートに追加（同一商品は数量加算、価格は最初の追加時のまま）。
func (u *CartUsecase) AddItem(ctx context.Context, customerID int64, in AddCartItemInput) (model.CartLine, error) {
	if customerID <= 0 {
		return model.CartLine{}, errUnauthorized()
	}
	if in.ProductID <= 0 {
		return model.CartLine{}, errInvalid("invalid product_id", "product_id must be a positive integer")
	}
	if in.Quantity < 1 || in.Quantity > maxAddQuantity {
		return model.CartLine{}, errInvalid("invalid quantity",
			fmt.Sprintf("quantity must be a positive integer up to %d", maxAddQuantity))
	}

	var line model.CartLine
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 商品チェックはカート解決より先（失敗時に何も作らない）
		p, err := r.Products().FindByID(ctx, in.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("product not found")
		}
		if err != nil {
			return errInternal(ctx, "cart.add.product", err)
		}

		order, err := r.Orders().GetOrCreatePendingByCustomerID(ctx, customerID)
		if errors.Is(err, repo.ErrConflict) {
			return errConflict("pending order conflict", err.Error())
		}
		if err != nil {
			return errInternal(ctx, "cart.add.resolve", err)
		}

		item, err := r.OrderItems().UpsertAdd(ctx, order.ID, p.ID, in.Quantity, p.Price)
		if err != nil {
			return errInternal(ctx, "cart.add.upsert", err)
		}

		if _, err := r.Orders().RecalculateTotal(ctx, order.ID); err != nil {
			return errInternal(ctx, "cart.add.total", err)
		}

		line = model.CartLine{
			ProductID: item.ProductID,
			Name:      p.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			ImageURL:  p.ImageURL,
		}
		return nil
	})
	if err != nil {
		return model.CartLine{}, txErr(ctx, "cart.add", err)
	}
	return line, nil
}

// UpdateItem は数量を置き換える（加算ではない）。
func (u *CartUsecase) UpdateItem(ctx context.Context, customerID int64, in UpdateCartItemInput) (model.CartLine, error) {
	if customerID <= 0 {
		return model.CartLine{}, errUnauthorized()
	}
	if in.ProductID <= 0 {
		return model.CartLine{}, errInvalid("invalid product_id", "product_id must be a positive integer")
	}
	if in.Quantity < 1 || in.Quantity > maxUpdateQuantity {
		return model.CartLine{}, errInvalid("invalid quantity",
			fmt.Sprintf("quantity must be between 1 and %d", maxUpdateQuantity))
	}

	var line model.CartLine
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindPendingByCustomerIDForUpdate(ctx, customerID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("item not found in cart")
		}
		if err != nil {
			return errInternal(ctx, "cart.update.find", err)
		}

		if _, err := r.OrderItems().SetQuantity(ctx, order.ID, in.ProductID, in.Quantity); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return errNotFound("item not found in cart")
			}
			return errInternal(ctx, "cart.update.set", err)
		}

		if _, err := r.Orders().RecalculateTotal(ctx, order.ID); err != nil {
			return errInternal(ctx, "cart.update.total", err)
		}

		lines, err := r.OrderItems().ListCartLines(ctx, order.ID)
		if err != nil {
			return errInternal(ctx, "cart.update.lines", err)
		}
		l, ok := findLine(lines, in.ProductID)
		if !ok {
			return errNotFound("item not found in cart")
		}
		line = l
		return nil
	})
	if err != nil {
		return model.CartLine{}, txErr(ctx, "cart.update", err)
	}
	return line, nil
}

// RemoveItem は明細を1行まるごと削除し、削除した明細を返す。
func (u *CartUsecase) RemoveItem(ctx context.Context, customerID int64, productID int64) (model.CartLine, error) {
	if customerID <= 0 {
		return model.CartLine{}, errUnauthorized()
	}
	if productID <= 0 {
		return model.CartLine{}, errInvalid("invalid productId", "productId must be a positive integer")
	}

	var removed model.CartLine
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindPendingByCustomerIDForUpdate(ctx, customerID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("item not found in cart")
		}
		if err != nil {
			return errInternal(ctx, "cart.remove.find", err)
		}

		// 削除前に表示用の名前などを取っておく
		lines, err := r.OrderItems().ListCartLines(ctx, order.ID)
		if err != nil {
			return errInternal(ctx, "cart.remove.lines", err)
		}

		item, err := r.OrderItems().Delete(ctx, order.ID, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("item not found in cart")
		}
		if err != nil {
			return errInternal(ctx, "cart.remove.delete", err)
		}

		if _, err := r.Orders().RecalculateTotal(ctx, order.ID); err != nil {
			return errInternal(ctx, "cart.remove.total", err)
		}

		removed, _ = findLine(lines, productID)
		removed.ProductID = item.ProductID
		removed.Quantity = item.Quantity
		removed.Price = item.Price
		return nil
	})
	if err != nil {
		return model.CartLine{}, txErr(ctx, "cart.remove", err)
	}
	return removed, nil
}

// Checkout は配送先を注文に焼き付けてprocessingへ進める。以後の追加では新しいカートが作られる。
func (u *CartUsecase) Checkout(ctx context.Context, customerID int64, in CheckoutInput) (OrderOutput, error) {
	if customerID <= 0 {
		return OrderOutput{}, errUnauthorized()
	}
	in = in.trimmed()
	if err := in.validate(); err != nil {
		return OrderOutput{}, err
	}

	var (
		out   OrderOutput
		event model.OrderStatusChanged
	)
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindPendingByCustomerIDForUpdate(ctx, customerID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("cart not found")
		}
		if err != nil {
			return errInternal(ctx, "checkout.find", err)
		}

		items, err := r.OrderItems().ListByOrderID(ctx, order.ID)
		if err != nil {
			return errInternal(ctx, "checkout.items", err)
		}
		if len(items) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		shipping, err := resolveShipping(ctx, r, customerID, in)
		if err != nil {
			return err
		}
		if err := r.Orders().SetShipping(ctx, order.ID, shipping); err != nil {
			return errInternal(ctx, "checkout.shipping", err)
		}

		total, err := r.Orders().RecalculateTotal(ctx, order.ID)
		if err != nil {
			return errInternal(ctx, "checkout.total", err)
		}

		if err := r.Orders().UpdateStatus(ctx, order.ID, model.OrderStatusProcessing); err != nil {
			return errInternal(ctx, "checkout.status", err)
		}

		now := time.Now()
		order.Status = model.OrderStatusProcessing
		order.TotalAmount = total
		order.Shipping = shipping
		order.UpdatedAt = now
		out = toOrderOutput(order, items)
		event = model.OrderStatusChanged{
			EventID:    uuid.NewString(),
			OrderID:    order.ID,
			CustomerID: customerID,
			From:       model.OrderStatusPending,
			To:         model.OrderStatusProcessing,
			ActorID:    customerID,
			OccurredAt: now,
		}
		return nil
	})
	if err != nil {
		return OrderOutput{}, txErr(ctx, "checkout", err)
	}

	publishStatusChanged(ctx, u.events, event)
	return out, nil
}

// address_id → 直接指定 → デフォルト住所 の順で決める
func resolveShipping(ctx context.Context, r repo.TxRepos, customerID int64, in CheckoutInput) (model.ShippingInfo, error) {
	var s model.ShippingInfo
	switch {
	case in.AddressID != nil:
		a, err := r.Addresses().FindByID(ctx, *in.AddressID)
		if errors.Is(err, repo.ErrNotFound) {
			return model.ShippingInfo{}, errNotFound("address not found")
		}
		if err != nil {
			return model.ShippingInfo{}, errInternal(ctx, "checkout.address", err)
		}
		//他人の住所は使えない
		if a.CustomerID != customerID {
			return model.ShippingInfo{}, errForbidden()
		}
		s = a.ToShipping(in.Email)
	case in.hasInlineAddress():
		s = model.ShippingInfo{
			Name:    in.Name,
			Email:   in.Email,
			Phone:   in.Phone,
			Address: in.Address,
			City:    in.City,
			State:   in.State,
			ZipCode: in.ZipCode,
		}
	default:
		a, err := r.Addresses().FindDefaultByCustomerID(ctx, customerID)
		if errors.Is(err, repo.ErrNotFound) {
			return model.ShippingInfo{}, errInvalid("shipping address required",
				"send address_id or shipping fields, or set a default address")
		}
		if err != nil {
			return model.ShippingInfo{}, errInternal(ctx, "checkout.default_address", err)
		}
		s = a.ToShipping(in.Email)
	}

	if s.Email == "" {
		c, err := r.Customers().FindByID(ctx, customerID)
		switch {
		case err == nil:
			s.Email = c.Email
		case !errors.Is(err, repo.ErrNotFound):
			return model.ShippingInfo{}, errInternal(ctx, "checkout.customer", err)
		}
	}
	return s, nil
}

func findLine(lines []model.CartLine, productID int64) (model.CartLine, bool) {
	for _, l := range lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return model.CartLine{}, false
}
