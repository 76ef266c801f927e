package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"eshop/internal/domain/model"
	repo "eshop/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	productRepo repo.ProductRepository
	auditRepo   repo.AuditLogRepository
	tx          repo.TransactionManager
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	auditRepo repo.AuditLogRepository,
	tx repo.TransactionManager,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		auditRepo:   auditRepo,
		tx:          tx,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page     int
	Limit    int
	Q        string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

type ProductOutput struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	Price         string `json:"price"`
	StockQuantity int64  `json:"stock_quantity"`
	ImageURL      string `json:"image_url"`
	Featured      bool   `json:"featured"`
}

type ProductListOutput struct {
	Items []ProductOutput `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func toProductOutput(p model.Product) ProductOutput {
	return ProductOutput{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		Description:   p.Description,
		Price:         money(p.Price),
		StockQuantity: p.StockQuantity,
		ImageURL:      p.ImageURL,
		Featured:      p.Featured,
	}
}

func toProductOutputs(ps []model.Product) []ProductOutput {
	out := make([]ProductOutput, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProductOutput(p))
	}
	return out
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	if in.MinPrice != nil && in.MinPrice.IsNegative() {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && in.MaxPrice.IsNegative() {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be <= max_price")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc":
	default:
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, total, err := u.productRepo.ListPublic(ctx, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        strings.TrimSpace(in.Q),
		Category: strings.TrimSpace(in.Category),
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		Sort:     in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, errInternal(ctx, "products.list", err)
	}

	return ProductListOutput{
		Items: toProductOutputs(items),
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (ProductOutput, error) {
	if productID <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, errNotFound("product not found")
	}
	if err != nil {
		return ProductOutput{}, errInternal(ctx, "products.get", err)
	}
	return toProductOutput(p), nil
}

func (u *ProductUsecase) ListFeatured(ctx context.Context, limit int) ([]ProductOutput, error) {
	if limit < 1 || limit > 50 {
		limit = 8
	}
	items, err := u.productRepo.ListFeatured(ctx, limit)
	if err != nil {
		return nil, errInternal(ctx, "products.featured", err)
	}
	return toProductOutputs(items), nil
}

type AdminProductInput struct {
	Name          string
	Category      string
	Description   string
	Price         decimal.Decimal
	StockQuantity int64
	ImageURL      string
	Featured      bool
}

func validateProductInput(in AdminProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Price.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.StockQuantity < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	return nil
}

func productSnapshot(p model.Product) string {
	b, _ := json.Marshal(toProductOutput(p))
	return string(b)
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, actorID int64, in AdminProductInput) (ProductOutput, error) {
	if actorID <= 0 {
		return ProductOutput{}, errUnauthorized()
	}
	if err := validateProductInput(in); err != nil {
		return ProductOutput{}, err
	}

	var created model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().Create(ctx, model.Product{
			Name:          strings.TrimSpace(in.Name),
			Category:      strings.TrimSpace(in.Category),
			Description:   in.Description,
			Price:         in.Price.Round(2),
			StockQuantity: in.StockQuantity,
			ImageURL:      in.ImageURL,
			Featured:      in.Featured,
		})
		if err != nil {
			return errInternal(ctx, "admin.products.create", err)
		}
		created = p

		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorID:      actorID,
			Action:       model.AuditActionCreateProduct,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   p.ID,
			AfterJSON:    productSnapshot(p),
			CreatedAt:    time.Now(),
		})
	})
	if err != nil {
		return ProductOutput{}, txErr(ctx, "admin.products.create", err)
	}
	return toProductOutput(created), nil
}

// 在庫はAdminUpdateInventoryで変える（ここでは触らない）
func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, actorID int64, productID int64, in AdminProductInput) (ProductOutput, error) {
	if actorID <= 0 {
		return ProductOutput{}, errUnauthorized()
	}
	if productID <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := validateProductInput(in); err != nil {
		return ProductOutput{}, err
	}

	var updated model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Products().FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("product not found")
		}
		if err != nil {
			return errInternal(ctx, "admin.products.find", err)
		}

		updated = before
		updated.Name = strings.TrimSpace(in.Name)
		updated.Category = strings.TrimSpace(in.Category)
		updated.Description = in.Description
		updated.Price = in.Price.Round(2)
		updated.ImageURL = in.ImageURL
		updated.Featured = in.Featured

		if err := r.Products().Update(ctx, updated); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return errNotFound("product not found")
			}
			return errInternal(ctx, "admin.products.update", err)
		}

		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorID:      actorID,
			Action:       model.AuditActionUpdateProduct,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   productID,
			BeforeJSON:   productSnapshot(before),
			AfterJSON:    productSnapshot(updated),
			CreatedAt:    time.Now(),
		})
	})
	if err != nil {
		return ProductOutput{}, txErr(ctx, "admin.products.update", err)
	}
	return toProductOutput(updated), nil
}

// 論理削除。既存の明細は商品IDで参照し続ける。
func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, actorID int64, productID int64) error {
	if actorID <= 0 {
		return errUnauthorized()
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		err := r.Products().SoftDelete(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("product not found")
		}
		if err != nil {
			return errInternal(ctx, "admin.products.delete", err)
		}

		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorID:      actorID,
			Action:       model.AuditActionDeleteProduct,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   productID,
			CreatedAt:    time.Now(),
		})
	})
	return txErr(ctx, "admin.products.delete", err)
}

type stockSnapshot struct {
	Stock int64 `json:"stock"`
}

// 在庫を現在値で置き換え、調整履歴と監査ログを同じtxで残す
func (u *ProductUsecase) AdminUpdateInventory(ctx context.Context, actorID int64, productID int64, newStock int64, reason string) error {
	if actorID <= 0 {
		return errUnauthorized()
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if newStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return NewHTTPError(http.StatusBadRequest, "reason required")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		oldStock, err := r.Inventory().SetStockWithAdjustment(ctx, actorID, productID, newStock, reason)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("product not found")
		}
		if err != nil {
			return errInternal(ctx, "admin.inventory.set", err)
		}

		before, _ := json.Marshal(stockSnapshot{Stock: oldStock})
		after, _ := json.Marshal(stockSnapshot{Stock: newStock})
		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorID:      actorID,
			Action:       model.AuditActionUpdateStock,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   productID,
			BeforeJSON:   string(before),
			AfterJSON:    string(after),
			CreatedAt:    time.Now(),
		})
	})
	return txErr(ctx, "admin.inventory.set", err)
}

func (u *ProductUsecase) ListAuditLogs(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	logs, err := u.auditRepo.List(ctx, f)
	if errors.Is(err, repo.ErrInvalid) {
		return nil, errInvalid("invalid audit filter", err.Error())
	}
	if err != nil {
		return nil, errInternal(ctx, "admin.audit.list", err)
	}
	return logs, nil
}
