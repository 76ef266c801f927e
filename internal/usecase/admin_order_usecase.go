package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"eshop/internal/domain/model"
	"eshop/internal/logger"
	repo "eshop/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AdminOrderUsecase struct {
	tx     repo.TransactionManager
	events OrderEventPublisher
	// trueなら pending→processing→shipped→delivered のみ許可
	strict bool
}

func NewAdminOrderUsecase(tx repo.TransactionManager, events OrderEventPublisher, strict bool) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, events: events, strict: strict}
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

// 注文一覧
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) (OrderListOutput, error) {
	// page/limitの最低限チェック
	if f.Page < 1 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if f.Status != "" {
		st, ok := model.ParseOrderStatus(f.Status)
		if !ok {
			return OrderListOutput{}, errInvalid("invalid status", statusVocabulary)
		}
		f.Status = string(st)
	}

	out := OrderListOutput{Items: []OrderOutput{}, Page: f.Page, Limit: f.Limit}
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return errInternal(ctx, "admin.orders.list", err)
		}
		out.Total = total

		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return errInternal(ctx, "admin.orders.items", err)
			}
			out.Items = append(out.Items, toOrderOutput(o, items))
		}
		return nil
	})
	if err != nil {
		return OrderListOutput{}, txErr(ctx, "admin.orders.list", err)
	}
	return out, nil
}

const statusVocabulary = "status must be one of pending, processing, shipped, delivered, cancelled"

type statusSnapshot struct {
	Status model.OrderStatus `json:"status"`
}

// UpdateStatus はステータスを上書きする。同じ値なら何もしない（監査ログ・イベントなし）。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorID int64, orderID int64, in AdminUpdateOrderStatusInput) (OrderOutput, error) {
	if actorID <= 0 {
		return OrderOutput{}, errUnauthorized()
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	newStatus, ok := model.ParseOrderStatus(in.Status)
	if !ok {
		return OrderOutput{}, errInvalid("invalid status", statusVocabulary)
	}

	var (
		out     OrderOutput
		event   model.OrderStatusChanged
		changed bool
	)
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("order not found")
		}
		if err != nil {
			return errInternal(ctx, "admin.orders.find", err)
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return errInternal(ctx, "admin.orders.items", err)
		}

		// すでに同じなら何もしない
		if o.Status == newStatus {
			out = toOrderOutput(o, items)
			return nil
		}
		if !model.CanTransition(o.Status, newStatus, u.strict) {
			return errConflict("invalid status transition", string(o.Status)+" -> "+string(newStatus))
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return errConflict("customer already has a pending order", err.Error())
			}
			if errors.Is(err, repo.ErrNotFound) {
				return errNotFound("order not found")
			}
			return errInternal(ctx, "admin.orders.status", err)
		}

		before, _ := json.Marshal(statusSnapshot{Status: o.Status})
		after, _ := json.Marshal(statusSnapshot{Status: newStatus})
		now := time.Now()
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorID:      actorID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   string(before),
			AfterJSON:    string(after),
			CreatedAt:    now,
		}); err != nil {
			return errInternal(ctx, "admin.orders.audit", err)
		}

		event = model.OrderStatusChanged{
			EventID:    uuid.NewString(),
			OrderID:    orderID,
			CustomerID: o.CustomerID,
			From:       o.Status,
			To:         newStatus,
			ActorID:    actorID,
			OccurredAt: now,
		}
		changed = true

		o.Status = newStatus
		o.UpdatedAt = now
		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, txErr(ctx, "admin.orders.status", err)
	}

	if changed {
		logger.FromCtx(ctx).Info("order status changed",
			zap.Int64("order_id", orderID),
			zap.String("from", string(event.From)),
			zap.String("to", string(event.To)),
		)
		publishStatusChanged(ctx, u.events, event)
	}
	return out, nil
}

// 期間パラメータ（RFC3339）。空ならnil。
func ParseDateTimeRFC3339(s string) (*time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false
	}
	return &t, true
}
