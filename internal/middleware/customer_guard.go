package middleware

import (
	"context"
	"net/http"

	"eshop/internal/domain/model"
	"eshop/internal/logger"
	"eshop/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type CustomerAuthenticator interface {
	Authenticate(ctx context.Context, customerID int64) (model.Customer, error)
}

// トークンのsubがDB上の有効な顧客か確認する。無効・退会済みは401。
// adminはトークンのroleとDBのroleが両方adminのときだけ。
func CustomerGuard(auth CustomerAuthenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//AuthJWTが入れたcustomer_idを取得する
			customerID, ok := CustomerIDFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			customer, err := auth.Authenticate(c.Request().Context(), customerID)
			if err != nil {
				//DB障害だけは500のまま返す
				if he, ok := usecase.AsHTTPError(err); ok && he.Status == http.StatusInternalServerError {
					return c.JSON(http.StatusInternalServerError, errorJSON(he.Message))
				}
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			if role, _ := c.Get(CtxRoleKey).(model.Role); role == model.RoleAdmin && customer.Role != model.RoleAdmin {
				logger.FromCtx(c.Request().Context()).Warn("admin claim for non-admin customer",
					zap.Int64("customer_id", customerID),
					zap.String("db_role", string(customer.Role)),
				)
				c.Set(CtxRoleKey, model.RoleCustomer)
			}

			return next(c)
		}
	}
}
