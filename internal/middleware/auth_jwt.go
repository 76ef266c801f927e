package middleware

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"eshop/internal/config"
	"eshop/internal/domain/model"
	"eshop/internal/logger"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxCustomerIDKey = "customer_id" // int64
	CtxRoleKey       = "role"        // model.Role
)

// 外部IdPが発行したbearerトークンを検証する。subが顧客ID、roleが customer/admin。
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//JWTをパースして検証する（exp/nbfはライブラリが見る）
			token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
				if t.Method != jwt.SigningMethodHS256 {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.JWTSecret), nil
			})
			if err != nil || token == nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//発行者の指定があるときだけissを見る
			if cfg.JWTIssuer != "" && !claims.VerifyIssuer(cfg.JWTIssuer, true) {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			customerID, err := parseCustomerID(claims["sub"])
			if err != nil || customerID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//roleは省略時customer
			role, err := parseRole(claims["role"])
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			c.Set(CtxCustomerIDKey, customerID)
			c.Set(CtxRoleKey, role)
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithCustomerID(req.Context(), customerID)))

			return next(c)
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// subをint64に変換する
func parseCustomerID(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		// 1.9 などを切り捨てて別の顧客にしない
		if t != math.Trunc(t) || t > math.MaxInt64 || t < math.MinInt64 {
			return 0, errors.New("invalid sub")
		}
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid sub")
	}
}

func parseRole(v interface{}) (model.Role, error) {
	if v == nil {
		return model.RoleCustomer, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.New("invalid role")
	}
	switch r := model.Role(strings.ToLower(strings.TrimSpace(s))); r {
	case model.RoleCustomer, model.RoleAdmin:
		return r, nil
	case "":
		return model.RoleCustomer, nil
	default:
		return "", errors.New("invalid role")
	}
}

// CustomerIDFrom はAuthJWTが入れた顧客IDを返す。
func CustomerIDFrom(c echo.Context) (int64, bool) {
	id, ok := c.Get(CtxCustomerIDKey).(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}
