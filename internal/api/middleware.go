package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/annel0/paintblocks/internal/auth"
)

const claimsKey = "painter_claims"

// tokenMiddleware проверяет JWT в заголовке Authorization.
// Без Authority пропускает все запросы.
func (rs *RestServer) tokenMiddleware(needWrap bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rs.authority == nil {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, http.StatusUnauthorized, "Отсутствует токен авторизации")
			return
		}

		// Проверяем формат "Bearer <token>"
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abort(c, http.StatusUnauthorized, "Неверный формат токена")
			return
		}

		claims, err := rs.authority.Validate(parts[1])
		if err != nil {
			if !errors.Is(err, auth.ErrInvalidToken) {
				rs.logger.Warn("Ошибка проверки токена: %v", err)
			}
			abort(c, http.StatusUnauthorized, "Недействительный токен")
			return
		}

		if needWrap && !claims.CanWrap {
			abort(c, http.StatusForbidden, "Токен не разрешает оборачивать блоки")
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// painterName имя художника из токена или "anonymous"
func painterName(c *gin.Context) string {
	if v, ok := c.Get(claimsKey); ok {
		return v.(*auth.Claims).Painter
	}
	return "anonymous"
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, GenericResponse{Success: false, Message: message})
}
