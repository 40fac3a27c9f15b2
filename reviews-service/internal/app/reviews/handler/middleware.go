package handler

import (
	"net/http"
	"strings"

	"restaurantreviews/pkg/logger"
	"restaurantreviews/reviews-service/internal/app/reviews/entity"
	"restaurantreviews/reviews-service/internal/app/reviews/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	contextKeyUserID = "user_id"
	contextKeyUser   = "user"
)

// JWTClaims структура claims для JWT токена, выпускаемого auth-сервисом
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// AuthMiddleware проверяет JWT токен и отзыв токена через blacklist в Redis
type AuthMiddleware struct {
	jwtSecret string
	blacklist repository.TokenBlacklist
}

// NewAuthMiddleware создает middleware; blacklist может быть nil, тогда проверка отзыва пропускается
func NewAuthMiddleware(jwtSecret string, blacklist repository.TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		blacklist: blacklist,
	}
}

// Authenticate проверяет JWT токен и добавляет пользователя в контекст Gin
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header required", "")
			return
		}

		// Формат "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid authorization header format", "")
			return
		}

		tokenString := parts[1]

		token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(m.jwtSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || !token.Valid {
			abortWithError(c, http.StatusUnauthorized, "Invalid or expired token", "")
			return
		}

		claims, ok := token.Claims.(*JWTClaims)
		if !ok || claims.UserID == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid token claims", "")
			return
		}

		if m.blacklist != nil {
			revoked, err := m.blacklist.IsBlacklisted(c.Request.Context(), tokenString)
			if err != nil {
				// Не пропускаем запрос, если не можем проверить отзыв токена
				logger.Error().Err(err).Msg("Token blacklist check failed")
				abortWithError(c, http.StatusServiceUnavailable, "Authorization temporarily unavailable", "")
				return
			}
			if revoked {
				abortWithError(c, http.StatusUnauthorized, "Token has been revoked", "")
				return
			}
		}

		c.Set(contextKeyUserID, claims.UserID)
		c.Set(contextKeyUser, entity.User{
			ID:       claims.UserID,
			Username: claims.Username,
			Email:    claims.Email,
		})

		c.Next()
	}
}

// currentUser достает пользователя, положенного в контекст Authenticate
func currentUser(c *gin.Context) (entity.User, bool) {
	value, exists := c.Get(contextKeyUser)
	if !exists {
		return entity.User{}, false
	}
	user, ok := value.(entity.User)
	return user, ok
}

func abortWithError(c *gin.Context, status int, errText, message string) {
	c.AbortWithStatusJSON(status, entity.ErrorResponse{Error: errText, Message: message})
}
