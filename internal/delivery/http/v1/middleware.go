package v1

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		h.logger.Error().Msg("authorization header required")
		abort(c, newUnauthorizedError(errInvalidAuthHeader.Error()))
		return
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		h.logger.Error().Msg("invalid authorization header")
		abort(c, newUnauthorizedError(errInvalidAuthHeader.Error()))
		return
	}

	claims, err := h.auth.ParseJWTToken(parts[1])
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			h.logger.Warn().Msg("access token expired")
			abort(c, newUnauthorizedError("access token expired"))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to parse token")
		abort(c, newUnauthorizedError("invalid access token"))
		return
	}

	h.logger.Debug().
		Str("subject", claims.Subject).
		Str("path", c.FullPath()).
		Msg("authorized request")
	c.Next()
}
