package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-vault/vault-bank/internal/domain"
	"github.com/go-vault/vault-bank/pkg/errorspkg"
	"github.com/go-vault/vault-bank/pkg/tokenpkg"
	"github.com/go-vault/vault-bank/pkg/web"
	"github.com/rs/zerolog"
)

// RoleChecker reports whether a user holds the admin role.
//
//go:generate mockgen -source admin.go -destination admin_mock.go -package middleware
type RoleChecker interface {
	IsAdmin(ctx context.Context, username string) (bool, error)
}

// AdminMiddleware restricts the route group to admin users. It must run
// after AuthMiddleware.
func AdminMiddleware(rc RoleChecker) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		l := zerolog.Ctx(ctx.Request.Context())

		authPayload := ctx.MustGet(AuthPayloadKey).(*tokenpkg.Payload)

		isAdmin, err := rc.IsAdmin(ctx.Request.Context(), authPayload.Username)
		if err != nil {
			l.Error().Err(err).Send()
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
			return
		}

		if !isAdmin {
			ctx.AbortWithStatusJSON(http.StatusForbidden, web.Error(domain.ErrNotAdmin))
			return
		}

		ctx.Next()
	}
}
