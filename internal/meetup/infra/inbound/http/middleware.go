package http

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/davicafu/meetups/internal/shared/application/identity"
	"github.com/davicafu/meetups/pkg/utils"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// IdentityMiddleware deja el actor de las cabeceras en el context de la petición.
// Sin X-User-ID la petición sigue sin actor y el behavior de autorización la rechaza.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawID := c.GetHeader(HeaderUserID)
		if rawID == "" {
			c.Next()
			return
		}

		userID, err := uuid.Parse(rawID)
		if err != nil {
			utils.SendBadRequest(c, "invalid "+HeaderUserID+" header")
			return
		}
		role := identity.RoleUser
		if rawRole := c.GetHeader(HeaderUserRole); rawRole != "" {
			if role, err = identity.ParseRole(rawRole); err != nil {
				utils.SendBadRequest(c, err.Error())
				return
			}
		}

		ctx := identity.WithActor(c.Request.Context(), identity.Actor{UserID: userID, Role: role})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
