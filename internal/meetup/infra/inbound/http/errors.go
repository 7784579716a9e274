package http

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
	"github.com/davicafu/meetups/pkg/utils"
)

// sendError traduce la taxonomía de errores a códigos HTTP.
// ErrCommitFailure va primero: envuelve el error del mapper, que puede ser un not found.
func sendError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, sharedDomain.ErrCommitFailure):
		log.Warn("⚠️ Fallo al confirmar la transacción",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		utils.SendServiceUnavailable(c, "could not commit the change, retry later")
	case errors.Is(err, sharedDomain.ErrInvalidInput):
		utils.SendBadRequest(c, err.Error())
	case errors.Is(err, sharedDomain.ErrUnauthenticated):
		utils.SendUnauthorized(c, err.Error())
	case errors.Is(err, sharedDomain.ErrPermissionDenied):
		utils.SendForbidden(c, err.Error())
	case errors.Is(err, sharedDomain.ErrNotFound):
		utils.SendNotFound(c, err.Error())
	case errors.Is(err, sharedDomain.ErrConflict):
		utils.SendConflict(c, err.Error())
	default:
		log.Error("❌ Error procesando petición",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		utils.SendInternalServerError(c, "internal error")
	}
}
