package behaviors

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/davicafu/meetups/internal/shared/application/identity"
	"github.com/davicafu/meetups/internal/shared/application/mediator"
	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
)

// Policy indica el rol mínimo que exige cada petición. Las que no aparecen sólo exigen un actor.
type Policy map[string]identity.Role

// Authorization rechaza la petición antes de que se ejecute el handler.
type Authorization struct {
	identity identity.Provider
	policy   Policy
	log      *zap.Logger
}

func NewAuthorization(provider identity.Provider, policy Policy, log *zap.Logger) *Authorization {
	return &Authorization{identity: provider, policy: policy, log: log}
}

func (b *Authorization) Handle(ctx context.Context, req mediator.Request, next mediator.Next) (any, error) {
	actor, err := b.identity.Current(ctx)
	if err != nil {
		return nil, err
	}

	required, ok := b.policy[req.RequestName()]
	if ok && required == identity.RoleAdmin && !actor.IsAdmin() {
		b.log.Info("🚫 Petición rechazada por rol",
			zap.String("request", req.RequestName()),
			zap.String("user_id", actor.UserID.String()),
			zap.String("role", string(actor.Role)),
		)
		return nil, fmt.Errorf("%w: %s requires role %s", sharedDomain.ErrPermissionDenied, req.RequestName(), required)
	}
	return next(ctx, req)
}
