// Package identity transporta el actor autenticado en el context de la petición.
package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: unknown role %q", sharedDomain.ErrInvalidInput, s)
}

// Actor es quien ejecuta la petición.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// System es el actor de las tareas programadas y de los consumidores de eventos.
var System = Actor{UserID: uuid.Nil, Role: RoleAdmin}

type ctxKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(Actor)
	return a, ok
}

// Provider resuelve el actor actual.
type Provider interface {
	Current(ctx context.Context) (Actor, error)
}

// ContextProvider lee el actor que el adaptador de entrada dejó en el context.
type ContextProvider struct{}

func (ContextProvider) Current(ctx context.Context) (Actor, error) {
	a, ok := ActorFrom(ctx)
	if !ok {
		return Actor{}, sharedDomain.ErrUnauthenticated
	}
	return a, nil
}

var _ Provider = ContextProvider{}
