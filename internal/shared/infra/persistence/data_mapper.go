package persistence

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
)

// DataMapper traduce una entidad a filas de la base de datos.
type DataMapper interface {
	Insert(ctx context.Context, e sharedDomain.Entity) error
	Update(ctx context.Context, e sharedDomain.Entity) error
	Delete(ctx context.Context, e sharedDomain.Entity) error
}

// MapperFactory construye el mapper sobre la conexión (transacción) del scope.
type MapperFactory func(exec sqlx.ExtContext) DataMapper

// MapperRegistry asocia cada tipo de entidad (Identity.Kind) con su mapper.
type MapperRegistry struct {
	factories map[string]MapperFactory
}

func NewMapperRegistry() *MapperRegistry {
	return &MapperRegistry{factories: make(map[string]MapperFactory)}
}

func (r *MapperRegistry) Register(kind string, f MapperFactory) *MapperRegistry {
	r.factories[kind] = f
	return r
}

// Bind devuelve los mappers ligados a una conexión concreta.
func (r *MapperRegistry) Bind(exec sqlx.ExtContext) BoundMappers {
	bound := make(BoundMappers, len(r.factories))
	for kind, f := range r.factories {
		bound[kind] = f(exec)
	}
	return bound
}

// BoundMappers son los mappers de un scope.
type BoundMappers map[string]DataMapper

func (m BoundMappers) MapperFor(e sharedDomain.Entity) (DataMapper, error) {
	mapper, ok := m[e.Identity().Kind]
	if !ok {
		return nil, fmt.Errorf("no data mapper for %q", e.Identity().Kind)
	}
	return mapper, nil
}
