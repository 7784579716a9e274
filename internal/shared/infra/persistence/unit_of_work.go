package persistence

import (
	"context"
	"errors"
	"fmt"

	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
)

var ErrUnitOfWorkCommitted = errors.New("unit of work already committed")

// MapperSource resuelve el mapper de una entidad.
type MapperSource interface {
	MapperFor(e sharedDomain.Entity) (DataMapper, error)
}

// entitySet conserva el orden de registro para que el volcado sea reproducible.
type entitySet struct {
	byID  map[sharedDomain.Identity]sharedDomain.Entity
	order []sharedDomain.Identity
}

func newEntitySet() *entitySet {
	return &entitySet{byID: make(map[sharedDomain.Identity]sharedDomain.Entity)}
}

func (s *entitySet) has(id sharedDomain.Identity) bool {
	_, ok := s.byID[id]
	return ok
}

func (s *entitySet) add(e sharedDomain.Entity) {
	id := e.Identity()
	if s.has(id) {
		s.byID[id] = e
		return
	}
	s.byID[id] = e
	s.order = append(s.order, id)
}

func (s *entitySet) remove(id sharedDomain.Identity) {
	if !s.has(id) {
		return
	}
	delete(s.byID, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *entitySet) list() []sharedDomain.Entity {
	out := make([]sharedDomain.Entity, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// UnitOfWork guarda los conjuntos new, dirty y deleted de una petición.
// Una entidad está como mucho en uno de ellos. No es segura para uso concurrente:
// se crea una por scope.
type UnitOfWork struct {
	mappers   MapperSource
	new       *entitySet
	dirty     *entitySet
	deleted   *entitySet
	committed bool
	// late guarda lo registrado después del Commit; no se persiste y el siguiente Commit lo reporta.
	late []sharedDomain.Identity
}

func NewUnitOfWork(mappers MapperSource) *UnitOfWork {
	return &UnitOfWork{
		mappers: mappers,
		new:     newEntitySet(),
		dirty:   newEntitySet(),
		deleted: newEntitySet(),
	}
}

var _ sharedDomain.UnitOfWork = (*UnitOfWork)(nil)

func (u *UnitOfWork) RegisterNew(e sharedDomain.Entity) {
	if u.rejectLate(e) {
		return
	}
	id := e.Identity()
	switch {
	case u.new.has(id), u.dirty.has(id):
		return
	case u.deleted.has(id):
		// volver a añadir algo ya persistido es una actualización
		u.deleted.remove(id)
		u.dirty.add(e)
	default:
		u.new.add(e)
	}
}

func (u *UnitOfWork) RegisterDirty(e sharedDomain.Entity) {
	if u.rejectLate(e) {
		return
	}
	id := e.Identity()
	if u.new.has(id) || u.dirty.has(id) || u.deleted.has(id) {
		return
	}
	u.dirty.add(e)
}

// RegisterDeleted sobre una entidad nueva la descarta: nunca llegó a persistirse.
func (u *UnitOfWork) RegisterDeleted(e sharedDomain.Entity) {
	if u.rejectLate(e) {
		return
	}
	id := e.Identity()
	if u.new.has(id) {
		u.new.remove(id)
		return
	}
	u.dirty.remove(id)
	u.deleted.add(e)
}

func (u *UnitOfWork) rejectLate(e sharedDomain.Entity) bool {
	if !u.committed {
		return false
	}
	u.late = append(u.late, e.Identity())
	return true
}

// Err informa de registros hechos después del Commit.
func (u *UnitOfWork) Err() error {
	if len(u.late) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d registrations after commit, first %s", ErrUnitOfWorkCommitted, len(u.late), u.late[0])
}

func (u *UnitOfWork) New() []sharedDomain.Entity     { return u.new.list() }
func (u *UnitOfWork) Dirty() []sharedDomain.Entity   { return u.dirty.list() }
func (u *UnitOfWork) Deleted() []sharedDomain.Entity { return u.deleted.list() }

// Tracked devuelve new, dirty y deleted en ese orden.
func (u *UnitOfWork) Tracked() []sharedDomain.Entity {
	out := u.new.list()
	out = append(out, u.dirty.list()...)
	return append(out, u.deleted.list()...)
}

// Commit inserta los nuevos, actualiza los modificados y borra los eliminados dentro de
// la transacción ambiente. El primer fallo aborta el volcado; deshacer es cosa de la transacción.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.committed {
		if err := u.Err(); err != nil {
			return err
		}
		return ErrUnitOfWorkCommitted
	}
	u.committed = true

	steps := []struct {
		op       string
		entities []sharedDomain.Entity
		apply    func(DataMapper, context.Context, sharedDomain.Entity) error
	}{
		{"insert", u.new.list(), DataMapper.Insert},
		{"update", u.dirty.list(), DataMapper.Update},
		{"delete", u.deleted.list(), DataMapper.Delete},
	}

	for _, step := range steps {
		for _, e := range step.entities {
			mapper, err := u.mappers.MapperFor(e)
			if err != nil {
				return err
			}
			if err := step.apply(mapper, ctx, e); err != nil {
				return fmt.Errorf("%s %s: %w", step.op, e.Identity(), err)
			}
		}
	}
	return nil
}
