package mediator

import (
	"errors"
	"fmt"
)

// Las factorías construyen handlers y behaviors a partir del scope de la petición
// (transacción, unidad de trabajo, repositorios).
type (
	HandlerFactory[S any]             func(scope S) RequestHandler
	BehaviorFactory[S any]            func(scope S) Behavior
	NotificationHandlerFactory[S any] func(scope S) NotificationHandler
)

type notificationBinding[S any] struct {
	build    NotificationHandlerFactory[S]
	isolated bool
}

// NotificationOption configura un handler de notificación al registrarlo.
type NotificationOption func(*notificationOptions)

type notificationOptions struct {
	isolated bool
}

// Isolated hace que un fallo del handler no impida despachar a los demás.
// Por defecto un fallo aborta el despacho restante.
func Isolated() NotificationOption {
	return func(o *notificationOptions) { o.isolated = true }
}

// Builder acumula el registro. Build devuelve una configuración inmutable.
type Builder[S any] struct {
	handlers              map[string]HandlerFactory[S]
	categoryBehaviors     map[Category][]BehaviorFactory[S]
	requestBehaviors      map[string][]BehaviorFactory[S]
	categoryNotifications []notificationBinding[S]
	notifications         map[string][]notificationBinding[S]
	errs                  []error
}

func NewBuilder[S any]() *Builder[S] {
	return &Builder[S]{
		handlers:          make(map[string]HandlerFactory[S]),
		categoryBehaviors: make(map[Category][]BehaviorFactory[S]),
		requestBehaviors:  make(map[string][]BehaviorFactory[S]),
		notifications:     make(map[string][]notificationBinding[S]),
	}
}

func (b *Builder[S]) AddRequestHandler(name string, f HandlerFactory[S]) *Builder[S] {
	if _, ok := b.handlers[name]; ok {
		b.errs = append(b.errs, fmt.Errorf("%w: %s", ErrDuplicateHandler, name))
		return b
	}
	b.handlers[name] = f
	return b
}

// AddCategoryBehaviors registra behaviors para toda una categoría. Se ejecutan antes
// que los de tipo concreto, en el orden de registro.
func (b *Builder[S]) AddCategoryBehaviors(c Category, fs ...BehaviorFactory[S]) *Builder[S] {
	b.categoryBehaviors[c] = append(b.categoryBehaviors[c], fs...)
	return b
}

// AddRequestBehaviors registra behaviors para un tipo concreto de petición o de evento.
func (b *Builder[S]) AddRequestBehaviors(name string, fs ...BehaviorFactory[S]) *Builder[S] {
	b.requestBehaviors[name] = append(b.requestBehaviors[name], fs...)
	return b
}

// AddEventHandler registra un handler para un tipo concreto de evento.
func (b *Builder[S]) AddEventHandler(eventType string, f NotificationHandlerFactory[S], opts ...NotificationOption) *Builder[S] {
	b.notifications[eventType] = append(b.notifications[eventType], newBinding(f, opts))
	return b
}

// AddCategoryEventHandler registra un handler para todos los eventos de dominio.
func (b *Builder[S]) AddCategoryEventHandler(f NotificationHandlerFactory[S], opts ...NotificationOption) *Builder[S] {
	b.categoryNotifications = append(b.categoryNotifications, newBinding(f, opts))
	return b
}

func newBinding[S any](f NotificationHandlerFactory[S], opts []NotificationOption) notificationBinding[S] {
	var o notificationOptions
	for _, opt := range opts {
		opt(&o)
	}
	return notificationBinding[S]{build: f, isolated: o.isolated}
}

func (b *Builder[S]) Build() (*Registry[S], error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	r := &Registry[S]{
		handlers:              make(map[string]HandlerFactory[S], len(b.handlers)),
		categoryBehaviors:     make(map[Category][]BehaviorFactory[S], len(b.categoryBehaviors)),
		requestBehaviors:      make(map[string][]BehaviorFactory[S], len(b.requestBehaviors)),
		categoryNotifications: append([]notificationBinding[S](nil), b.categoryNotifications...),
		notifications:         make(map[string][]notificationBinding[S], len(b.notifications)),
	}
	for k, v := range b.handlers {
		r.handlers[k] = v
	}
	for k, v := range b.categoryBehaviors {
		r.categoryBehaviors[k] = append([]BehaviorFactory[S](nil), v...)
	}
	for k, v := range b.requestBehaviors {
		r.requestBehaviors[k] = append([]BehaviorFactory[S](nil), v...)
	}
	for k, v := range b.notifications {
		r.notifications[k] = append([]notificationBinding[S](nil), v...)
	}
	return r, nil
}

// Registry es la tabla estática tipo → handler/behaviors. No se modifica tras Build.
type Registry[S any] struct {
	handlers              map[string]HandlerFactory[S]
	categoryBehaviors     map[Category][]BehaviorFactory[S]
	requestBehaviors      map[string][]BehaviorFactory[S]
	categoryNotifications []notificationBinding[S]
	notifications         map[string][]notificationBinding[S]
}

// behaviorsFor concatena los de la categoría y después los del tipo concreto.
func (r *Registry[S]) behaviorsFor(req Request) []BehaviorFactory[S] {
	cat := r.categoryBehaviors[req.Category()]
	exact := r.requestBehaviors[req.RequestName()]
	out := make([]BehaviorFactory[S], 0, len(cat)+len(exact))
	out = append(out, cat...)
	return append(out, exact...)
}

func (r *Registry[S]) notificationHandlersFor(eventType string) []notificationBinding[S] {
	exact := r.notifications[eventType]
	out := make([]notificationBinding[S], 0, len(r.categoryNotifications)+len(exact))
	out = append(out, r.categoryNotifications...)
	return append(out, exact...)
}
