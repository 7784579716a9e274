package mediator

import (
	"context"
	"errors"
	"fmt"
)

// Dispatcher resuelve handlers y behaviors del registro contra un scope concreto.
// Se crea uno por petición: el scope no se comparte entre peticiones concurrentes.
type Dispatcher[S any] struct {
	registry *Registry[S]
	scope    S
}

func NewDispatcher[S any](registry *Registry[S], scope S) *Dispatcher[S] {
	return &Dispatcher[S]{registry: registry, scope: scope}
}

var (
	_ Sender   = (*Dispatcher[struct{}])(nil)
	_ Notifier = (*Dispatcher[struct{}])(nil)
)

// Send despacha la petición a su único handler a través de la cadena de behaviors.
func (d *Dispatcher[S]) Send(ctx context.Context, req Request) (any, error) {
	factory, ok := d.registry.handlers[req.RequestName()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHandlerNotRegistered, req.RequestName())
	}
	handler := factory(d.scope)
	return d.chain(req, handler.Handle)(ctx, req)
}

// Publish entrega la notificación a todos sus handlers. Un fallo aborta el resto salvo
// que el handler se registrara como aislado; los errores aislados se devuelven unidos al final.
func (d *Dispatcher[S]) Publish(ctx context.Context, n Notification) error {
	bindings := d.registry.notificationHandlersFor(n.EventType())

	terminal := func(ctx context.Context, _ Request) (any, error) {
		var isolated []error
		for _, b := range bindings {
			if err := b.build(d.scope).Handle(ctx, n); err != nil {
				if b.isolated {
					isolated = append(isolated, err)
					continue
				}
				return nil, fmt.Errorf("notification %s: %w", n.EventType(), err)
			}
		}
		return nil, errors.Join(isolated...)
	}

	req := notificationRequest{n: n}
	_, err := d.chain(req, terminal)(ctx, req)
	return err
}

// chain compone los behaviors de fuera hacia dentro; el último eslabón es terminal.
func (d *Dispatcher[S]) chain(req Request, terminal Next) Next {
	factories := d.registry.behaviorsFor(req)
	next := terminal
	for i := len(factories) - 1; i >= 0; i-- {
		behavior := factories[i](d.scope)
		inner := next
		next = func(ctx context.Context, req Request) (any, error) {
			return behavior.Handle(ctx, req, inner)
		}
	}
	return next
}
