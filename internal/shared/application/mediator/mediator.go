// Package mediator enruta peticiones a un único handler y notificaciones a cero o más,
// envolviendo cada despacho en la cadena ordenada de behaviors registrada.
package mediator

import (
	"context"
	"fmt"
)

// Category es la etiqueta explícita que agrupa peticiones para la resolución de behaviors.
type Category string

const (
	CategoryCommand Category = "command"
	CategoryQuery   Category = "query"
	CategoryEvent   Category = "event"
)

// Request es un comando o una consulta.
type Request interface {
	RequestName() string
	Category() Category
}

// Notification es un evento entregado a cero o más handlers.
type Notification interface {
	EventType() string
}

// Next es el siguiente eslabón de la cadena.
type Next func(ctx context.Context, req Request) (any, error)

type RequestHandler interface {
	Handle(ctx context.Context, req Request) (any, error)
}

type RequestHandlerFunc func(ctx context.Context, req Request) (any, error)

func (f RequestHandlerFunc) Handle(ctx context.Context, req Request) (any, error) {
	return f(ctx, req)
}

// Behavior puede inspeccionar la petición, cortar la cadena devolviendo un error,
// o llamar a next y post-procesar su resultado.
type Behavior interface {
	Handle(ctx context.Context, req Request, next Next) (any, error)
}

type BehaviorFunc func(ctx context.Context, req Request, next Next) (any, error)

func (f BehaviorFunc) Handle(ctx context.Context, req Request, next Next) (any, error) {
	return f(ctx, req, next)
}

type NotificationHandler interface {
	Handle(ctx context.Context, n Notification) error
}

type NotificationHandlerFunc func(ctx context.Context, n Notification) error

func (f NotificationHandlerFunc) Handle(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// Sender es lo que necesitan los adaptadores de entrada.
type Sender interface {
	Send(ctx context.Context, req Request) (any, error)
}

// Notifier es lo que necesitan los behaviors que publican eventos.
type Notifier interface {
	Publish(ctx context.Context, n Notification) error
}

// Handle adapta una función tipada a RequestHandler.
func Handle[R Request, T any](fn func(ctx context.Context, req R) (T, error)) RequestHandler {
	return RequestHandlerFunc(func(ctx context.Context, req Request) (any, error) {
		typed, ok := req.(R)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrUnexpectedRequest, req)
		}
		return fn(ctx, typed)
	})
}

// SendAs envía la petición y convierte el resultado al tipo esperado.
func SendAs[T any](ctx context.Context, s Sender, req Request) (T, error) {
	var zero T
	res, err := s.Send(ctx, req)
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}
	out, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s returned %T", ErrUnexpectedResult, req.RequestName(), res)
	}
	return out, nil
}

// notificationRequest permite pasar una notificación por la misma cadena de behaviors.
type notificationRequest struct {
	n Notification
}

func (r notificationRequest) RequestName() string { return r.n.EventType() }
func (r notificationRequest) Category() Category  { return CategoryEvent }

// NotificationOf devuelve la notificación envuelta si req viene de Publish.
func NotificationOf(req Request) (Notification, bool) {
	nr, ok := req.(notificationRequest)
	if !ok {
		return nil, false
	}
	return nr.n, true
}
