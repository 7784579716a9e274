package cache

import (
	"context"
)

// Cache es un almacén clave-valor con caducidad. Los consumidores la usan para
// recordar qué mensajes ya procesaron.
type Cache interface {
	// Get rellena dest (un puntero) y devuelve true si la clave existe y no ha caducado.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set guarda val como JSON. Con ttlSecs <= 0 se usa el TTL por defecto de la implementación.
	Set(ctx context.Context, key string, val interface{}, ttlSecs int) error

	Delete(ctx context.Context, key string) error
}
