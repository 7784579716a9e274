package domain

// UnitOfWork registra los agregados tocados durante una petición.
// Los métodos de los agregados la reciben como argumento, nunca la guardan.
type UnitOfWork interface {
	RegisterNew(e Entity)
	RegisterDirty(e Entity)
	RegisterDeleted(e Entity)
}
