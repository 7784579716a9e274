package behaviors

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/davicafu/meetups/internal/shared/application/mediator"
	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
)

// Validation aplica las etiquetas `validate` de la petición.
type Validation struct {
	validate *validator.Validate
}

func NewValidation(v *validator.Validate) *Validation {
	return &Validation{validate: v}
}

func (b *Validation) Handle(ctx context.Context, req mediator.Request, next mediator.Next) (any, error) {
	if err := b.validate.StructCtx(ctx, req); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			// no es un struct: nada que validar
			return next(ctx, req)
		}
		return nil, fmt.Errorf("%w: %s", sharedDomain.ErrInvalidInput, err.Error())
	}
	return next(ctx, req)
}
