package domain

import (
	"errors"
	"fmt"

	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
)

// Errores de negocio. Cada uno envuelve su categoría de la taxonomía compartida.
var (
	ErrMeetupNotFound           = fmt.Errorf("meetup %w", sharedDomain.ErrNotFound)
	ErrReviewNotFound           = fmt.Errorf("review %w", sharedDomain.ErrNotFound)
	ErrInvalidTimeSlot          = fmt.Errorf("%w: meetup must start before it finishes", sharedDomain.ErrInvalidInput)
	ErrInvalidRating            = fmt.Errorf("%w: rating must be between %d and %d", sharedDomain.ErrInvalidInput, MinRating, MaxRating)
	ErrInvalidStatus            = fmt.Errorf("%w: unknown meetup status", sharedDomain.ErrInvalidInput)
	ErrInvalidModeration        = fmt.Errorf("%w: unknown moderation status", sharedDomain.ErrInvalidInput)
	ErrReviewAlreadyAdded       = fmt.Errorf("%w: reviewer already reviewed this meetup", sharedDomain.ErrConflict)
	ErrMeetupModerationRequired = fmt.Errorf("%w: meetup is not approved", sharedDomain.ErrConflict)
	ErrReviewModerationRequired = fmt.Errorf("%w: only approved reviews can be edited", sharedDomain.ErrConflict)
	ErrReviewOnlyOwnerCanEdit   = fmt.Errorf("%w: only the reviewer can change a review", sharedDomain.ErrPermissionDenied)
)

// IsDomainError indica si err es un error de negocio de este contexto.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrMeetupNotFound, ErrReviewNotFound, ErrInvalidTimeSlot, ErrInvalidRating,
		ErrInvalidStatus, ErrInvalidModeration, ErrReviewAlreadyAdded,
		ErrMeetupModerationRequired, ErrReviewModerationRequired, ErrReviewOnlyOwnerCanEdit,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
