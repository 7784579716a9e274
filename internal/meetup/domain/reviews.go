package domain

import "github.com/google/uuid"

// Reviews es la colección de reseñas cargada con el meetup.
type Reviews []*Review

func (rs Reviews) Find(id uuid.UUID) (*Review, bool) {
	for _, r := range rs {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

func (rs Reviews) ByReviewer(reviewerID uuid.UUID) (*Review, bool) {
	for _, r := range rs {
		if r.ReviewerID == reviewerID {
			return r, true
		}
	}
	return nil, false
}

func (rs Reviews) without(id uuid.UUID) Reviews {
	out := make(Reviews, 0, len(rs))
	for _, r := range rs {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}
