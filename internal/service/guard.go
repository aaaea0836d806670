package service

import (
	"context"

	apperrors "github.com/folio-labs/portfolio-server/internal/errors"
	"github.com/folio-labs/portfolio-server/internal/model"
	"github.com/folio-labs/portfolio-server/internal/session"
)

// ReadPolicy decides which content kinds can be read without a session.
// Posts are always public; mutations always need a session.
type ReadPolicy struct {
	PublicReviews bool
	PublicMedia   bool
}

func (p ReadPolicy) IsPublic(kind model.ContentKind) bool {
	switch kind {
	case model.ContentPosts:
		return true
	case model.ContentReviews:
		return p.PublicReviews
	case model.ContentMedia:
		return p.PublicMedia
	default:
		return false
	}
}

func (p ReadPolicy) authorizeRead(ctx context.Context, kind model.ContentKind) error {
	if p.IsPublic(kind) {
		return nil
	}
	_, err := requireAdmin(ctx)
	return err
}

// requireAdmin returns the verified session claims placed on ctx by the
// session middleware. It must run before any repository call.
func requireAdmin(ctx context.Context) (*session.Claims, error) {
	claims, ok := session.FromContext(ctx)
	if !ok {
		return nil, apperrors.Unauthorized("Unauthorized")
	}
	return claims, nil
}
