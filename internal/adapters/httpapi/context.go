package httpapi

import (
	"context"

	"github.com/storeops/route-scheduler-api/internal/domain"
)

type managerKey struct{}

func WithManager(ctx context.Context, id domain.ManagerID) context.Context {
	return context.WithValue(ctx, managerKey{}, id)
}

func ManagerFromContext(ctx context.Context) (domain.ManagerID, bool) {
	v, ok := ctx.Value(managerKey{}).(domain.ManagerID)
	return v, ok && v != ""
}
