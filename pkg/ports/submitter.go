package ports

import (
	"context"

	"github.com/aretw0/intake/pkg/domain"
)

// OrderSubmitter forwards a finalized order to the checkout backend.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, order domain.Order) error
}
