package repository

import (
	"context"

	"github.com/unimart/settlement/internal/domain/model"
)

// VendorRepository describes persistence of vendor settlement accounts.
type VendorRepository interface {
	Get(ctx context.Context, id string) (*model.VendorAccount, error)
	Upsert(ctx context.Context, account *model.VendorAccount) (*model.VendorAccount, error)
}
