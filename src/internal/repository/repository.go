package repository

import (
	"context"

	"wallet-service/src/internal/entity"
)

// AccountRepository persists the account aggregate with its ledger,
// request queues and referral records.
type AccountRepository interface {
	Load(ctx context.Context, id string) (*entity.Account, error)
	// Save writes every account in one database transaction. Existing
	// accounts are written only if their version is unchanged since Load.
	Save(ctx context.Context, accounts ...*entity.Account) error
	FindByReferralCode(ctx context.Context, code string) (*entity.Account, error)
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
	ListPending(ctx context.Context, kind entity.RequestKind) ([]entity.Request, error)
	ListActiveVipIDs(ctx context.Context) ([]string, error)
	List(ctx context.Context, limit, offset int) ([]entity.Account, error)
	Stats(ctx context.Context) (entity.Stats, error)
}
