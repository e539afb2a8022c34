package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wallet-service/src/internal/entity"
	"wallet-service/src/pkg/databases/mysql"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// ErrDuplicate wraps unique key violations on insert.
var ErrDuplicate = errors.New("duplicate entry")

const (
	accountColumns = `id, username, email, phone, password_hash, balance, vip_level, vip_start_date,
		last_profit_date, total_earnings, referral_code, referred_by, has_used_invite,
		has_first_recharge_bonus, referral_earnings, version, created_at, updated_at`
	transactionColumns = `id, account_id, seq, kind, amount, status, detail, created_at, updated_at`
	requestColumns     = `id, account_id, kind, amount, level, status, transaction_id, detail, created_at, resolved_at`
	referralColumns    = `inviter_id, referred_id, signup_bonus, recharge_bonus, joined_at, last_bonus_date`
)

type MysqlAccountRepository struct {
	DB mysql.DBInterface
}

func NewAccountRepository(db mysql.DBInterface) *MysqlAccountRepository {
	return &MysqlAccountRepository{
		DB: db,
	}
}

func (r *MysqlAccountRepository) Load(ctx context.Context, id string) (*entity.Account, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var account entity.Account
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`
	if err := db.GetContext(ctx, &account, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.NewNotFoundError("account %s not found", id)
		}
		return nil, err
	}

	if err := r.loadChildren(ctx, db, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *MysqlAccountRepository) loadChildren(ctx context.Context, db *sqlx.DB, account *entity.Account) error {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE account_id = ? ORDER BY seq`
	if err := db.SelectContext(ctx, &account.Ledger, query, account.ID); err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	var requests []entity.Request
	query = `SELECT ` + requestColumns + ` FROM requests WHERE account_id = ? ORDER BY created_at, id`
	if err := db.SelectContext(ctx, &requests, query, account.ID); err != nil {
		return fmt.Errorf("load requests: %w", err)
	}
	for _, req := range requests {
		queue := account.Requests(req.Kind)
		if queue == nil {
			return entity.NewInvariantError("request %s has unknown kind %q", req.ID, req.Kind)
		}
		*queue = append(*queue, req)
	}

	query = `SELECT ` + referralColumns + ` FROM referrals WHERE inviter_id = ? ORDER BY joined_at`
	if err := db.SelectContext(ctx, &account.Referrals, query, account.ID); err != nil {
		return fmt.Errorf("load referrals: %w", err)
	}
	return nil
}

func (r *MysqlAccountRepository) findID(ctx context.Context, column, value string) (string, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return "", err
	}
	var id string
	query := fmt.Sprintf(`SELECT id FROM accounts WHERE %s = ?`, column)
	if err := db.GetContext(ctx, &id, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", entity.NewNotFoundError("no account with %s %q", column, value)
		}
		return "", err
	}
	return id, nil
}

func (r *MysqlAccountRepository) FindByReferralCode(ctx context.Context, code string) (*entity.Account, error) {
	id, err := r.findID(ctx, "referral_code", code)
	if err != nil {
		return nil, err
	}
	return r.Load(ctx, id)
}

func (r *MysqlAccountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	id, err := r.findID(ctx, "email", email)
	if err != nil {
		return nil, err
	}
	return r.Load(ctx, id)
}

func (r *MysqlAccountRepository) Save(ctx context.Context, accounts ...*entity.Account) (err error) {
	if len(accounts) == 0 {
		return nil
	}
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, account := range accounts {
		if err = saveAccount(ctx, tx, account); err != nil {
			return err
		}
		for _, t := range account.ChangedTransactions() {
			if err = upsertTransaction(ctx, tx, t); err != nil {
				return err
			}
		}
		for _, req := range account.ChangedRequests() {
			if err = upsertRequest(ctx, tx, req); err != nil {
				return err
			}
		}
		for _, ref := range account.ChangedReferrals() {
			if err = upsertReferral(ctx, tx, ref); err != nil {
				return err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	for _, account := range accounts {
		account.Version++
		account.ClearChanges()
	}
	return nil
}

func saveAccount(ctx context.Context, tx *sqlx.Tx, a *entity.Account) error {
	if a.IsNew() {
		_, err := tx.ExecContext(ctx, `INSERT INTO accounts (`+accountColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.Username, a.Email, a.Phone, a.PasswordHash, a.Balance, a.VipLevel, a.VipStartDate,
			a.LastProfitDate, a.TotalEarnings, a.ReferralCode, a.ReferredBy, a.HasUsedInvite,
			a.HasFirstRechargeBonus, a.ReferralEarnings, 1, a.CreatedAt, a.UpdatedAt,
		)
		if isDuplicate(err) {
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return err
	}

	res, err := tx.ExecContext(ctx, `UPDATE accounts SET
			username = ?, email = ?, phone = ?, password_hash = ?, balance = ?, vip_level = ?,
			vip_start_date = ?, last_profit_date = ?, total_earnings = ?, referred_by = ?,
			has_used_invite = ?, has_first_recharge_bonus = ?, referral_earnings = ?,
			version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		a.Username, a.Email, a.Phone, a.PasswordHash, a.Balance, a.VipLevel,
		a.VipStartDate, a.LastProfitDate, a.TotalEarnings, a.ReferredBy,
		a.HasUsedInvite, a.HasFirstRechargeBonus, a.ReferralEarnings,
		a.UpdatedAt, a.ID, a.Version,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.NewConcurrencyConflictError("account %s changed since version %d", a.ID, a.Version)
	}
	return nil
}

func upsertTransaction(ctx context.Context, tx *sqlx.Tx, t entity.Transaction) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE status = VALUES(status), updated_at = VALUES(updated_at)`,
		t.ID, t.AccountID, t.Seq, t.Kind, t.Amount, t.Status, t.Detail, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

func upsertRequest(ctx context.Context, tx *sqlx.Tx, req entity.Request) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO requests (`+requestColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE status = VALUES(status), resolved_at = VALUES(resolved_at)`,
		req.ID, req.AccountID, req.Kind, req.Amount, req.Level, req.Status, req.TransactionID,
		req.Detail, req.CreatedAt, req.ResolvedAt,
	)
	return err
}

func upsertReferral(ctx context.Context, tx *sqlx.Tx, ref entity.ReferralRecord) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO referrals (`+referralColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE signup_bonus = VALUES(signup_bonus),
			recharge_bonus = VALUES(recharge_bonus), last_bonus_date = VALUES(last_bonus_date)`,
		ref.InviterID, ref.ReferredID, ref.SignupBonus, ref.RechargeBonus, ref.JoinedAt, ref.LastBonusDate,
	)
	return err
}

func (r *MysqlAccountRepository) ListPending(ctx context.Context, kind entity.RequestKind) ([]entity.Request, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + requestColumns + ` FROM requests WHERE status = ?`
	args := []interface{}{entity.RequestPending}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at, id`

	requests := []entity.Request{}
	if err := db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *MysqlAccountRepository) ListActiveVipIDs(ctx context.Context) ([]string, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}
	ids := []string{}
	query := `SELECT id FROM accounts WHERE vip_level > 0 AND vip_start_date IS NOT NULL ORDER BY id`
	if err := db.SelectContext(ctx, &ids, query); err != nil {
		return nil, err
	}
	return ids, nil
}

// List returns account rows only; ledgers and queues are not loaded.
func (r *MysqlAccountRepository) List(ctx context.Context, limit, offset int) ([]entity.Account, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}
	accounts := []entity.Account{}
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	if err := db.SelectContext(ctx, &accounts, query, limit, offset); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *MysqlAccountRepository) Stats(ctx context.Context) (entity.Stats, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return entity.Stats{}, err
	}

	var stats entity.Stats
	query := `
		SELECT
			(SELECT COUNT(*) FROM accounts) AS accounts,
			(SELECT COUNT(*) FROM accounts WHERE vip_level > 0) AS active_vip,
			(SELECT COALESCE(SUM(balance), 0) FROM accounts) AS total_balance,
			(SELECT COUNT(*) FROM requests WHERE status = 'pending' AND kind = 'recharge') AS pending_recharge,
			(SELECT COUNT(*) FROM requests WHERE status = 'pending' AND kind = 'withdrawal') AS pending_withdrawal,
			(SELECT COUNT(*) FROM requests WHERE status = 'pending' AND kind = 'vip') AS pending_vip
	`
	if err := db.GetContext(ctx, &stats, query); err != nil {
		return entity.Stats{}, err
	}
	return stats, nil
}

func isDuplicate(err error) bool {
	var me *mysqlDriver.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
