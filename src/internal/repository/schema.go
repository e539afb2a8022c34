package repository

import "time"

// Table definitions handed to gorm AutoMigrate at startup. Reads and
// writes go through sqlx; these structs only describe the schema.

type accountTable struct {
	ID                    string     `gorm:"primaryKey;type:char(36)"`
	Username              string     `gorm:"type:varchar(64);not null"`
	Email                 string     `gorm:"type:varchar(191);uniqueIndex;not null"`
	Phone                 string     `gorm:"type:varchar(32);not null;default:''"`
	PasswordHash          string     `gorm:"type:varchar(100);not null"`
	Balance               int64      `gorm:"not null;default:0"`
	VipLevel              int        `gorm:"not null;default:0;index:idx_accounts_vip"`
	VipStartDate          *time.Time `gorm:"index:idx_accounts_vip"`
	LastProfitDate        *time.Time
	TotalEarnings         int64     `gorm:"not null;default:0"`
	ReferralCode          string    `gorm:"type:varchar(16);uniqueIndex;not null"`
	ReferredBy            string    `gorm:"type:varchar(36);not null;default:''"`
	HasUsedInvite         bool      `gorm:"not null;default:false"`
	HasFirstRechargeBonus bool      `gorm:"not null;default:false"`
	ReferralEarnings      int64     `gorm:"not null;default:0"`
	Version               int64     `gorm:"not null;default:1"`
	CreatedAt             time.Time `gorm:"not null"`
	UpdatedAt             time.Time `gorm:"not null"`
}

func (accountTable) TableName() string { return "accounts" }

type transactionTable struct {
	ID        string    `gorm:"primaryKey;type:char(36)"`
	AccountID string    `gorm:"type:char(36);not null;uniqueIndex:idx_transactions_account_seq"`
	Seq       int       `gorm:"not null;uniqueIndex:idx_transactions_account_seq"`
	Kind      string    `gorm:"type:varchar(16);not null"`
	Amount    int64     `gorm:"not null"`
	Status    string    `gorm:"type:varchar(16);not null"`
	Detail    string    `gorm:"type:json"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (transactionTable) TableName() string { return "transactions" }

type requestTable struct {
	ID            string `gorm:"primaryKey;type:char(36)"`
	AccountID     string `gorm:"type:char(36);not null;index"`
	Kind          string `gorm:"type:varchar(16);not null;index:idx_requests_status_kind"`
	Amount        int64  `gorm:"not null"`
	Level         int    `gorm:"not null;default:0"`
	Status        string `gorm:"type:varchar(16);not null;index:idx_requests_status_kind"`
	TransactionID string `gorm:"type:char(36);not null"`
	Detail        string `gorm:"type:json"`
	CreatedAt     time.Time
	ResolvedAt    *time.Time
}

func (requestTable) TableName() string { return "requests" }

type referralTable struct {
	InviterID     string `gorm:"primaryKey;type:char(36)"`
	ReferredID    string `gorm:"primaryKey;type:char(36)"`
	SignupBonus   int64  `gorm:"not null;default:0"`
	RechargeBonus int64  `gorm:"not null;default:0"`
	JoinedAt      time.Time
	LastBonusDate *time.Time
}

func (referralTable) TableName() string { return "referrals" }

// Models lists the tables to migrate.
func Models() []interface{} {
	return []interface{}{
		&accountTable{},
		&transactionTable{},
		&requestTable{},
		&referralTable{},
	}
}
