package entity

// Stats are the admin dashboard counters.
type Stats struct {
	Accounts          int64 `json:"accounts" db:"accounts"`
	ActiveVip         int64 `json:"activeVip" db:"active_vip"`
	TotalBalance      int64 `json:"totalBalance" db:"total_balance"`
	PendingRecharge   int64 `json:"pendingRecharge" db:"pending_recharge"`
	PendingWithdrawal int64 `json:"pendingWithdrawal" db:"pending_withdrawal"`
	PendingVip        int64 `json:"pendingVip" db:"pending_vip"`
}

// Pending is the total number of requests awaiting review.
func (s Stats) Pending() int64 {
	return s.PendingRecharge + s.PendingWithdrawal + s.PendingVip
}
