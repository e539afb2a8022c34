package model

type SettleRequest struct {
	AccountID string `json:"-" validate:"required,max=36"`
}

type SettleResponse struct {
	Account        *AccountResponse `json:"account"`
	CycleCompleted bool             `json:"cycleCompleted"`
	ProfitPosted   bool             `json:"profitPosted"`
	Amount         int64            `json:"amount,omitempty"`
	DayIndex       int              `json:"dayIndex,omitempty"`
}

// SweepResponse summarises one pass of the daily settle task.
type SweepResponse struct {
	Scanned        int `json:"scanned"`
	ProfitPosted   int `json:"profitPosted"`
	CycleCompleted int `json:"cycleCompleted"`
	Failed         int `json:"failed"`
}
