package booking

// Status 预订状态
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusCheckedIn  Status = "CHECKED_IN"
	StatusCheckedOut Status = "CHECKED_OUT"
	StatusCancelled  Status = "CANCELLED"
	StatusNoShow     Status = "NO_SHOW"
)

// transitions 合法流转表，未列出的目标一律非法
// CHECKED_OUT、CANCELLED、NO_SHOW是终态
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusCheckedIn, StatusCancelled, StatusNoShow},
	StatusCheckedIn:  {StatusCheckedOut},
	StatusCheckedOut: {},
	StatusCancelled:  {},
	StatusNoShow:     {},
}

// IsValid 是否为已知状态
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal 是否终态
func (s Status) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo 是否允许从s流转到target
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// AllStatuses 全部状态，按生命周期排列
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusConfirmed,
		StatusCheckedIn,
		StatusCheckedOut,
		StatusCancelled,
		StatusNoShow,
	}
}

// PaymentStatus 支付状态，只记录不校验
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)
