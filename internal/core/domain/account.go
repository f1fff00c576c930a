package domain

// PriorityLevel ranks a fee account for allocation purposes.
// Rank is a percentage in [0,100]. Rank 100 means the account must be fully
// paid before any lower-priority account receives funds; lower ranks share
// the remainder proportionally.
type PriorityLevel struct {
	PriorityID string `json:"priorityID"`
	Name       string `json:"name"`
	Rank       int    `json:"rank"`
	AuditFields
}

// Account is a fee category (votehead) that fee particulars belong to,
// e.g. tuition or library. Every account carries at most one priority level;
// accounts without one are ignored by the priority catalog and treated as
// rank 0 during allocation.
type Account struct {
	AccountID    string `json:"accountID"`
	Votehead     string `json:"votehead"`
	Abbreviation string `json:"abbreviation"`
	PriorityID   string `json:"priorityID"` // empty when no priority configured
	AuditFields
}
