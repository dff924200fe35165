package storage

// Expense is a row of the expenses table. Timestamps are kept as the text the
// driver hands back; the domain never reads them.
type Expense struct {
	ID          int64
	Title       string
	Category    string
	AmountCents int64
	SpentOn     string
	CreatedAt   string
	UpdatedAt   string
}
