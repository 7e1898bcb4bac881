package ledger

import "time"

type Direction string

const (
	Credit Direction = "CREDIT"
	Debit  Direction = "DEBIT"
)

func (d Direction) Valid() bool {
	return d == Credit || d == Debit
}

// Signed returns the effect of amount on a family balance.
func (d Direction) Signed(amount int64) int64 {
	if d == Debit {
		return -amount
	}
	return amount
}

type Category string

const (
	CategoryFee     Category = "FEE"
	CategorySalary  Category = "SALARY"
	CategoryExpense Category = "EXPENSE"
	CategoryRefund  Category = "REFUND"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryFee, CategorySalary, CategoryExpense, CategoryRefund:
		return true
	}
	return false
}

func (c Category) RequiresFamily() bool {
	return c == CategoryFee || c == CategoryRefund
}

type Channel string

const (
	ChannelCash         Channel = "CASH"
	ChannelUPI          Channel = "UPI"
	ChannelBankTransfer Channel = "BANK_TRANSFER"
	ChannelCheque       Channel = "CHEQUE"
)

func (c Channel) Valid() bool {
	switch c {
	case ChannelCash, ChannelUPI, ChannelBankTransfer, ChannelCheque:
		return true
	}
	return false
}

const (
	FamilyStatusActive   = "active"
	FamilyStatusInactive = "inactive"
	familyStatusAll      = "all"
)

type Family struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	Phone     string    `gorm:"not null;uniqueIndex"`
	Balance   int64     `gorm:"not null;default:0"`
	Status    string    `gorm:"type:varchar(16);not null;default:active"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type Transaction struct {
	ID            string     `gorm:"type:uuid;primaryKey"`
	Direction     Direction  `gorm:"type:varchar(8);not null"`
	Category      Category   `gorm:"type:varchar(16);not null"`
	Amount        int64      `gorm:"not null"`
	FamilyID      *string    `gorm:"type:uuid;index"`
	StudentID     *string    `gorm:"type:uuid"`
	StaffID       *string    `gorm:"type:text"`
	ExpenseHead   *string    `gorm:"type:text"`
	Description   string     `gorm:"not null;default:''"`
	IsVoid        bool       `gorm:"not null;default:false"`
	VoidedAt      *time.Time `gorm:"type:timestamptz"`
	VoidedBy      *string    `gorm:"type:text"`
	ReceiptNumber *string    `gorm:"type:text"`
	Channel       *Channel   `gorm:"type:varchar(16)"`
	ActorID       *string    `gorm:"type:text"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
}

// SignedAmount is the transaction's current contribution to its family balance.
func (t Transaction) SignedAmount() int64 {
	if t.IsVoid {
		return 0
	}
	return t.Direction.Signed(t.Amount)
}

type RecordInput struct {
	Direction     Direction
	Category      Category
	Amount        int64
	FamilyID      *string
	StudentID     *string
	StaffID       *string
	ExpenseHead   *string
	Description   string
	ReceiptNumber *string
	Channel       *Channel
	ActorID       string
}

// Recorded carries the new family balance when the transaction has a family.
type Recorded struct {
	Transaction Transaction
	Balance     *int64
}

type VoidInput struct {
	TransactionID string
	Reason        string
	ActorID       string
}

type VoidRequest struct {
	TransactionID string
	Reason        string
	ActorID       string
}

type Voided struct {
	Transaction Transaction
	Balance     *int64
}

type PaymentInput struct {
	FamilyID  string
	StudentID *string
	Amount    int64
	Channel   Channel
	ActorID   string
}

type UpdateFamilyInput struct {
	Name  *string
	Phone *string
}

type FamilyFilter struct {
	Status string
	Limit  int
	Offset int
}

type TransactionFilter struct {
	FamilyID    *string
	Category    *Category
	IncludeVoid bool
	Limit       int
	Offset      int
}

// StudentFee is the billing view of an active student.
type StudentFee struct {
	StudentID   string
	ClassName   string
	FeeOverride *int64
}

type Reconciliation struct {
	FamilyID    string
	Balance     int64
	LedgerTotal int64
	Consistent  bool
}
