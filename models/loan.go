package models

import "time"

const LoanTable = "fixture_loans"

// TimeLayout is the on-ledger timestamp format (local time).
const TimeLayout = "2006-01-02 15:04:05"

// LedgerColumns is the canonical persisted column order; stores must keep it
// stable so old ledger files stay readable.
var LedgerColumns = []string{
	"borrow_id", "Article", "Part Number", "System", "Quantity",
	"Client Name", "Client Phone", "Location",
	"Borrowed At", "Returned At",
}

// LoanRecord 借出台账的一行；ReturnedAt 为空表示仍在借出中
type LoanRecord struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"borrowId"`
	Article     string     `gorm:"size:120;index;not null" json:"article"`
	PartNumber  string     `gorm:"size:120" json:"partNumber"`
	System      string     `gorm:"size:60;index;not null" json:"system"`
	Quantity    int        `gorm:"not null" json:"quantity"`
	ClientName  string     `gorm:"size:200;not null" json:"clientName"`
	ClientPhone string     `gorm:"size:60;not null" json:"clientPhone"`
	Location    string     `gorm:"size:120" json:"location"`
	BorrowedAt  time.Time  `gorm:"index;not null" json:"borrowedAt"`
	ReturnedAt  *time.Time `gorm:"index" json:"returnedAt,omitempty"`
}

func (LoanRecord) TableName() string { return LoanTable }

// Open reports whether the loan has not been returned yet.
func (l *LoanRecord) Open() bool { return l.ReturnedAt == nil }
