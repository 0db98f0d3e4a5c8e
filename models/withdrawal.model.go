package models

import (
	"time"

	"gorm.io/gorm"
)

// WithdrawalStatus defines the lifecycle state of a withdrawal
type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "PENDING"
	WithdrawalStatusCompleted WithdrawalStatus = "COMPLETED"
	WithdrawalStatusRejected  WithdrawalStatus = "REJECTED"
)

// WithdrawalMethod is the payout channel chosen by the user
type WithdrawalMethod string

const (
	WithdrawalMethodBank WithdrawalMethod = "BANK"
	WithdrawalMethodUPI  WithdrawalMethod = "UPI"
)

// Withdrawal is one user-initiated payout request. The amount is reserved
// in User.PendingWithdrawal at creation; Balance is only debited on approval.
type Withdrawal struct {
	gorm.Model
	WithdrawalID string  `gorm:"uniqueIndex;size:64;not null" json:"withdrawalId"`
	UserID       uint    `gorm:"not null;index" json:"userId"`
	Amount       float64 `gorm:"not null" json:"amount"`
	Fee          float64 `gorm:"not null;default:0" json:"fee"`
	PaidAmount   float64 `gorm:"not null" json:"paidAmount"` // amount - fee

	Method WithdrawalMethod `gorm:"type:varchar(10);not null" json:"withdrawalMethod"`

	// Bank details (Method = BANK)
	BankName          string `gorm:"default:''" json:"bankName,omitempty"`
	AccountNumber     string `gorm:"default:''" json:"accountNumber,omitempty"`
	IFSCCode          string `gorm:"default:''" json:"ifscCode,omitempty"`
	AccountHolderName string `gorm:"default:''" json:"accountHolderName,omitempty"`

	// UPI details (Method = UPI)
	UpiID string `gorm:"default:''" json:"upiId,omitempty"`

	Status          WithdrawalStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	TransactionID   string           `gorm:"size:64" json:"transactionId"` // linked ledger Transaction
	ProcessedBy     uint             `gorm:"default:0" json:"processedBy"` // admin user id
	ProcessedAt     *time.Time       `json:"processedAt"`
	UTRNumber       string           `gorm:"size:64" json:"utrNumber"` // bank settlement reference
	RejectionReason string           `gorm:"type:text" json:"rejectionReason"`
	IsDeleted       bool             `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
