package models

import (
	"gorm.io/gorm"
)

// TransactionType defines the type of ledger transaction
type TransactionType string

const (
	TransactionTypeDeposit            TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal         TransactionType = "WITHDRAWAL"
	TransactionTypeSpecialOfferReward TransactionType = "SPECIAL_OFFER_REWARD"
	TransactionTypeReferralReward     TransactionType = "REFERRAL_REWARD"
)

// TransactionStatus defines the status of a ledger transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// Transaction is an append-only ledger entry, one per money movement.
// Its status moves in lockstep with the parent Deposit/Withdrawal; referral
// and bonus rows are created already COMPLETED at fan-out time.
type Transaction struct {
	gorm.Model
	TransactionID string            `gorm:"uniqueIndex;size:64;not null" json:"transactionId"`
	UserID        uint              `gorm:"not null;index" json:"userId"`
	DepositID     string            `gorm:"size:64;index" json:"depositId,omitempty"`
	WithdrawalID  string            `gorm:"size:64;index" json:"withdrawalId,omitempty"`
	Type          TransactionType   `gorm:"type:varchar(30);not null" json:"type"`
	Amount        float64           `gorm:"not null" json:"amount"`
	Fee           float64           `gorm:"not null;default:0" json:"fee"`
	Status        TransactionStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`

	// Unique across the ledger; inserts retry with a fresh hash on conflict.
	TransactionHash string `gorm:"uniqueIndex;size:64;not null" json:"transactionHash"`
	Description     string `gorm:"type:text" json:"description"`
	IsDeleted       bool   `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}
