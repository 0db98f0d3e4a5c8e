package models

import (
	"time"

	"gorm.io/gorm"
)

// DepositStatus defines the lifecycle state of a deposit
type DepositStatus string

const (
	DepositStatusPending       DepositStatus = "PENDING"
	DepositStatusUserConfirmed DepositStatus = "USER_CONFIRMED"
	DepositStatusCompleted     DepositStatus = "COMPLETED"
	DepositStatusRejected      DepositStatus = "REJECTED"
)

// Deposit is one user-initiated funding attempt.
// Rate and ReceivedAmountINR are snapshots taken from settings at creation.
type Deposit struct {
	gorm.Model
	DepositID         string  `gorm:"uniqueIndex;size:64;not null" json:"depositId"`
	UserID            uint    `gorm:"not null;index" json:"userId"`
	Amount            float64 `gorm:"not null" json:"amount"`
	Currency          string  `gorm:"size:10;not null" json:"currency"`
	Network           string  `gorm:"size:20;not null" json:"network"`
	Rate              float64 `gorm:"not null" json:"rate"`
	ReceivedAmountINR float64 `gorm:"not null" json:"receivedAmountINR"`
	Reward            float64 `gorm:"default:0" json:"reward"` // flat bonus from a special offer
	WalletAddress     string  `gorm:"size:128" json:"walletAddress"`

	Status               DepositStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	UserTransactionID    string        `gorm:"size:128" json:"userTransactionId"` // chain tx id supplied by the user
	UserConfirmationTime *time.Time    `json:"userConfirmationTime"`
	AdminActionTime      *time.Time    `json:"adminActionTime"`
	RejectionReason      string        `gorm:"type:text" json:"rejectionReason"`
	TransactionHash      string        `gorm:"size:64" json:"transactionHash"`
	IsDeleted            bool          `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Deposit) TableName() string {
	return "deposits"
}
