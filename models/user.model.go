package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name         string `gorm:"default:''"`
	Email        string `gorm:"unique;not null"`
	Mobile       string `gorm:"default:''"`
	Role         string `gorm:"default:'USER'"` // USER, ADMIN, SUPER-ADMIN
	Password     string `gorm:"not null"`
	ReferralCode string `gorm:"uniqueIndex;size:12"`
	ReferredBy   *uint  `gorm:"index"` // upline referrer, set once at signup

	// Financial ledger head. Balance must never go negative;
	// PendingDeposit/PendingWithdrawal track in-flight amounts not yet in Balance.
	Balance           float64 `gorm:"default:0"`
	TotalReward       float64 `gorm:"default:0"`
	Payin             float64 `gorm:"default:0"`
	Payout            float64 `gorm:"default:0"`
	PendingDeposit    float64 `gorm:"default:0"`
	PendingWithdrawal float64 `gorm:"default:0"`

	IsEmailVerified     bool `gorm:"default:false"`
	FailedLoginAttempts int  `gorm:"default:0"`
	LastFailedLogin     *time.Time
	IsBlocked           bool `gorm:"default:false"`
	BlockReason         string
	BlockedUntil        *time.Time
	LastLogin           time.Time `gorm:"default:NULL"`
	IsDeleted           bool      `gorm:"default:false"`
	DeletedReason       string
}

// BankAccount is a saved bank payout destination for a user
type BankAccount struct {
	gorm.Model
	UserID            uint   `gorm:"not null;index"`
	BankName          string `gorm:"default:''"`
	AccountNumber     string `gorm:"default:''"`
	IFSCCode          string `gorm:"default:''"`
	AccountHolderName string `gorm:"default:''"`
	IsDeleted         bool   `gorm:"default:false"`
}

// UpiAccount is a saved UPI payout destination for a user
type UpiAccount struct {
	gorm.Model
	UserID    uint   `gorm:"not null;index"`
	UpiID     string `gorm:"not null"`
	IsDeleted bool   `gorm:"default:false"`
}
