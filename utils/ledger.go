package utils

import (
	"finpay/models"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const hashRetryAttempts = 5

// IsUniqueViolation reports whether err is a unique-constraint failure from
// Postgres or sqlite (tests).
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry")
}

// CreateLedgerTransaction inserts a ledger row, generating the transaction
// hash under the unique column constraint and regenerating on conflict.
func CreateLedgerTransaction(tx *gorm.DB, txn *models.Transaction) error {
	for attempt := 0; attempt < hashRetryAttempts; attempt++ {
		txn.TransactionHash = GenerateTransactionHash()
		err := tx.Create(txn).Error
		if err == nil {
			return nil
		}
		if !IsUniqueViolation(err) {
			return err
		}
		// Collision on the uniqueIndex; a fresh hash next round. A collision
		// on TransactionID means a real duplicate and keeps failing here.
		txn.ID = 0
	}
	return fmt.Errorf("could not generate a unique transaction hash after %d attempts", hashRetryAttempts)
}

// SetLedgerTransactionHash updates an existing ledger row with a fresh unique
// hash and the given status, retrying on hash conflict.
func SetLedgerTransactionHash(tx *gorm.DB, txn *models.Transaction, status models.TransactionStatus) error {
	for attempt := 0; attempt < hashRetryAttempts; attempt++ {
		hash := GenerateTransactionHash()
		err := tx.Model(txn).Updates(map[string]interface{}{
			"transaction_hash": hash,
			"status":           status,
		}).Error
		if err == nil {
			txn.TransactionHash = hash
			txn.Status = status
			return nil
		}
		if !IsUniqueViolation(err) {
			return err
		}
	}
	return fmt.Errorf("could not generate a unique transaction hash after %d attempts", hashRetryAttempts)
}
