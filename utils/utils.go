package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
)

// GenerateOTP generates a crypto-random 6-digit OTP
func GenerateOTP() string {
	otp := ""
	for i := 0; i < 6; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			// crypto/rand failing means the platform RNG is broken
			panic(err)
		}
		otp += fmt.Sprintf("%d", n.Int64())
	}
	return otp
}

// GenerateTransactionHash returns a 64-char hex token for ledger rows.
// Uniqueness is enforced by the column constraint; callers retry on conflict.
func GenerateTransactionHash() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

const referralAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateReferralCode returns an 8-char code from an unambiguous alphabet
func GenerateReferralCode() string {
	code := make([]byte, 8)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referralAlphabet))))
		if err != nil {
			panic(err)
		}
		code[i] = referralAlphabet[n.Int64()]
	}
	return string(code)
}

// Round2 rounds a monetary value to 2 decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ValidAmount reports whether a computed monetary value is safe to persist.
// NaN or infinite results abort the surrounding operation instead of
// corrupting a balance.
func ValidAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
