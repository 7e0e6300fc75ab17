package service

import (
	"math/rand"
	"strconv"
)

// checkDigitWeights cycle across the account number digits from left
// to right.
var checkDigitWeights = []int{2, 3, 4, 5, 6, 7}

// CalculateCheckDigit computes the verification digit of an account
// number: the weighted digit sum modulo 11 is subtracted from 11, with
// 10 mapped to "X" and 11 mapped to "0". Existing fixtures depend on
// this exact mapping.
func CalculateCheckDigit(accountNumber string) string {
	sum := 0
	for i, r := range accountNumber {
		sum += int(r-'0') * checkDigitWeights[i%len(checkDigitWeights)]
	}

	digit := 11 - sum%11
	switch digit {
	case 10:
		return "X"
	case 11:
		return "0"
	default:
		return strconv.Itoa(digit)
	}
}

// randomAccountNumbers draws a fresh agency/number candidate. The
// (agency, number) pair is only known to be unique once the insert
// succeeds, so callers retry on unique-constraint violations.
func randomAccountNumbers() (agency, number string) {
	agency = strconv.Itoa(1000 + rand.Intn(9000))
	number = strconv.Itoa(100000 + rand.Intn(900000))
	return agency, number
}
