package data

import (
	"math/rand/v2"
	"strconv"
	"strings"
)

const (
	// DelegateIdLength is the length of every delegate id
	DelegateIdLength int = 9
	// DelegateIdPrefix is the fixed first character of every delegate id
	DelegateIdPrefix byte = 'A'

	delegateIdLetters string = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	delegateIdDigits  string = "0123456789"

	employeeIdMin int = 10000
	employeeIdMax int = 99999
)

// delegateIdCharset returns the characters allowed at position i (i > 0) of
// a delegate id: odd positions are letters, even positions are digits
func delegateIdCharset(i int) string {
	if i%2 == 1 {
		return delegateIdLetters
	}
	return delegateIdDigits
}

// GenerateEmployeeId returns a five digit numeral in [10000, 99999]
func GenerateEmployeeId(r *rand.Rand) string {
	return strconv.Itoa(employeeIdMin + r.IntN(employeeIdMax-employeeIdMin+1))
}

// GenerateDelegateId returns a nine character delegate id: the fixed prefix
// 'A' followed by alternating letters and digits, e.g. AK3Z0B7Q2
func GenerateDelegateId(r *rand.Rand) string {
	delegateId := make([]byte, DelegateIdLength)
	delegateId[0] = DelegateIdPrefix
	for i := 1; i < DelegateIdLength; i++ {
		charset := delegateIdCharset(i)
		delegateId[i] = charset[r.IntN(len(charset))]
	}
	return string(delegateId)
}

func ValidDelegateId(delegateId string) bool {
	if len(delegateId) != DelegateIdLength || delegateId[0] != DelegateIdPrefix {
		return false
	}
	for i := 1; i < DelegateIdLength; i++ {
		if strings.IndexByte(delegateIdCharset(i), delegateId[i]) < 0 {
			return false
		}
	}
	return true
}
