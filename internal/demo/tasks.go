// Package demo holds the example workloads shipped with the turbit command.
// Every task is registered at init, so any binary importing this package can
// serve them as a worker.
package demo

import (
	"context"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/utkarsh5026/turbit/pool"
)

const (
	greeting        = "Hello, humans and intelligent machines!"
	passwordChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*()_+-=[]{}|;':\",.<>/?"
	passwordLength  = 22
	specialChars    = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?"
	minStrongLength = 8
)

var (
	positiveWords = []string{"good", "excellent", "perfect", "cool"}
	negativeWords = []string{"bad", "terrible", "horrible"}
)

var (
	// RandomNumber returns a number in [0, 100) from each worker.
	RandomNumber = pool.DefineSimple("demo.random-number", func(context.Context) (int, error) {
		return rand.IntN(100), nil // #nosec G404 -- demo output
	})

	// Greeting returns the same message from each worker.
	Greeting = pool.DefineSimple("demo.greeting", func(context.Context) (string, error) {
		return greeting, nil
	})

	// NewPassword returns a random 22 character password from each worker.
	NewPassword = pool.DefineSimple("demo.password", func(context.Context) (string, error) {
		return GeneratePassword(), nil
	})

	// Uppercase upper-cases every text.
	Uppercase = pool.DefineExtended("demo.uppercase", func(_ context.Context, chunk []string, _ pool.Args) ([]string, error) {
		out := make([]string, len(chunk))
		for i, s := range chunk {
			out[i] = strings.ToUpper(s)
		}
		return out, nil
	})

	// Sentiment labels each chunk of reviews as a whole, so the output has one
	// label per worker rather than one per review.
	Sentiment = pool.DefineExtended("demo.sentiment", func(_ context.Context, chunk []string, _ pool.Args) ([]string, error) {
		return []string{AnalyzeSentiment(chunk)}, nil
	})

	// PasswordStrength checks every password.
	PasswordStrength = pool.DefineExtended("demo.password-strength", func(_ context.Context, chunk []string, _ pool.Args) ([]PasswordCheck, error) {
		out := make([]PasswordCheck, len(chunk))
		for i, p := range chunk {
			out[i] = CheckStrength(p)
		}
		return out, nil
	})

	// TransactionRisk scores every transaction against the RiskConfig passed
	// as the riskThreshold, unusualHourStart and unusualHourEnd arguments.
	TransactionRisk = pool.DefineExtended("demo.transaction-risk", func(_ context.Context, chunk []Transaction, args pool.Args) ([]RiskAssessment, error) {
		cfg, err := riskConfigFromArgs(args)
		if err != nil {
			return nil, err
		}
		out := make([]RiskAssessment, len(chunk))
		for i, tx := range chunk {
			out[i] = AnalyzeRisk(tx, cfg)
		}
		return out, nil
	})

	// SortNumbers generates and sorts a slice of random numbers for every
	// requested size. It is the speed test workload.
	SortNumbers = pool.DefineExtended("demo.sort-numbers", func(_ context.Context, sizes []int, _ pool.Args) ([]SortSummary, error) {
		out := make([]SortSummary, len(sizes))
		for i, n := range sizes {
			out[i] = GenerateAndSort(n)
		}
		return out, nil
	})
)

// GeneratePassword returns a random password drawn from a fixed alphabet of
// letters, digits and symbols.
func GeneratePassword() string {
	var b strings.Builder
	b.Grow(passwordLength)
	for range passwordLength {
		b.WriteByte(passwordChars[rand.IntN(len(passwordChars))]) // #nosec G404 -- demo data
	}
	return b.String()
}

// AnalyzeSentiment scores a group of reviews by counting, per review, the
// positive and negative words it contains. Matching is case-sensitive.
func AnalyzeSentiment(reviews []string) string {
	score := 0
	for _, review := range reviews {
		for _, w := range positiveWords {
			if strings.Contains(review, w) {
				score++
			}
		}
		for _, w := range negativeWords {
			if strings.Contains(review, w) {
				score--
			}
		}
	}

	switch {
	case score > 0:
		return "Positive"
	case score < 0:
		return "Negative"
	default:
		return "Neutral"
	}
}

// PasswordCheck is the verdict on one password.
type PasswordCheck struct {
	Password string `json:"password"`
	IsStrong bool   `json:"isStrong"`
}

// CheckStrength reports a password as strong when it has at least 8
// characters with an upper-case letter, a lower-case letter, a digit and a
// symbol.
func CheckStrength(password string) PasswordCheck {
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(specialChars, r):
			special = true
		}
	}

	return PasswordCheck{
		Password: password,
		IsStrong: len(password) >= minStrongLength && upper && lower && digit && special,
	}
}

// SortSummary describes one generated and sorted slice without shipping it
// back to the caller.
type SortSummary struct {
	Size int     `json:"size"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// GenerateAndSort fills a slice with n random numbers and sorts it.
func GenerateAndSort(n int) SortSummary {
	if n <= 0 {
		return SortSummary{}
	}

	nums := make([]float64, n)
	for i := range nums {
		nums[i] = rand.Float64() // #nosec G404 -- benchmark data
	}
	slices.Sort(nums)

	return SortSummary{Size: n, Min: nums[0], Max: nums[n-1]}
}
