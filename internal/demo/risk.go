package demo

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/utkarsh5026/turbit/pool"
)

// Transaction is one simulated payment.
type Transaction struct {
	ID     int     `json:"id"`
	Amount float64 `json:"amount"`
	Hour   int     `json:"hour"`
}

// RiskAssessment is a transaction with the risk factors it matched.
type RiskAssessment struct {
	Transaction
	Risk        int      `json:"risk"`
	RiskFactors []string `json:"riskFactors"`
	Suspicious  bool     `json:"suspicious"`
}

// RiskConfig holds the simulation size and the risk rules. Hours in
// [UnusualHourStart, 24) and [0, UnusualHourEnd) are unusual.
type RiskConfig struct {
	TransactionCount int     `json:"transactionCount"`
	MaxAmount        float64 `json:"maxAmount"`
	RiskThreshold    float64 `json:"riskThreshold"`
	UnusualHourStart int     `json:"unusualHourStart"`
	UnusualHourEnd   int     `json:"unusualHourEnd"`
}

// DefaultRiskConfig returns the rules of the risk analysis demo.
func DefaultRiskConfig() RiskConfig {
	return RiskConfig{
		TransactionCount: 200_000,
		MaxAmount:        1_000_000,
		RiskThreshold:    500_000,
		UnusualHourStart: 23,
		UnusualHourEnd:   5,
	}
}

// Args returns the extra arguments TransactionRisk expects.
func (c RiskConfig) Args() map[string]any {
	return map[string]any{
		"riskThreshold":    c.RiskThreshold,
		"unusualHourStart": c.UnusualHourStart,
		"unusualHourEnd":   c.UnusualHourEnd,
	}
}

func riskConfigFromArgs(args pool.Args) (RiskConfig, error) {
	var cfg RiskConfig
	for key, target := range map[string]any{
		"riskThreshold":    &cfg.RiskThreshold,
		"unusualHourStart": &cfg.UnusualHourStart,
		"unusualHourEnd":   &cfg.UnusualHourEnd,
	} {
		if err := args.Decode(key, target); err != nil {
			return RiskConfig{}, err
		}
	}
	return cfg, nil
}

// GenerateTransactions returns n transactions with random amounts below
// maxAmount and random hours, numbered from 1.
func GenerateTransactions(n int, maxAmount float64) []Transaction {
	txs := make([]Transaction, n)
	for i := range txs {
		txs[i] = Transaction{
			ID:     i + 1,
			Amount: rand.Float64() * maxAmount, // #nosec G404 -- simulated data
			Hour:   rand.IntN(24),              // #nosec G404 -- simulated data
		}
	}
	return txs
}

// AnalyzeRisk applies the high amount and unusual hour rules to tx.
func AnalyzeRisk(tx Transaction, cfg RiskConfig) RiskAssessment {
	a := RiskAssessment{Transaction: tx, RiskFactors: []string{}}
	if tx.Amount > cfg.RiskThreshold {
		a.Risk++
		a.RiskFactors = append(a.RiskFactors, "High amount")
	}
	if tx.Hour >= cfg.UnusualHourStart || tx.Hour < cfg.UnusualHourEnd {
		a.Risk++
		a.RiskFactors = append(a.RiskFactors, "Unusual hour")
	}
	a.Suspicious = a.Risk > 0
	return a
}

// RiskReport summarizes a completed risk analysis.
type RiskReport struct {
	TotalTransactions      int              `json:"totalTransactions"`
	TotalAmount            string           `json:"totalAmount"`
	SuspiciousTransactions int              `json:"suspiciousTransactions"`
	SuspiciousAmount       string           `json:"suspiciousAmount"`
	RiskThreshold          float64          `json:"riskThreshold"`
	UnusualHours           string           `json:"unusualHours"`
	TopSuspicious          []RiskAssessment `json:"top10SuspiciousTransactions"`
}

// Summarize totals the assessments and picks the ten most suspicious ones,
// ordered by risk and then amount.
func Summarize(assessments []RiskAssessment, cfg RiskConfig) RiskReport {
	var total, suspiciousTotal float64
	var suspicious []RiskAssessment
	for _, a := range assessments {
		total += a.Amount
		if a.Suspicious {
			suspicious = append(suspicious, a)
			suspiciousTotal += a.Amount
		}
	}

	slices.SortFunc(suspicious, func(a, b RiskAssessment) int {
		if c := cmp.Compare(b.Risk, a.Risk); c != 0 {
			return c
		}
		return cmp.Compare(b.Amount, a.Amount)
	})

	return RiskReport{
		TotalTransactions:      len(assessments),
		TotalAmount:            fmt.Sprintf("%.2f", total),
		SuspiciousTransactions: len(suspicious),
		SuspiciousAmount:       fmt.Sprintf("%.2f", suspiciousTotal),
		RiskThreshold:          cfg.RiskThreshold,
		UnusualHours:           fmt.Sprintf("%d:00 - %d:00", cfg.UnusualHourStart, cfg.UnusualHourEnd),
		TopSuspicious:          suspicious[:min(10, len(suspicious))],
	}
}
