package demo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/utkarsh5026/turbit/pool"
)

// Demo is one runnable example. Power is the share of cores it uses unless
// the caller picks another.
type Demo struct {
	Name        string
	Description string
	Power       int
	Run         func(ctx context.Context, e *pool.Engine, power int, w io.Writer) error
}

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	labelColor = color.New(color.FgYellow)
)

var reviews = []string{
	"This product is excellent and I love it",
	"horrible experience, would not recommend it",
	"Perfect for what I need, good and cheap",
	"Terrible, broke after the second use",
	"The Apple Vision Pro is a game-changer in the tech industry. Is a Good product.",
	"Elon Musk: visionary leadership has revolutionized space exploration",
	"Steve Jobs: Innovation and design philosophy continue to inspire generations",
	"Turbit is very cool.",
}

var texts = []string{
	"hello world",
	"turbit is very fast",
	"parallel processing",
	"enhancing go performance",
	"easy multitasking",
	"scalable applications",
	"efficient computing",
}

const passwordCount = 100_000

var demos = []Demo{
	{
		Name:        "random-numbers",
		Description: "each worker draws a random number (simple)",
		Power:       50,
		Run: func(ctx context.Context, e *pool.Engine, power int, w io.Writer) error {
			res, err := pool.Run(ctx, e, RandomNumber, nil, pool.WithPower(power))
			if err != nil {
				return err
			}
			return report(w, "Random Numbers", res.Data, res.Stats)
		},
	},
	{
		Name:        "greeting",
		Description: "every worker returns the same greeting (simple)",
		Power:       100,
		Run: func(ctx context.Context, e *pool.Engine, power int, w io.Writer) error {
			res, err := pool.Run(ctx, e, Greeting, nil, pool.WithPower(power))
			if err != nil {
				return err
			}
			return report(w, "Simple execution result", res.Data, res.Stats)
		},
	},
	{
		Name:        "passwords",
		Description: "each worker generates a password (simple)",
		Power:       100,
		Run: func(ctx context.Context, e *pool.Engine, power int, w io.Writer) error {
			res, err := pool.Run(ctx, e, NewPassword, nil, pool.WithPower(power))
			if err != nil {
				return err
			}
			return report(w, "Generated passwords", res.Data, res.Stats)
		},
	},
	{
		Name:        "uppercase",
		Description: "upper-cases a list of texts (extended)",
		Power:       70,
		Run: func(ctx context.Context, e *pool.Engine, power int, w io.Writer) error {
			res, err := pool.Run(ctx, e, Uppercase, texts, pool.WithType(pool.Extended), pool.WithPower(power))
			if err != nil {
				return err
			}
			return report(w, "Uppercase Texts", res.Data, res.Stats)
		},
	},
	{
		Name:        "sentiment",
		Description: "labels product reviews, one label per chunk (extended)",
		Power:       100,
		Run: func(ctx context.Context, e *pool.Engine, power int, w io.Writer) error {
			res, err := pool.Run(ctx, e, Sentiment, reviews, pool.WithType(pool.Extended), pool.WithPower(power))
			if err != nil {
				return err
			}
			return report(w, "Sentiment Analysis", res.Data, res.Stats)
		},
	},
	{
		Name:        "password-strength",
		Description: fmt.Sprintf("checks the strength of %d generated passwords (extended)", passwordCount),
		Power:       100,
		Run: func(ctx context.Context, e *pool.Engine, power int, w io.Writer) error {
			passwords := make([]string, passwordCount)
			for i := range passwords {
				passwords[i] = GeneratePassword()
			}

			res, err := pool.Run(ctx, e, PasswordStrength, passwords, pool.WithType(pool.Extended), pool.WithPower(power))
			if err != nil {
				return err
			}

			strong := 0
			for _, c := range res.Data {
				if c.IsStrong {
					strong++
				}
			}
			summary := map[string]int{"generated": len(passwords), "strong": strong, "weak": len(res.Data) - strong}
			return report(w, "Password strength", summary, res.Stats)
		},
	},
	{
		Name:        "transaction-risk",
		Description: "flags high-value and night-time transactions (extended with args)",
		Power:       100,
		Run: func(ctx context.Context, e *pool.Engine, power int, w io.Writer) error {
			cfg := DefaultRiskConfig()
			txs := GenerateTransactions(cfg.TransactionCount, cfg.MaxAmount)

			res, err := pool.Run(ctx, e, TransactionRisk, txs,
				pool.WithType(pool.Extended), pool.WithPower(power), pool.WithArgs(cfg.Args()))
			if err != nil {
				return err
			}
			return report(w, "Transaction risk analysis", Summarize(res.Data, cfg), res.Stats)
		},
	},
}

// All returns every demo, sorted by name.
func All() []Demo {
	out := make([]Demo, len(demos))
	copy(out, demos)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup finds a demo by name.
func Lookup(name string) (Demo, bool) {
	for _, d := range demos {
		if d.Name == name {
			return d, true
		}
	}
	return Demo{}, false
}

func report(w io.Writer, title string, data any, stats pool.Stats) error {
	titleColor.Fprintf(w, "%s\n", title)

	body, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", title, err)
	}
	fmt.Fprintf(w, "%s\n", body)

	labelColor.Fprintln(w, "Stats:")
	body, err = json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	fmt.Fprintf(w, "%s\n\n", body)
	return nil
}
