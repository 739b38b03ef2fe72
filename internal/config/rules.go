package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/nmoreau/bankwatch/internal/domain"
)

// Rules is the fraud-rule and bucket configuration loaded from a YAML file.
type Rules struct {
	AmountPercentile      float64      `yaml:"amount_percentile"`
	HighPercentile        float64      `yaml:"high_percentile"`
	SuspiciousTypes       []string     `yaml:"suspicious_types"`
	LargeAmount           float64      `yaml:"large_amount"`
	MaxClientTransactions int          `yaml:"max_client_transactions"`
	MaxPairTransactions   int          `yaml:"max_pair_transactions"`
	Buckets               []BucketRule `yaml:"buckets"`
}

// BucketRule is one half-open amount interval; a nil High marks the final
// open-ended bucket.
type BucketRule struct {
	Low  float64  `yaml:"low"`
	High *float64 `yaml:"high"`
}

// DefaultRules returns the rule set shipped with the service.
func DefaultRules() Rules {
	bound := func(v float64) *float64 { return &v }
	return Rules{
		AmountPercentile:      0.95,
		HighPercentile:        0.99,
		SuspiciousTypes:       []string{"TRANSFER"},
		LargeAmount:           10000,
		MaxClientTransactions: 50,
		MaxPairTransactions:   20,
		Buckets: []BucketRule{
			{Low: 0, High: bound(100)},
			{Low: 100, High: bound(500)},
			{Low: 500, High: bound(1000)},
			{Low: 1000, High: bound(5000)},
			{Low: 5000, High: bound(10000)},
			{Low: 10000},
		},
	}
}

// LoadRules reads and validates the rules file; an empty path yields the
// defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("rules file %s: %w", path, err)
	}
	return rules, nil
}

// Validate checks percentile ranges and the bucket layout: contiguous
// half-open intervals with an open-ended final bucket.
func (r Rules) Validate() error {
	if r.AmountPercentile <= 0 || r.AmountPercentile >= 1 {
		return fmt.Errorf("amount_percentile %v must be between 0 and 1 exclusive", r.AmountPercentile)
	}
	if r.HighPercentile <= 0 || r.HighPercentile >= 1 {
		return fmt.Errorf("high_percentile %v must be between 0 and 1 exclusive", r.HighPercentile)
	}
	if r.HighPercentile < r.AmountPercentile {
		return fmt.Errorf("high_percentile %v must not be below amount_percentile %v", r.HighPercentile, r.AmountPercentile)
	}
	if r.MaxClientTransactions < 1 {
		return fmt.Errorf("max_client_transactions must be at least 1")
	}
	if r.MaxPairTransactions < 1 {
		return fmt.Errorf("max_pair_transactions must be at least 1")
	}
	if len(r.Buckets) == 0 {
		return fmt.Errorf("at least one bucket is required")
	}
	for i, bucket := range r.Buckets {
		last := i == len(r.Buckets)-1
		if last {
			if bucket.High != nil {
				return fmt.Errorf("final bucket must be open-ended")
			}
			continue
		}
		if bucket.High == nil {
			return fmt.Errorf("bucket %d: only the final bucket may be open-ended", i)
		}
		if *bucket.High <= bucket.Low {
			return fmt.Errorf("bucket %d: high %v must exceed low %v", i, *bucket.High, bucket.Low)
		}
		if r.Buckets[i+1].Low != *bucket.High {
			return fmt.Errorf("bucket %d: next bucket must start at %v", i, *bucket.High)
		}
	}
	return nil
}

// AmountBuckets converts the configured ranges into domain buckets.
func (r Rules) AmountBuckets() []domain.AmountBucket {
	buckets := make([]domain.AmountBucket, 0, len(r.Buckets))
	for _, b := range r.Buckets {
		bucket := domain.AmountBucket{Low: decimal.NewFromFloat(b.Low)}
		if b.High != nil {
			bucket.High = decimal.NewNullDecimal(decimal.NewFromFloat(*b.High))
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}
