package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing rules file: %v", err)
	}
	return path
}

func TestLoadRulesEmptyPath(t *testing.T) {
	rules, err := LoadRules("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defaults := DefaultRules()
	if rules.AmountPercentile != defaults.AmountPercentile {
		t.Errorf("expected default percentile, got %v", rules.AmountPercentile)
	}
	if len(rules.Buckets) != 6 {
		t.Errorf("expected 6 default buckets, got %d", len(rules.Buckets))
	}
}

func TestLoadRulesFile(t *testing.T) {
	path := writeRules(t, `
amount_percentile: 0.9
high_percentile: 0.98
suspicious_types: [TRANSFER, WITHDRAWAL]
large_amount: 5000
max_client_transactions: 30
max_pair_transactions: 10
buckets:
  - {low: 0, high: 50}
  - {low: 50, high: 200}
  - {low: 200}
`)

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rules.AmountPercentile != 0.9 || rules.HighPercentile != 0.98 {
		t.Errorf("unexpected percentiles: %+v", rules)
	}
	if len(rules.SuspiciousTypes) != 2 {
		t.Errorf("unexpected types: %v", rules.SuspiciousTypes)
	}
	if rules.MaxClientTransactions != 30 || rules.MaxPairTransactions != 10 {
		t.Errorf("unexpected frequency limits: %+v", rules)
	}

	buckets := rules.AmountBuckets()
	if len(buckets) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(buckets))
	}
	if buckets[0].Label() != "0-50" {
		t.Errorf("unexpected first label %q", buckets[0].Label())
	}
	if buckets[2].Label() != "200+" {
		t.Errorf("unexpected open label %q", buckets[2].Label())
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadRulesInvalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"not yaml", "buckets: [\n"},
		{"percentile out of range", "amount_percentile: 1.5\nhigh_percentile: 0.99\n"},
		{"high below amount", "amount_percentile: 0.95\nhigh_percentile: 0.5\n"},
		{"gap between buckets", `
buckets:
  - {low: 0, high: 100}
  - {low: 200}
`},
		{"closed final bucket", `
buckets:
  - {low: 0, high: 100}
  - {low: 100, high: 500}
  - {low: 500, high: 1000}
  - {low: 1000, high: 5000}
  - {low: 5000, high: 10000}
  - {low: 10000, high: 20000}
`},
		{"inverted bucket", `
buckets:
  - {low: 100, high: 50}
  - {low: 50}
`},
		{"zero frequency limit", "max_client_transactions: 0\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeRules(t, tc.content)
			if _, err := LoadRules(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
