package core

import "testing"

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0", 0, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{123450, "1234.50"},
		{-20000, "-200.00"},
	}
	for _, tc := range cases {
		if got := MoneyFromCents(tc.cents).String(); got != tc.want {
			t.Errorf("cents=%d: got %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestMoneySub(t *testing.T) {
	remaining := MoneyFromCents(100000).Sub(MoneyFromCents(120000))
	if remaining.Cents != -20000 {
		t.Fatalf("expected -20000, got %d", remaining.Cents)
	}
}
