package helpers

import (
	"math/big"
	"testing"
	"time"
)

func TestShortenAddr(t *testing.T) {
	cases := map[string]string{
		"0xABCDEF1234567890":                         "0xABCD...7890",
		"0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045": "0xd8dA...6045",
		"":            "",
		"0x1234":      "0x1234",
		"0x12345678":  "0x12345678",
		"0x123456789": "0x1234...6789",
	}
	for in, want := range cases {
		if got := ShortenAddr(in); got != want {
			t.Errorf("ShortenAddr(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSameAddress(t *testing.T) {
	a := "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"
	b := "0xD8DA6BF26964AF9D7EED9E03E53415D37AA96045"
	if !SameAddress(a, b) {
		t.Error("expected case-insensitive match")
	}
	if SameAddress(a, "") || SameAddress("", "") {
		t.Error("empty addresses must never match")
	}
}

func TestFormatEther(t *testing.T) {
	tipped, _ := new(big.Int).SetString("2500000000000000000", 10)
	cases := []struct {
		wei  *big.Int
		want string
	}{
		{tipped, "2.5000"},
		{big.NewInt(0), "0.0000"},
		{nil, "0.0000"},
		{big.NewInt(1), "0.0000"},
		{big.NewInt(50000000000000), "0.0001"},
		{new(big.Int).Mul(big.NewInt(12), weiPerEther), "12.0000"},
	}
	for _, c := range cases {
		if got := FormatEther(c.wei); got != c.want {
			t.Errorf("FormatEther(%v) = %q, want %q", c.wei, got, c.want)
		}
	}
	if got := FormatETH(tipped); got != "2.5000 ETH" {
		t.Errorf("FormatETH = %q", got)
	}
}

func TestParseEther(t *testing.T) {
	t.Run("valid amounts", func(t *testing.T) {
		cases := map[string]string{
			"1":                    "1000000000000000000",
			"0.01":                 "10000000000000000",
			" 2.5 ":                "2500000000000000000",
			"0.000000000000000001": "1",
		}
		for in, want := range cases {
			got, err := ParseEther(in)
			if err != nil {
				t.Fatalf("ParseEther(%q) error: %v", in, err)
			}
			if got.String() != want {
				t.Errorf("ParseEther(%q) = %s, want %s", in, got, want)
			}
		}
	})

	t.Run("invalid amounts", func(t *testing.T) {
		for _, in := range []string{"", "abc", "0", "-1", "1/2", "1e3", "0.0000000000000000001", "0x10"} {
			if _, err := ParseEther(in); err == nil {
				t.Errorf("ParseEther(%q) expected error", in)
			}
		}
	})
}

func TestLoadedAt(t *testing.T) {
	if got := LoadedAt(time.Time{}, false); got != "never" {
		t.Errorf("got %q", got)
	}
	if got := LoadedAt(time.Now(), true); got != "loading…" {
		t.Errorf("got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate() = %q", got)
	}
	if got := Truncate("a rather long title", 8); got != "a rathe…" {
		t.Errorf("Truncate() = %q", got)
	}
}
