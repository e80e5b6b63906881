package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestCheckMacCommand(t *testing.T) {
	t.Setenv("ECPAY_HASH_KEY", "5294y06JbISpM5x9")
	t.Setenv("ECPAY_HASH_IV", "v77hoKGq4kWxNNIS")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"checkmac", "MerchantID=2000132", "MerchantTradeNo=JV123", "TotalAmount=1000"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := "FE215C1AD6F9F31771E6D85FAFE13847DED880796530AFD20828331177E3E6B1"
	if got := strings.TrimSpace(out.String()); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}

	out.Reset()
	rootCmd.SetArgs([]string{"checkmac", "--verify", "MerchantID=2000132", "MerchantTradeNo=JV123", "TotalAmount=1000", "CheckMacValue=" + want})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "OK" {
		t.Fatalf("expected OK, got %q", got)
	}
}

func TestParseParams(t *testing.T) {
	p, err := parseParams([]string{"A=1", "B=x=y", "C="})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p["A"] != "1" || p["B"] != "x=y" || p["C"] != "" {
		t.Fatalf("unexpected params %v", p)
	}
	if _, err := parseParams([]string{"novalue"}); err == nil {
		t.Fatal("expected error for missing '='")
	}
}
