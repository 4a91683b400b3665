package discounts

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateRequest_CollectsAllErrors(t *testing.T) {
	rules := NewRuleSet(testPolicy())

	// Negative price, non-positive discount, short justification: every rule
	// violation must be reported together.
	v := rules.ValidateRequest(
		decimal.NewFromInt(-1),
		decimal.NewFromInt(-5),
		decimal.Zero,
		"too short",
	)
	if v.Valid {
		t.Fatal("expected invalid result")
	}
	if len(v.Errors) < 4 {
		t.Fatalf("expected every violated rule listed, got %v", v.Errors)
	}
}

func TestValidateRequest_DiscountExceedsRemaining(t *testing.T) {
	rules := NewRuleSet(testPolicy())

	v := rules.ValidateRequest(
		decimal.NewFromInt(100000),
		decimal.NewFromInt(95000),
		decimal.NewFromInt(10000),
		"big fleet customer retention deal",
	)
	if v.Valid {
		t.Fatal("expected invalid result")
	}
	found := false
	for _, e := range v.Errors {
		if strings.Contains(e, "exceeds remaining price") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected remaining-price error, got %v", v.Errors)
	}
}

func TestValidateRequest_HardCap(t *testing.T) {
	rules := NewRuleSet(testPolicy())

	v := rules.ValidateRequest(
		decimal.NewFromInt(100000),
		decimal.Zero,
		decimal.NewFromInt(30000),
		"end of quarter clearance push",
	)
	if v.Valid {
		t.Fatal("expected hard cap violation")
	}
}

func TestValidateRequest_WarnsWithoutBlocking(t *testing.T) {
	rules := NewRuleSet(testPolicy())

	v := rules.ValidateRequest(
		decimal.NewFromInt(100000),
		decimal.Zero,
		decimal.NewFromInt(12000),
		"matching competitor quote from across town",
	)
	if !v.Valid {
		t.Fatalf("warning must not block, got errors %v", v.Errors)
	}
	if len(v.Warnings) == 0 {
		t.Fatal("expected unusually-high warning")
	}
}

func TestValidateRequest_CleanSubmission(t *testing.T) {
	rules := NewRuleSet(testPolicy())

	v := rules.ValidateRequest(
		decimal.NewFromInt(100000),
		decimal.NewFromInt(5000),
		decimal.NewFromInt(3000),
		"loyal repeat customer, third purchase",
	)
	if !v.Valid || len(v.Errors) != 0 || len(v.Warnings) != 0 {
		t.Fatalf("expected clean pass, got %+v", v)
	}
}
