package validator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsEmpty(c.input), "IsEmpty(%q)", c.input)
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // valid UUIDv7
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B", // valid UUIDv7 (uppercase)
	}
	invalid := []string{
		"123e4567-e89b-12d3-a456-426614174000", // not v7
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",     // missing dashes
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // invalid hex
		"",
	}
	for _, uuid := range valid {
		assert.True(t, IsValidUUID(uuid), "IsValidUUID(%q)", uuid)
	}
	for _, uuid := range invalid {
		assert.False(t, IsValidUUID(uuid), "IsValidUUID(%q)", uuid)
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31", "2024-02-29"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023-02-29", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		assert.True(t, ok, "IsValidDate(%q)", s)
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		assert.False(t, ok, "IsValidDate(%q)", s)
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	assert.True(t, IsInSlice("a", slice))
	assert.False(t, IsInSlice("d", slice))
	assert.False(t, IsInSlice("a", nil))
}

func TestIsValidTagName(t *testing.T) {
	assert.True(t, IsValidTagName("Ana Maria"))
	assert.False(t, IsValidTagName(""))
	assert.False(t, IsValidTagName("  "))
	assert.False(t, IsValidTagName("ana@home"))
	assert.False(t, IsValidTagName("advance:ana"))
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "month", Message: "invalid"},
		{Field: "amount", Message: "required"},
	}
	assert.Equal(t, "month: invalid; amount: required", errs.Error())
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "month", Message: "invalid"},
		{Field: "amount", Message: "required"},
	}
	assert.Equal(t, map[string]string{"month": "invalid", "amount": "required"}, errs.ToMap())
}

func TestIsCents(t *testing.T) {
	for _, s := range []string{"0", "10", "10.5", "10.05", "-3.20"} {
		assert.True(t, IsCents(decimal.RequireFromString(s)), "IsCents(%q)", s)
	}
	for _, s := range []string{"0.004", "10.005", "1.999"} {
		assert.False(t, IsCents(decimal.RequireFromString(s)), "IsCents(%q)", s)
	}
}
