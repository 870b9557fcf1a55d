package ledger

import (
	"testing"

	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/period"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTag(t *testing.T) {
	cases := []struct {
		name        string
		description string
		want        Tag
	}{
		{"advance", "advance:Ivan Petrov@2025-03", Tag{Kind: SourceAdvance, Name: "Ivan Petrov", Month: "2025-03"}},
		{"remaining settlement", "remaining-settlement:Maria@2024-12", Tag{Kind: SourceRemainingSettlement, Name: "Maria", Month: "2024-12"}},
		{"full settlement", "full-settlement:Maria@2024-12", Tag{Kind: SourceFullSettlement, Name: "Maria", Month: "2024-12"}},
		{"travel", "travel:Georgi@2025-01", Tag{Kind: SourceTravel, Name: "Georgi", Month: "2025-01"}},
		{"refund with month", "refunded-advance:Georgi@2025-01", Tag{Kind: SourceRefundedAdvance, Name: "Georgi", Month: "2025-01"}},
		{"legacy refund without month", "refunded-advance:Georgi", Tag{Kind: SourceRefundedAdvance, Name: "Georgi"}},
		{"prefixed free text", "Cash out advance:Ivan@2025-03", Tag{Kind: SourceAdvance, Name: "Ivan", Month: "2025-03"}},
		{"trailing spaces", "travel:Ana @2025-02  ", Tag{Kind: SourceTravel, Name: "Ana", Month: "2025-02"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := ParseTag(c.description)
			require.True(t, ok)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestParseTag_Rejects(t *testing.T) {
	for _, description := range []string{
		"",
		"Office rent",
		"advance:Ivan",         // month is mandatory outside refunded-advance
		"advance:@2025-03",     // no name
		"advance:Ivan@2025-13", // invalid month
		"preadvance:Ivan@2025-03",
		"Payroll summary for 2025-03 (bank)",
	} {
		_, ok := ParseTag(description)
		assert.False(t, ok, description)
	}
}

func TestFormatTag_RoundTrip(t *testing.T) {
	desc := FormatTag(SourceAdvance, "Ivan Petrov", period.Month("2025-03"))
	assert.Equal(t, "advance:Ivan Petrov@2025-03", desc)

	tag, ok := ParseTag(desc)
	require.True(t, ok)
	assert.True(t, tag.Matches("Ivan Petrov", "2025-03"))
	assert.False(t, tag.Matches("Ivan", "2025-03"))
}

func TestParseTag_RefundedAdvanceIsNotAdvance(t *testing.T) {
	tag, ok := ParseTag("refunded-advance:Ivan@2025-03")
	require.True(t, ok)
	assert.Equal(t, SourceRefundedAdvance, tag.Kind)
}

func TestBulkDescription(t *testing.T) {
	m := period.Month("2025-03")
	assert.Equal(t, "Payroll summary for 2025-03 (bank)", BulkDescription(m, PaymentBank))
	assert.Equal(t, "Payroll summary for 2025-03", BulkDescriptionPrefix(m))
}

func TestParseBulkDescription(t *testing.T) {
	month, ok := ParseBulkDescription("Payroll summary for 2025-03 (cash)")
	require.True(t, ok)
	assert.Equal(t, period.Month("2025-03"), month)

	imported, ok := ParseBulkDescription("Обобщени заплати за 2024-11 (по банка)")
	require.True(t, ok)
	assert.Equal(t, period.Month("2024-11"), imported)

	_, ok = ParseBulkDescription("advance:Ivan@2025-03")
	assert.False(t, ok)
	_, ok = ParseBulkDescription("Notes: Payroll summary for 2025-03")
	assert.False(t, ok)
}

func TestSourceKind_IsSettlement(t *testing.T) {
	assert.True(t, SourceRemainingSettlement.IsSettlement())
	assert.True(t, SourceFullSettlement.IsSettlement())
	assert.False(t, SourceAdvance.IsSettlement())
	assert.False(t, SourceTravel.IsSettlement())
}
