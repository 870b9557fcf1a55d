package ledger

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/period"
)

// Tag is the human readable marker embedded in payroll descriptions,
// e.g. "advance:Ivan Petrov@2025-03".
type Tag struct {
	Kind  SourceKind
	Name  string
	Month period.Month // empty for legacy name-only refunded-advance tags
}

var tagPattern = regexp.MustCompile(
	`(?:^|\s)(advance|full-settlement|remaining-settlement|travel|refunded-advance|correction):(.+?)(?:@(\d{4}-\d{2}))?\s*$`,
)

// FormatTag renders kind:NAME@YYYY-MM.
func FormatTag(kind SourceKind, name string, month period.Month) string {
	return fmt.Sprintf("%s:%s@%s", kind, name, month)
}

// ParseTag extracts the payroll tag from a description. Tags without a month
// are accepted only for refunded-advance, matching what older data contains.
func ParseTag(description string) (Tag, bool) {
	m := tagPattern.FindStringSubmatch(description)
	if m == nil {
		return Tag{}, false
	}

	tag := Tag{
		Kind: SourceKind(m[1]),
		Name: strings.TrimSpace(m[2]),
	}
	if tag.Name == "" {
		return Tag{}, false
	}

	if m[3] != "" {
		month, err := period.ParseMonth(m[3])
		if err != nil {
			return Tag{}, false
		}
		tag.Month = month
	} else if tag.Kind != SourceRefundedAdvance {
		return Tag{}, false
	}

	return tag, true
}

// Matches reports whether the tag points at the given employee name and month.
func (t Tag) Matches(name string, month period.Month) bool {
	return t.Name == strings.TrimSpace(name) && t.Month == month
}

const bulkDescriptionBase = "Payroll summary for "

// importedBulkDescriptionBase prefixes bulk rows imported from the previous
// bookkeeping system. They are matched but never written.
const importedBulkDescriptionBase = "Обобщени заплати за "

var bulkPattern = regexp.MustCompile(`^(?:` + regexp.QuoteMeta(bulkDescriptionBase) + `|` +
	regexp.QuoteMeta(importedBulkDescriptionBase) + `)(\d{4}-\d{2})`)

// BulkDescriptionPrefix is shared by all bulk postings of a month regardless of payment method.
func BulkDescriptionPrefix(month period.Month) string {
	return bulkDescriptionBase + month.String()
}

func BulkDescription(month period.Month, method PaymentMethod) string {
	return fmt.Sprintf("%s (%s)", BulkDescriptionPrefix(month), method)
}

// ParseBulkDescription returns the month of a bulk payroll description.
func ParseBulkDescription(description string) (period.Month, bool) {
	m := bulkPattern.FindStringSubmatch(description)
	if m == nil {
		return "", false
	}
	month, err := period.ParseMonth(m[1])
	if err != nil {
		return "", false
	}
	return month, true
}
