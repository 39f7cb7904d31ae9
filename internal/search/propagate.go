package search

import (
	"strconv"

	"zask/internal/domain"
)

// Propagate writes a chosen result into a roster record. The name and year are
// always written, year being cleared when the result has none; card type,
// subtype, position and ovr are copied only when present, so existing values
// survive otherwise.
func Propagate(item domain.SearchResult, record domain.PlayerRecord) {
	if record == nil {
		return
	}

	record[domain.FieldName] = item.Name
	if item.CardType != nil {
		record[domain.FieldCardType] = *item.CardType
	}
	if item.Subtype != nil {
		record[domain.FieldSubtype] = *item.Subtype
	}
	if item.Year != nil {
		record[domain.FieldYear] = *item.Year
	} else {
		record[domain.FieldYear] = ""
	}
	if item.Position != nil {
		record[domain.FieldPosition] = *item.Position
	}
	if item.OVR != nil {
		record[domain.FieldOVR] = FormatOVR(*item.OVR)
	}
}

// FormatOVR renders an overall rating without trailing zeros (95, 95.5)
func FormatOVR(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
