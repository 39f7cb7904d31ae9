package roster

import "strings"

// yearlessCardTypes have no season attached in-game: the Impact card and its abbreviation
var yearlessCardTypes = map[string]bool{
	"임팩트":    true,
	"impact": true,
	"i":      true,
}

// IsYearEditable reports whether the year of a card with cardType may be edited
func IsYearEditable(cardType string) bool {
	return !yearlessCardTypes[strings.ToLower(strings.TrimSpace(cardType))]
}
