package roster

// PitcherPositions are the starting and relief pitcher slots in display order
var PitcherPositions = []string{"SP1", "SP2", "SP3", "SP4", "SP5", "RP1", "RP2", "RP3", "RP4", "RP5", "RP6"}

// BatterPositions are the lineup slots in display order
var BatterPositions = []string{"DH", "C", "1B", "2B", "3B", "SS", "LF", "CF", "RF"}

// Positions lists every roster slot, pitchers first
var Positions = append(append([]string{}, PitcherPositions...), BatterPositions...)

// IsPitcher reports whether pos is a pitcher slot
func IsPitcher(pos string) bool {
	for _, p := range PitcherPositions {
		if p == pos {
			return true
		}
	}
	return false
}

// ValidPosition reports whether pos is a roster slot
func ValidPosition(pos string) bool {
	for _, p := range Positions {
		if p == pos {
			return true
		}
	}
	return false
}
