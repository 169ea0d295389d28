package canvas

// Arms is the set of directions a line character connects to.
type Arms uint8

const (
	ArmNorth Arms = 1 << iota
	ArmEast
	ArmSouth
	ArmWest
)

// CharacterMerger combines line characters drawn on the same cell into the
// junction that connects all of their arms.
type CharacterMerger struct {
	armsOf map[rune]Arms
	glyphs [16]rune
}

// NewCharacterMerger creates a merger with rounded corners for routes.
func NewCharacterMerger() *CharacterMerger {
	m := &CharacterMerger{armsOf: make(map[rune]Arms)}
	m.initializeMergeRules()
	return m
}

func (m *CharacterMerger) initializeMergeRules() {
	m.glyphs = [16]rune{
		0:                                       ' ',
		ArmNorth:                                '│',
		ArmSouth:                                '│',
		ArmNorth | ArmSouth:                     '│',
		ArmEast:                                 '─',
		ArmWest:                                 '─',
		ArmEast | ArmWest:                       '─',
		ArmEast | ArmSouth:                      '╭',
		ArmWest | ArmSouth:                      '╮',
		ArmNorth | ArmEast:                      '╰',
		ArmNorth | ArmWest:                      '╯',
		ArmNorth | ArmEast | ArmSouth:           '├',
		ArmNorth | ArmWest | ArmSouth:           '┤',
		ArmEast | ArmWest | ArmSouth:            '┬',
		ArmNorth | ArmEast | ArmWest:            '┴',
		ArmNorth | ArmEast | ArmSouth | ArmWest: '┼',
	}
	for arms, r := range m.glyphs {
		if arms != 0 && arms&(arms-1) != 0 {
			m.armsOf[r] = Arms(arms)
		}
	}
	m.armsOf['│'] = ArmNorth | ArmSouth
	m.armsOf['─'] = ArmEast | ArmWest

	// Square corners are used for element outlines.
	m.armsOf['┌'] = ArmEast | ArmSouth
	m.armsOf['┐'] = ArmWest | ArmSouth
	m.armsOf['└'] = ArmNorth | ArmEast
	m.armsOf['┘'] = ArmNorth | ArmWest

	// ASCII fallbacks
	m.armsOf['-'] = ArmEast | ArmWest
	m.armsOf['|'] = ArmNorth | ArmSouth
	m.armsOf['+'] = ArmNorth | ArmEast | ArmSouth | ArmWest
}

// Glyph returns the character for a set of arms.
func (m *CharacterMerger) Glyph(arms Arms) rune {
	return m.glyphs[arms&0xF]
}

// ArmsOf returns the arms of a line character, or 0 for anything else.
func (m *CharacterMerger) ArmsOf(r rune) Arms {
	return m.armsOf[r]
}

// Merge combines two characters according to box-drawing rules.
func (m *CharacterMerger) Merge(existing, new rune) rune {
	// If empty, use the new character
	if existing == ' ' || existing == '\x00' || isBackground(existing) {
		return new
	}
	if existing == new {
		return existing
	}

	// Arrow preservation: arrows should never be overwritten
	if isArrow(existing) {
		return existing
	}
	if isArrow(new) {
		return new
	}

	a, b := m.armsOf[existing], m.armsOf[new]
	if a == 0 || b == 0 {
		// Text and markers win over nothing but blanks
		return existing
	}
	switch a | b {
	case a:
		return existing
	case b:
		return new
	default:
		return m.glyphs[a|b]
	}
}

// isArrow checks if a character is an arrow.
func isArrow(r rune) bool {
	switch r {
	case '▶', '◀', '▲', '▼', '>', '<', '^', 'v':
		return true
	default:
		return false
	}
}

// isBackground reports fill characters that any drawing may replace.
func isBackground(r rune) bool {
	return r == '░' || r == '·'
}
