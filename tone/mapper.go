package tone

// Mapper caches the glyph for each of the 256 gray levels under one set of
// Settings. Since every stage after Grayscale only depends on the gray level,
// a table lookup gives the same glyph as running the chain.
type Mapper struct {
	table [256]rune
}

// NewMapper builds the table for s. s.Charset must not be empty.
func NewMapper(s Settings) *Mapper {
	m := &Mapper{}
	for i := range m.table {
		m.table[i] = Glyph(s.Level(uint8(i)), s.Charset)
	}
	return m
}

// Map returns the glyph for an RGB sample.
func (m *Mapper) Map(r, g, b uint8) rune {
	return m.table[Grayscale(r, g, b)]
}

// Gray returns the glyph for an already computed gray level.
func (m *Mapper) Gray(v uint8) rune {
	return m.table[v]
}
