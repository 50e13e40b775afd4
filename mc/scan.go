package mc

import "math"

// ScanUint reads a run of decimal digits as an unsigned 64-bit value.
//
// It fails, leaving the cursor where it was, when no digit is present, when
// the digits are directly followed by a letter or '.', or on overflow.
func ScanUint(c *Cursor) (uint64, bool) {
	start := c.Mark()

	var val uint64
	n := 0
	for {
		b, ok := c.Peek()
		if !ok || !isDigit(b) {
			break
		}
		d := uint64(b - '0')
		if val > (math.MaxUint64-d)/10 {
			c.Reset(start)
			return 0, false
		}
		val = val*10 + d
		c.pos++
		n++
	}

	if n == 0 {
		return 0, false
	}
	// "123abc" and "123.5" are not integers.
	if b, ok := c.Peek(); ok && (isAlpha(b) || b == '.') {
		c.Reset(start)
		return 0, false
	}
	return val, true
}

// ScanHex reads a "0x"-prefixed hexadecimal literal.
func ScanHex(c *Cursor) (uint64, bool) {
	start := c.Mark()
	if !c.ReadLiteral("0x") {
		return 0, false
	}

	var val uint64
	n := 0
	for {
		b, ok := c.Peek()
		if !ok {
			break
		}
		d, ok := hexValue(b)
		if !ok {
			break
		}
		if val>>60 != 0 {
			c.Reset(start)
			return 0, false
		}
		val = val<<4 | d
		c.pos++
		n++
	}

	if n == 0 {
		c.Reset(start)
		return 0, false
	}
	if b, ok := c.Peek(); ok && (isIdentChar(b) || b == '.') {
		c.Reset(start)
		return 0, false
	}
	return val, true
}

// ScanFloat reads a literal of the form digits '.' digits with an optional
// trailing 'f'. Either digit run may be empty but not both.
func ScanFloat(c *Cursor) (float64, bool) {
	start := c.Mark()

	var whole float64
	digits := 0
	for {
		b, ok := c.Peek()
		if !ok || !isDigit(b) {
			break
		}
		whole = whole*10 + float64(b-'0')
		c.pos++
		digits++
	}

	if !c.ReadChar('.') {
		c.Reset(start)
		return 0, false
	}

	var frac float64
	pow := 10.0
	for {
		b, ok := c.Peek()
		if !ok || !isDigit(b) {
			break
		}
		frac += float64(b-'0') / pow
		pow *= 10
		c.pos++
		digits++
	}

	if digits == 0 {
		c.Reset(start)
		return 0, false
	}

	c.ReadChar('f')
	if b, ok := c.Peek(); ok && isAlpha(b) {
		c.Reset(start)
		return 0, false
	}
	return whole + frac, true
}

// ScanIdent reads an identifier: an underscore or letter followed by any mix
// of underscores, letters and digits.
func ScanIdent(c *Cursor) (string, bool) {
	start := c.Mark()
	for {
		b, ok := c.Peek()
		if !ok {
			break
		}
		if b == '_' || isAlpha(b) || (c.pos > start && isDigit(b)) {
			c.pos++
			continue
		}
		break
	}
	if c.pos == start {
		return "", false
	}
	return string(c.src[start:c.pos]), true
}

// readKeyword consumes kw only when it is not the prefix of a longer
// identifier.
func readKeyword(c *Cursor, kw string) bool {
	if !c.HasPrefix(kw) {
		return false
	}
	if b, ok := c.peekAt(len(kw)); ok && isIdentChar(b) {
		return false
	}
	c.pos += len(kw)
	return true
}
