package classifier

// lineCounter counts lines using universal newlines: LF, CR and CRLF each
// end a line, and a trailing line without a terminator still counts.
type lineCounter struct {
	lines    int
	afterCR  bool
	unclosed bool
}

func (c *lineCounter) feed(p []byte) {
	for _, b := range p {
		switch b {
		case '\n':
			if c.afterCR {
				c.afterCR = false
				continue
			}
			c.lines++
			c.unclosed = false
		case '\r':
			c.lines++
			c.afterCR = true
			c.unclosed = false
		default:
			c.afterCR = false
			c.unclosed = true
		}
	}
}

func (c *lineCounter) total() int {
	if c.unclosed {
		return c.lines + 1
	}
	return c.lines
}
