package printer

import (
	"bytes"
	"fmt"
	"strings"
)

// ESC/POS command constants
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Font size
const (
	FontNormal = 0x00
	FontDouble = 0x11 // Double width + double height
)

// Ticket builds an ESC/POS byte stream for thermal printers, laid out for
// fiscal-style invoices: centered header, a four-column item table and
// right-aligned totals.
type Ticket struct {
	buf   bytes.Buffer
	width int // print width in characters (32 for 58mm, 48 for 80mm paper)
}

// NewTicket creates an initialized ticket with the given character width.
func NewTicket(charWidth int) *Ticket {
	if charWidth <= 0 {
		charWidth = 48
	}
	t := &Ticket{width: charWidth}
	t.init()
	return t
}

// init sends ESC @ (reset) and selects code page 16 (WPC1252) so Spanish
// accents and the ñ survive the trip to the print head.
func (t *Ticket) init() {
	t.buf.Write([]byte{ESC, '@'})
	t.buf.Write([]byte{ESC, 't', 16})
}

// LineFeed sends a line feed.
func (t *Ticket) LineFeed() *Ticket {
	t.buf.WriteByte(LF)
	return t
}

// FeedLines sends n line feeds.
func (t *Ticket) FeedLines(n int) *Ticket {
	for i := 0; i < n; i++ {
		t.buf.WriteByte(LF)
	}
	return t
}

// SetAlign sets text alignment: AlignLeft, AlignCenter, AlignRight.
func (t *Ticket) SetAlign(align int) *Ticket {
	t.buf.Write([]byte{ESC, 'a', byte(align)})
	return t
}

// SetBold enables or disables bold text.
func (t *Ticket) SetBold(on bool) *Ticket {
	b := byte(0)
	if on {
		b = 1
	}
	t.buf.Write([]byte{ESC, 'E', b})
	return t
}

// SetFontSize sets the character size. Use FontNormal or FontDouble.
func (t *Ticket) SetFontSize(size byte) *Ticket {
	t.buf.Write([]byte{GS, '!', size})
	return t
}

// Text writes a line of text followed by a line feed.
func (t *Ticket) Text(s string) *Ticket {
	t.buf.WriteString(s)
	t.buf.WriteByte(LF)
	return t
}

// TextF writes a formatted line of text followed by a line feed.
func (t *Ticket) TextF(format string, args ...interface{}) *Ticket {
	t.buf.WriteString(fmt.Sprintf(format, args...))
	t.buf.WriteByte(LF)
	return t
}

// Separator prints a full-width separator line.
func (t *Ticket) Separator(char byte) *Ticket {
	t.buf.WriteString(strings.Repeat(string(char), t.width))
	t.buf.WriteByte(LF)
	return t
}

// KeyValue prints a left-aligned key and right-aligned value on one line.
// Example: "SUBTOTAL                    $61.000"
func (t *Ticket) KeyValue(key, value string) *Ticket {
	spaces := t.width - len(key) - len(value)
	if spaces < 1 {
		spaces = 1
	}
	t.buf.WriteString(key)
	t.buf.WriteString(strings.Repeat(" ", spaces))
	t.buf.WriteString(value)
	t.buf.WriteByte(LF)
	return t
}

// LineItem prints an invoice table row: name, quantity, unit price and
// line total. The name column absorbs whatever width the numeric columns
// leave over; long names are truncated rather than wrapped so rows stay
// one line each.
func (t *Ticket) LineItem(name string, qty int, unit, total string) *Ticket {
	const qtyW, unitW, totalW = 4, 10, 11
	nameW := t.width - qtyW - unitW - totalW
	if nameW < 8 {
		nameW = 8
	}
	if len(name) > nameW {
		name = name[:nameW]
	}
	t.buf.WriteString(fmt.Sprintf("%-*s%*d%*s%*s", nameW, name, qtyW, qty, unitW, unit, totalW, total))
	t.buf.WriteByte(LF)
	return t
}

// Cut sends the paper cut command (full cut).
func (t *Ticket) Cut() *Ticket {
	t.buf.Write([]byte{GS, 'V', 0x00})
	return t
}

// OpenDrawer pulses the cash drawer kick-out connector (pin 2).
func (t *Ticket) OpenDrawer() *Ticket {
	t.buf.Write([]byte{ESC, 'p', 0, 25, 250})
	return t
}

// Width returns the configured character width.
func (t *Ticket) Width() int {
	return t.width
}

// Bytes returns the accumulated ESC/POS byte stream.
func (t *Ticket) Bytes() []byte {
	return t.buf.Bytes()
}

// Reset clears the buffer and reinitializes the ticket.
func (t *Ticket) Reset() *Ticket {
	t.buf.Reset()
	t.init()
	return t
}
