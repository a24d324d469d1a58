package u8g2

// Cursor reads bit fields from a byte slice. Fields are packed least
// significant bit first and may straddle a byte boundary.
type Cursor struct {
	data []byte
	pos  int
	bit  uint
}

func NewCursor(data []byte) Cursor {
	return Cursor{data: data}
}

// Offset returns the byte position of the cursor and the number of bits
// consumed from that byte.
func (c *Cursor) Offset() (int, int) {
	return c.pos, int(c.bit)
}

// ReadUnsigned reads the next n bits, n <= 8. The cursor does not move
// if the read fails.
func (c *Cursor) ReadUnsigned(n int) (uint8, error) {
	if n < 0 || n > 8 {
		return 0, ErrFieldWidth
	}
	if n == 0 {
		return 0, nil
	}
	if c.pos >= len(c.data) {
		return 0, ErrOutOfData
	}
	v := uint(c.data[c.pos]) >> c.bit
	end := c.bit + uint(n)
	pos := c.pos
	if end >= 8 {
		if end > 8 {
			if pos+1 >= len(c.data) {
				return 0, ErrOutOfData
			}
			v |= uint(c.data[pos+1]) << (8 - c.bit)
		}
		pos++
		end -= 8
	}
	c.pos, c.bit = pos, end
	return uint8(v & (1<<n - 1)), nil
}

// ReadSigned reads an n bit field biased by 2^(n-1).
func (c *Cursor) ReadSigned(n int) (int, error) {
	v, err := c.ReadUnsigned(n)
	if err != nil || n == 0 {
		return 0, err
	}
	return int(v) - 1<<(n-1), nil
}

// bitWriter is the inverse of Cursor.
type bitWriter struct {
	buf []byte
	bit uint
}

func (w *bitWriter) writeUnsigned(n int, v uint) {
	for i := 0; i < n; i++ {
		if w.bit == 0 {
			w.buf = append(w.buf, 0)
		}
		if v&(1<<i) != 0 {
			w.buf[len(w.buf)-1] |= 1 << w.bit
		}
		w.bit = (w.bit + 1) % 8
	}
}

func (w *bitWriter) writeSigned(n int, v int) {
	if n == 0 {
		return
	}
	w.writeUnsigned(n, uint(v+1<<(n-1)))
}
