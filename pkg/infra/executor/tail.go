package executor

// tailBuffer keeps only the last limit bytes written to it.
type tailBuffer struct {
	limit int
	buf   []byte
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (x *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if x.limit <= 0 {
		return n, nil
	}
	if len(p) >= x.limit {
		x.buf = append(x.buf[:0], p[len(p)-x.limit:]...)
		return n, nil
	}

	x.buf = append(x.buf, p...)
	if over := len(x.buf) - x.limit; over > 0 {
		x.buf = append(x.buf[:0], x.buf[over:]...)
	}
	return n, nil
}

func (x *tailBuffer) Bytes() []byte {
	return x.buf
}

// limitBuffer keeps up to limit bytes and calls onOverflow once when more is
// written. Excess bytes are discarded so the writer never blocks the process.
type limitBuffer struct {
	limit      int
	buf        []byte
	overflowed bool
	onOverflow func()
}

func newLimitBuffer(limit int, onOverflow func()) *limitBuffer {
	return &limitBuffer{limit: limit, onOverflow: onOverflow}
}

func (x *limitBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if x.overflowed {
		return n, nil
	}
	if x.limit > 0 && len(x.buf)+len(p) > x.limit {
		x.overflowed = true
		x.buf = nil
		if x.onOverflow != nil {
			x.onOverflow()
		}
		return n, nil
	}
	x.buf = append(x.buf, p...)
	return n, nil
}

func (x *limitBuffer) Bytes() []byte {
	return x.buf
}

func (x *limitBuffer) Overflowed() bool {
	return x.overflowed
}
