package domain

// stressWindow is a fixed-capacity FIFO of daily stress contributions whose
// sum (the DHW) is maintained incrementally: each push adds the new value
// and, once the window is full, subtracts the evicted one.
type stressWindow struct {
	buf   []float64
	head  int
	count int
	sum   float64
}

func newStressWindow(capacity int) *stressWindow {
	return &stressWindow{buf: make([]float64, capacity)}
}

// Push appends v, evicting the oldest entry once the window is at capacity.
func (w *stressWindow) Push(v float64) {
	if w.count == len(w.buf) {
		w.sum -= w.buf[w.head]
		w.buf[w.head] = v
		w.head = (w.head + 1) % len(w.buf)
	} else {
		w.buf[(w.head+w.count)%len(w.buf)] = v
		w.count++
	}
	w.sum += v
}

func (w *stressWindow) Sum() float64 { return w.sum }
func (w *stressWindow) Len() int     { return w.count }

// alertWindow is a fixed-capacity FIFO of daily alert levels reporting the
// maximum of its current contents. Capacity is small (7), so the max is
// recomputed on demand rather than tracked with a monotonic deque.
type alertWindow struct {
	buf   []AlertLevel
	head  int
	count int
}

func newAlertWindow(capacity int) *alertWindow {
	return &alertWindow{buf: make([]AlertLevel, capacity)}
}

func (w *alertWindow) Push(level AlertLevel) {
	if w.count == len(w.buf) {
		w.buf[w.head] = level
		w.head = (w.head + 1) % len(w.buf)
	} else {
		w.buf[(w.head+w.count)%len(w.buf)] = level
		w.count++
	}
}

func (w *alertWindow) Max() AlertLevel {
	var max AlertLevel
	for i := 0; i < w.count; i++ {
		if l := w.buf[(w.head+i)%len(w.buf)]; l > max {
			max = l
		}
	}
	return max
}

func (w *alertWindow) Len() int { return w.count }
