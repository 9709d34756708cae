package parallel

// MinBandRows is the smallest number of rows handed to one work item.
// Smaller bands cost more in scheduling than they save.
const MinBandRows = 8

// Bands splits [0, height) into at most n contiguous half-open row ranges
// of at least MinBandRows rows each (the last band may be shorter).
func Bands(height, n int) [][2]int {
	if height <= 0 {
		return nil
	}
	n = max(n, 1)
	size := max((height+n-1)/n, MinBandRows)

	bands := make([][2]int, 0, (height+size-1)/size)
	for y0 := 0; y0 < height; y0 += size {
		bands = append(bands, [2]int{y0, min(y0+size, height)})
	}
	return bands
}

// ForRows calls fn for every row band of [0, height). With a nil pool, a
// closed pool, or a single band, fn runs on the calling goroutine.
// ForRows returns after every band has been processed.
func ForRows(p *WorkerPool, height int, fn func(y0, y1 int)) {
	workers := 1
	if p != nil && p.IsRunning() {
		workers = p.Workers()
	}

	bands := Bands(height, workers)
	if len(bands) <= 1 || workers == 1 {
		if height > 0 {
			fn(0, height)
		}
		return
	}

	work := make([]func(), len(bands))
	for i, b := range bands {
		y0, y1 := b[0], b[1]
		work[i] = func() { fn(y0, y1) }
	}
	p.ExecuteAll(work)
}
