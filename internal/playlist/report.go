package playlist

// Skip records a catalog node left out of a playlist, or rendered with
// fallback values.
type Skip struct {
	Path   string
	Reason string
	// Malformed is set when a file could not be decoded, as opposed to
	// simply being absent or empty.
	Malformed bool
}

// Report summarizes one synthesis run.
type Report struct {
	Entries int
	Streams int
	// Skips lists nodes that produced no entry.
	Skips []Skip
	// Degraded lists nodes whose optional metadata was unreadable; their
	// entries fall back to series-level values.
	Degraded []Skip
}

func (r *Report) add(e Entry) {
	r.Entries++
	r.Streams += len(e.URLs)
}

func (r *Report) skip(path, reason string, malformed bool) {
	r.Skips = append(r.Skips, Skip{Path: path, Reason: reason, Malformed: malformed})
}

func (r *Report) degrade(path, reason string) {
	r.Degraded = append(r.Degraded, Skip{Path: path, Reason: reason, Malformed: true})
}

// Warnings counts the problems caused by malformed files.
func (r Report) Warnings() int {
	n := len(r.Degraded)
	for _, s := range r.Skips {
		if s.Malformed {
			n++
		}
	}
	return n
}
