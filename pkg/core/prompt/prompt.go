// Package prompt provides the composable prompt layer for the agent engine:
// an ordered segment composer, the fixed set of prompt prototypes (one per
// intent template), and the few-shot example loader.
package prompt

// Prompt is an ordered sequence of text segments joined by a separator.
// Rendering is deterministic: segments are concatenated in order, empty
// segments are skipped. A Prompt is owned by a single request and must not
// be shared across goroutines.
type Prompt struct {
	segments []string
	sep      string
}

// New creates a Prompt with the default newline separator. An empty base
// produces an empty prompt.
func New(base string) *Prompt {
	return NewWithSep(base, "\n")
}

// NewWithSep creates a Prompt with an explicit segment separator.
func NewWithSep(base string, sep string) *Prompt {
	p := &Prompt{sep: sep}
	if base != "" {
		p.segments = []string{base}
	}
	return p
}

// String renders the prompt: segments in current order, joined by the
// separator, skipping empty segments.
func (p *Prompt) String() string {
	out := ""
	first := true
	for _, seg := range p.segments {
		if seg == "" {
			continue
		}
		if !first {
			out += p.sep
		}
		out += seg
		first = false
	}
	return out
}

// Prepend inserts a segment at the front.
func (p *Prompt) Prepend(part string) {
	p.segments = append([]string{part}, p.segments...)
}

// Append adds a segment at the end.
func (p *Prompt) Append(part string) {
	p.segments = append(p.segments, part)
}

// Set replaces all segments.
func (p *Prompt) Set(parts []string) {
	p.segments = append([]string(nil), parts...)
}

// Clear removes all segments.
func (p *Prompt) Clear() {
	p.segments = nil
}

// Len returns the number of segments, including empty ones.
func (p *Prompt) Len() int {
	return len(p.segments)
}

// Copy returns an independent copy of the prompt.
func (p *Prompt) Copy() *Prompt {
	cp := &Prompt{sep: p.sep}
	cp.segments = append([]string(nil), p.segments...)
	return cp
}
