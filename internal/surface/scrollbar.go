package surface

// scrollState tracks the first visible content row of a viewport.
type scrollState struct {
	top      int
	viewport int
	content  int
}

func (s *scrollState) maxTop() int {
	return max(0, s.content-s.viewport)
}

func (s *scrollState) clamp() {
	s.top = max(0, min(s.top, s.maxTop()))
}

func (s *scrollState) set(viewport, content int) {
	s.viewport = max(0, viewport)
	s.content = max(0, content)
	s.clamp()
}

func (s *scrollState) by(delta int) bool {
	return s.to(s.top + delta)
}

func (s *scrollState) to(top int) bool {
	prev := s.top
	s.top = top
	s.clamp()
	return s.top != prev
}

// scrollable reports whether content overflows the viewport.
func (s *scrollState) scrollable() bool {
	return s.content > s.viewport && s.viewport > 0
}

// thumb returns the scrollbar rows [start, end) covered by the thumb.
// Products are taken before dividing and results floor; the thumb is
// always at least one row and never leaves the track.
func (s *scrollState) thumb() (start, end int) {
	if !s.scrollable() {
		return 0, 0
	}
	vh, ch := s.viewport, s.content
	start = s.top * vh / ch
	end = (s.top + vh) * vh / ch
	if end <= start {
		end = start + 1
	}
	if end > vh {
		end = vh
		start = min(start, end-1)
	}
	return start, end
}
