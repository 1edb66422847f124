package testutil

import "time"

// slideData holds the parts of one slide to be written.
type slideData struct {
	title    string
	body     string
	notes    string
	duration time.Duration
}

// SlideOption configures a slide during builder setup.
type SlideOption func(*slideData)

// Body sets the markdown below the slide's heading.
func Body(body string) SlideOption {
	return func(s *slideData) { s.body = body }
}

// Notes sets the presenter notes.
func Notes(notes string) SlideOption {
	return func(s *slideData) { s.notes = notes }
}

// Duration sets the slide's autoplay delay directive.
func Duration(d time.Duration) SlideOption {
	return func(s *slideData) { s.duration = d }
}

// markdown renders the slide the way an author would write it.
func (s slideData) markdown() string {
	out := ""
	if s.title != "" {
		out = "# " + s.title + "\n"
	}
	if s.body != "" {
		out += "\n" + s.body + "\n"
	}
	if s.duration > 0 {
		out += "\n<!-- duration: " + s.duration.String() + " -->\n"
	}
	if s.notes != "" {
		out += "\n???\n" + s.notes + "\n"
	}
	return out
}
