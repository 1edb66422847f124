package testutil

import "time"

// WithStandardTalk adds the three-slide talk most tests present.
func (b *Builder) WithStandardTalk() *Builder {
	return b.
		WithSlide("Slide One", Body("First slide"), Notes("Say hello.")).
		WithSlide("Slide Two", Body("Second slide"), Duration(3*time.Second)).
		WithSlide("Slide Three", Body("Third slide"))
}
