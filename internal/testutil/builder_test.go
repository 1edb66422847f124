package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/folio/internal/source"
)

func TestBuilder_Markdown(t *testing.T) {
	b := NewBuilder(t).
		WithSlide("Intro", Body("Hello"), Notes("smile"), Duration(8*time.Second)).
		WithSlide("End")

	slides := source.ParseDeck("talk.md", b.Markdown(), 0)
	require.Len(t, slides, 2)
	require.Equal(t, "Intro", slides[0].Title)
	require.Contains(t, slides[0].Body, "Hello")
	require.Equal(t, "smile", slides[0].Notes)
	require.Equal(t, 8*time.Second, slides[0].Duration)
	require.Equal(t, "End", slides[1].Title)
	require.Zero(t, slides[1].Duration)
}

func TestBuilder_Build(t *testing.T) {
	path := NewBuilder(t).Named("keynote").WithStandardTalk().Build()

	d, err := source.Open(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "keynote", d.Title)

	slides, err := source.NewLoader().LoadAll(context.Background(), d.Entries)
	require.NoError(t, err)
	require.Len(t, slides, 3)
	require.Equal(t, "Slide Two", slides[1].Title)
}

func TestBuilder_BuildManifest(t *testing.T) {
	path := NewBuilder(t).WithStandardTalk().BuildManifest("Conference", 4*time.Second)

	d, err := source.Open(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "Conference", d.Title)
	require.Len(t, d.Entries, 3)

	slides, err := source.NewLoader().LoadAll(context.Background(), d.Entries)
	require.NoError(t, err)
	require.Len(t, slides, 3)
	require.Equal(t, "Slide Three", slides[2].Title)
}
