package slideshow_test

import (
	"testing"

	"github.com/adee/portfolio/internal/slideshow"
	"github.com/stretchr/testify/assert"
)

func reels() []slideshow.Entry {
	return []slideshow.Entry{
		{Kind: slideshow.KindYouTube, VideoID: "BeiJyFJ36KM", Title: "Violin Reel"},
		{Kind: slideshow.KindYouTube, VideoID: "A2uiy_tByd8", Title: "Keyboard Conducting Reel"},
		{Kind: slideshow.KindImage, Src: "/images/pit.jpg"},
	}
}

func TestShow_Wraparound(t *testing.T) {
	s := slideshow.New(reels())
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, 2, s.PrevIndex())
	assert.Equal(t, 1, s.NextIndex())

	s.GoTo(s.PrevIndex())
	assert.Equal(t, 2, s.Index())
	assert.Equal(t, 0, s.NextIndex())
}

func TestShow_GoToClamps(t *testing.T) {
	s := slideshow.At(reels(), 9)
	assert.Equal(t, 2, s.Index())
	assert.Equal(t, 1, s.PrevIndex())
	assert.Equal(t, 0, s.NextIndex())

	s.GoTo(-3)
	assert.Equal(t, 0, s.Index())
}

func TestShow_Empty(t *testing.T) {
	var s slideshow.Show

	_, ok := s.Current()

	assert.False(t, ok)
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, 0, s.NextIndex())
	assert.Equal(t, 0, s.PrevIndex())
	assert.Equal(t, 0, s.Len())
}

func TestEntry_EmbedURLAndAlt(t *testing.T) {
	entries := reels()

	assert.Equal(t, "https://www.youtube.com/embed/BeiJyFJ36KM", entries[0].EmbedURL())
	assert.Equal(t, "/images/pit.jpg", entries[2].EmbedURL())
	assert.Equal(t, "Violin Reel", entries[0].Alt(0))
	assert.Equal(t, "Slide 3", entries[2].Alt(2))
}
