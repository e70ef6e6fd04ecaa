package deck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_Manifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ManifestName), `title: Our Work
slides:
  - title: Spring Launch
    image: img/spring.png
    caption: "**Client**: Acme"
  - title: Text only
`)

	d, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "Our Work", d.Title)
	require.Equal(t, 2, d.Len())
	require.Equal(t, dir, d.Dir)
	require.Equal(t, "**Client**: Acme", d.Slides[0].Caption)
	require.Equal(t, filepath.Join(dir, "img", "spring.png"), d.ImagePath(0))
	require.Empty(t, d.ImagePath(1))
	require.Empty(t, d.ImagePath(5))
}

func TestLoad_ManifestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "slides:\n  - image: /abs/poster.png\n")

	d, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/abs/poster.png", d.ImagePath(0))
}

func TestLoad_ScansDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "02_autumn-fair.JPG"), "x")
	writeFile(t, filepath.Join(dir, "01_spring_launch.png"), "x")
	writeFile(t, filepath.Join(dir, "notes.txt"), "x")
	writeFile(t, filepath.Join(dir, ".hidden.png"), "x")
	writeFile(t, filepath.Join(dir, "sub", "nested.png"), "x")

	d, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Base(dir), d.Title)
	require.Equal(t, []Slide{
		{Title: "spring launch", Image: "01_spring_launch.png"},
		{Title: "autumn fair", Image: "02_autumn-fair.JPG"},
	}, d.Slides)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("empty directory", func(t *testing.T) {
		_, err := Load(t.TempDir())
		require.ErrorIs(t, err, ErrNoSlides)
	})
	t.Run("empty manifest", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ManifestName), "title: nothing\n")
		_, err := Load(dir)
		require.ErrorIs(t, err, ErrNoSlides)
	})
	t.Run("invalid yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ManifestName), "slides: [\n")
		_, err := Load(dir)
		require.ErrorContains(t, err, "parsing manifest")
	})
	t.Run("blank slide", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ManifestName), "slides:\n  - caption: hi\n")
		_, err := Load(dir)
		require.ErrorContains(t, err, "slide 0: title or image is required")
	})
	t.Run("escaping image", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ManifestName), "slides:\n  - image: ../../etc/passwd\n")
		_, err := Load(dir)
		require.ErrorContains(t, err, "escapes the deck directory")
	})
}

func TestTitleFromFile(t *testing.T) {
	require.Equal(t, "spring launch", titleFromFile("003-spring_launch.webp"))
	require.Equal(t, "poster", titleFromFile("poster.png"))
	require.Equal(t, "123.png", titleFromFile("123.png"))
}

func TestDeck_SlidesForImage(t *testing.T) {
	d := &Deck{Dir: "/decks/a", Slides: []Slide{
		{Image: "x.png"}, {Image: "y.png"}, {Image: "x.png"}, {Title: "t"},
	}}
	require.Equal(t, []int{0, 2}, d.SlidesForImage("/decks/a/x.png"))
	require.Equal(t, []int{0, 2}, d.SlidesForImage("/decks/a/./x.png"))
	require.Empty(t, d.SlidesForImage("/decks/a/z.png"))
}
