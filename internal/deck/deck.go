// Package deck loads poster decks. A deck is either a deck.yaml manifest or
// a plain directory of images.
package deck

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/posters/internal/log"
)

// ManifestName is the manifest looked up inside a deck directory.
const ManifestName = "deck.yaml"

// ErrNoSlides is returned for a deck without slides.
var ErrNoSlides = errors.New("deck has no slides")

// imageExts are the extensions picked up when scanning a directory.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// Slide is one poster.
type Slide struct {
	Title   string `yaml:"title"`
	Image   string `yaml:"image"`   // relative to the deck directory
	Caption string `yaml:"caption"` // markdown
}

// Deck is an ordered list of slides.
type Deck struct {
	Title  string  `yaml:"title"`
	Slides []Slide `yaml:"slides"`

	// Dir is the directory image paths are resolved against.
	Dir string `yaml:"-"`
}

// Load reads a deck from path. A directory is searched for deck.yaml first
// and otherwise scanned for images in name order.
func Load(path string) (*Deck, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("opening deck: %w", err)
	}

	if !info.IsDir() {
		return loadManifest(path)
	}

	manifest := filepath.Join(path, ManifestName)
	if _, err := os.Stat(manifest); err == nil {
		return loadManifest(manifest)
	}
	return scanDir(path)
}

func loadManifest(path string) (*Deck, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-selected deck
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var d Deck
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	d.Dir = filepath.Dir(path)

	if err := d.Validate(); err != nil {
		return nil, err
	}
	log.Info(log.CatDeck, "Loaded deck manifest", "path", path, "slides", len(d.Slides))
	return &d, nil
}

func scanDir(dir string) (*Deck, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading deck directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if IsImage(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	d := &Deck{Title: filepath.Base(dir), Dir: dir}
	for _, name := range names {
		d.Slides = append(d.Slides, Slide{Title: titleFromFile(name), Image: name})
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	log.Info(log.CatDeck, "Scanned deck directory", "dir", dir, "slides", len(d.Slides))
	return d, nil
}

// IsImage reports whether name has an image extension.
func IsImage(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// titleFromFile turns "02_spring-launch.png" into "spring launch".
func titleFromFile(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.TrimLeft(base, "0123456789")
	base = strings.Trim(strings.NewReplacer("_", " ", "-", " ").Replace(base), " ")
	if base == "" {
		return name
	}
	return base
}

// Validate checks that the deck has slides and each slide shows something.
func (d *Deck) Validate() error {
	if len(d.Slides) == 0 {
		return ErrNoSlides
	}
	for i, s := range d.Slides {
		if s.Title == "" && s.Image == "" {
			return fmt.Errorf("slide %d: title or image is required", i)
		}
		if filepath.IsAbs(s.Image) {
			continue
		}
		if clean := filepath.Clean(s.Image); clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return fmt.Errorf("slide %d: image %q escapes the deck directory", i, s.Image)
		}
	}
	return nil
}

// Len returns the number of slides.
func (d *Deck) Len() int {
	return len(d.Slides)
}

// ImagePath returns the resolved image path of slide i, or "" when the slide
// has no image.
func (d *Deck) ImagePath(i int) string {
	if i < 0 || i >= len(d.Slides) || d.Slides[i].Image == "" {
		return ""
	}
	img := d.Slides[i].Image
	if filepath.IsAbs(img) {
		return img
	}
	return filepath.Join(d.Dir, img)
}

// SlidesForImage returns the indices of every slide showing path.
func (d *Deck) SlidesForImage(path string) []int {
	clean := filepath.Clean(path)
	var out []int
	for i := range d.Slides {
		if p := d.ImagePath(i); p != "" && filepath.Clean(p) == clean {
			out = append(out, i)
		}
	}
	return out
}
