package services

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"ingressos/config"
)

// ErrArtifactsDisabled reports that no template image is available.
var ErrArtifactsDisabled = errors.New("ticket image generation disabled: template not found")

// DisabledArtifacts replaces the stamper when the template image is missing
// at startup. Tickets still get issued and emailed, just without the image.
type DisabledArtifacts struct{}

func (DisabledArtifacts) Generate(string) (string, error) {
	return "", ErrArtifactsDisabled
}

// ArtifactService stamps ticket codes onto the event template image.
type ArtifactService struct {
	templatePath string
	fontPath     string
	outDir       string
}

func NewArtifactService(cfg *config.Config) *ArtifactService {
	return &ArtifactService{
		templatePath: cfg.TicketTemplate,
		fontPath:     cfg.TicketFont,
		outDir:       cfg.ArtifactDir,
	}
}

// Generate renders the stamped image for a ticket code and writes it to the
// artifact directory as <code>.png. Returns the saved path.
func (s *ArtifactService) Generate(code string) (string, error) {
	src, err := imaging.Open(s.templatePath)
	if err != nil {
		return "", fmt.Errorf("generate %s: open template: %w", code, err)
	}
	img := imaging.Clone(src)

	stampCode(img, s.loadFace(), "#"+code)

	if err := os.MkdirAll(s.outDir, 0o755); err != nil {
		return "", fmt.Errorf("generate %s: mkdir: %w", code, err)
	}

	outPath := filepath.Join(s.outDir, code+".png")
	if err := imaging.Save(img, outPath); err != nil {
		return "", fmt.Errorf("generate %s: save: %w", code, err)
	}

	return outPath, nil
}

// loadFace parses the configured TTF at 48pt. Any problem with the font file
// falls back to the builtin bitmap face so a ticket still gets stamped.
func (s *ArtifactService) loadFace() font.Face {
	raw, err := os.ReadFile(s.fontPath)
	if err != nil {
		return basicfont.Face7x13
	}
	parsed, err := opentype.Parse(raw)
	if err != nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    48,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

// stampCode draws the text in white near the bottom right corner, keeping a
// fixed margin from both edges.
func stampCode(img *image.NRGBA, face font.Face, text string) {
	const margin = 40

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 255}),
		Face: face,
	}

	width := d.MeasureString(text).Ceil()
	bounds := img.Bounds()

	x := bounds.Dx() - width - margin
	y := bounds.Dy() - margin - face.Metrics().Descent.Ceil()

	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}
