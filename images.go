package blogify

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	jpegQuality   = 80
	uploadsSubdir = "uploads"
)

// AttachFeaturedImage validates an uploaded image against the configured
// content-type allow-list and size limit, then decodes it and writes one
// JPEG rendition per configured size preset (plus the original) under the
// static uploads directory. The post's FeaturedImage metadata records the
// uploaded content type and byte size, which is what ValidatePost checks
// on subsequent saves.
func (a *App) AttachFeaturedImage(p *Post, src io.Reader, originalName, contentType string) error {
	raw, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	v := newValidator()
	v.check(contentTypeAllowed(a.Config.FeaturedImageContentTypes, contentType),
		"featured_image", MsgInvalidImageType)
	v.check(a.Config.FeaturedImageMaxSize <= 0 || int64(len(raw)) <= a.Config.FeaturedImageMaxSize,
		"featured_image", MsgImageTooLarge)
	if !v.valid() {
		return ValidationError{Errors: v.errors}
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	dir := filepath.Join(a.staticDir, uploadsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}

	base := a.ensureUniqueBase(dir, slugifyFilename(originalName))
	filename := base + ".jpg"

	if err := writeJPEG(filepath.Join(dir, filename), img); err != nil {
		return err
	}
	for name, size := range a.Config.FeaturedImageSizes {
		variant := resizeToLimit(img, size.Width, size.Height)
		if err := writeJPEG(filepath.Join(dir, base+"-"+name+".jpg"), variant); err != nil {
			return err
		}
	}

	p.FeaturedImage = &FeaturedImage{
		Filename:    filename,
		ContentType: contentType,
		ByteSize:    int64(len(raw)),
	}
	return nil
}

// RemoveFeaturedImage deletes the stored renditions and clears the
// attachment metadata.
func (a *App) RemoveFeaturedImage(p *Post) {
	if p.FeaturedImage == nil {
		return
	}
	dir := filepath.Join(a.staticDir, uploadsSubdir)
	os.Remove(filepath.Join(dir, p.FeaturedImage.Filename))
	for name := range a.Config.FeaturedImageSizes {
		os.Remove(filepath.Join(dir, variantFilename(p.FeaturedImage.Filename, name)))
	}
	p.FeaturedImage = nil
}

// FeaturedImageURL resolves the named variant of a post's featured image,
// returning defaultURL when no image is attached or the variant name is
// unknown.
func (a *App) FeaturedImageURL(p *Post, variant, defaultURL string) string {
	if p == nil || !p.HasFeaturedImage() {
		return defaultURL
	}
	if variant != "" {
		if _, ok := a.Config.FeaturedImageSizes[variant]; !ok {
			return defaultURL
		}
	}
	return a.urls.ImageURL(p, variant)
}

// variantFilename maps "post.jpg" + "medium" to "post-medium.jpg".
// An empty variant names the original rendition.
func variantFilename(filename, variant string) string {
	if variant == "" {
		return filename
	}
	ext := filepath.Ext(filename)
	return strings.TrimSuffix(filename, ext) + "-" + variant + ext
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if s := Slugify(base); s != "" {
		return s
	}
	return "image"
}

// ensureUniqueBase appends a counter if files with this base already exist.
func (a *App) ensureUniqueBase(dir, base string) string {
	candidate := base
	counter := 1
	for {
		if _, err := os.Stat(filepath.Join(dir, candidate+".jpg")); os.IsNotExist(err) {
			return candidate
		}
		counter++
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}

// resizeToLimit scales img down to fit within maxW x maxH, preserving
// aspect ratio. Images already within the bounds are returned unchanged;
// nothing is ever scaled up.
func resizeToLimit(img image.Image, maxW, maxH int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxW && h <= maxH {
		return img
	}
	scaleW := float64(maxW) / float64(w)
	scaleH := float64(maxH) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func writeJPEG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	return nil
}
