package blogify

import (
	"fmt"
	"strings"
)

// Validation messages keyed by field in ValidationError.Errors.
const (
	MsgMissingTitle     = "must be provided"
	MsgDuplicateSlug    = "has already been taken"
	MsgInvalidImageType = "has an unsupported content type"
	MsgImageTooLarge    = "exceeds the maximum allowed size"
)

// ValidationError carries field-level validation failures. It is never
// fatal: boundaries re-present the input with these messages.
type ValidationError struct {
	Errors map[string]string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("blogify: validation failed: %+v", e.Errors)
}

// Has reports whether a failure was recorded for field.
func (e ValidationError) Has(field string) bool {
	_, ok := e.Errors[field]
	return ok
}

type validator struct {
	errors map[string]string
}

func newValidator() *validator {
	return &validator{errors: make(map[string]string)}
}

func (v *validator) check(ok bool, field, message string) {
	if !ok {
		if _, exists := v.errors[field]; !exists {
			v.errors[field] = message
		}
	}
}

func (v *validator) valid() bool {
	return len(v.errors) == 0
}

// SlugTakenFunc reports whether slug belongs to a post other than
// excludeID. The persistence layer supplies this; Store.SlugTaken is the
// default implementation.
type SlugTakenFunc func(slug string, excludeID int64) (bool, error)

// ValidatePost checks a post against the engine's rules: title presence,
// slug uniqueness (only for non-blank slugs; blank slugs are allowed
// transiently before derivation), and featured-image content type and
// byte size (only when an image is attached). A ValidationError is
// returned with one message per failed field; lookup errors from
// slugTaken propagate unmodified.
func ValidatePost(p *Post, cfg Config, slugTaken SlugTakenFunc) error {
	v := newValidator()

	v.check(strings.TrimSpace(p.Title) != "", "title", MsgMissingTitle)

	if strings.TrimSpace(p.Slug) != "" && slugTaken != nil {
		taken, err := slugTaken(p.Slug, p.ID)
		if err != nil {
			return err
		}
		v.check(!taken, "slug", MsgDuplicateSlug)
	}

	if img := p.FeaturedImage; img != nil {
		v.check(contentTypeAllowed(cfg.FeaturedImageContentTypes, img.ContentType),
			"featured_image", MsgInvalidImageType)
		v.check(cfg.FeaturedImageMaxSize <= 0 || img.ByteSize <= cfg.FeaturedImageMaxSize,
			"featured_image", MsgImageTooLarge)
	}

	if !v.valid() {
		return ValidationError{Errors: v.errors}
	}
	return nil
}

func contentTypeAllowed(allowed []string, contentType string) bool {
	for _, t := range allowed {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}
