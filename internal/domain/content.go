package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ContentType discriminates the two card content variants.
type ContentType string

// Possible content type values
const (
	ContentTypeFrontBack ContentType = "front_back"
	ContentTypeCloze     ContentType = "cloze"
)

// Content validation errors
var (
	ErrContentTypeInvalid  = errors.New("card content type must be front_back or cloze")
	ErrContentFrontEmpty   = errors.New("front/back card must have a non-empty front")
	ErrContentBackEmpty    = errors.New("front/back card must have a non-empty back")
	ErrContentClozeEmpty   = errors.New("cloze card must have non-empty text")
	ErrContentVariantMixed = errors.New("exactly one content variant must be populated")
)

// FrontBackContent is the payload of a classic question/answer card.
type FrontBackContent struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// ClozeContent is the payload of a fill-in-the-blank card. Text contains
// zero or more {{N::answer}} markers, where N is a positive marker group id.
type ClozeContent struct {
	Text string `json:"text"`
}

// CardContent is a tagged union of the two card variants. Exactly one payload
// is populated, matching Type; this is enforced at construction and on every
// Validate call rather than modeled as optional-everything.
type CardContent struct {
	Type      ContentType       `json:"type"`
	FrontBack *FrontBackContent `json:"front_back,omitempty"`
	Cloze     *ClozeContent     `json:"cloze,omitempty"`
}

// NewFrontBackContent creates validated front/back card content.
func NewFrontBackContent(front, back string) (CardContent, error) {
	content := CardContent{
		Type:      ContentTypeFrontBack,
		FrontBack: &FrontBackContent{Front: front, Back: back},
	}
	if err := content.Validate(); err != nil {
		return CardContent{}, err
	}
	return content, nil
}

// NewClozeContent creates validated cloze card content.
func NewClozeContent(text string) (CardContent, error) {
	content := CardContent{
		Type:  ContentTypeCloze,
		Cloze: &ClozeContent{Text: text},
	}
	if err := content.Validate(); err != nil {
		return CardContent{}, err
	}
	return content, nil
}

// Validate checks that the content type is known and that exactly the
// matching payload variant is populated.
func (c CardContent) Validate() error {
	switch c.Type {
	case ContentTypeFrontBack:
		if c.FrontBack == nil || c.Cloze != nil {
			return ErrContentVariantMixed
		}
		if c.FrontBack.Front == "" {
			return ErrContentFrontEmpty
		}
		if c.FrontBack.Back == "" {
			return ErrContentBackEmpty
		}
	case ContentTypeCloze:
		if c.Cloze == nil || c.FrontBack != nil {
			return ErrContentVariantMixed
		}
		if c.Cloze.Text == "" {
			return ErrContentClozeEmpty
		}
	default:
		return ErrContentTypeInvalid
	}
	return nil
}

// MarshalJSON serializes the content for JSONB storage, validating first so
// an unpopulated union can never reach the database.
func (c CardContent) MarshalJSON() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("cannot marshal card content: %w", err)
	}

	type alias CardContent
	return json.Marshal(alias(c))
}

// UnmarshalJSON deserializes content from JSONB storage and re-validates the
// union so malformed rows surface as errors instead of half-populated values.
func (c *CardContent) UnmarshalJSON(data []byte) error {
	type alias CardContent
	var decoded alias
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	*c = CardContent(decoded)
	return c.Validate()
}
