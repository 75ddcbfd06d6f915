package domain

import (
	"encoding/json"
	"testing"
)

func TestCardContentUnionEnforcement(t *testing.T) {
	t.Parallel()

	if _, err := NewFrontBackContent("", "back"); err != ErrContentFrontEmpty {
		t.Errorf("Expected %v, got %v", ErrContentFrontEmpty, err)
	}

	if _, err := NewFrontBackContent("front", ""); err != ErrContentBackEmpty {
		t.Errorf("Expected %v, got %v", ErrContentBackEmpty, err)
	}

	if _, err := NewClozeContent(""); err != ErrContentClozeEmpty {
		t.Errorf("Expected %v, got %v", ErrContentClozeEmpty, err)
	}

	// Both payloads populated is rejected even with a valid type tag.
	mixed := CardContent{
		Type:      ContentTypeFrontBack,
		FrontBack: &FrontBackContent{Front: "f", Back: "b"},
		Cloze:     &ClozeContent{Text: "t"},
	}
	if err := mixed.Validate(); err != ErrContentVariantMixed {
		t.Errorf("Expected %v, got %v", ErrContentVariantMixed, err)
	}

	// Missing payload for the declared type is rejected.
	empty := CardContent{Type: ContentTypeCloze}
	if err := empty.Validate(); err != ErrContentVariantMixed {
		t.Errorf("Expected %v, got %v", ErrContentVariantMixed, err)
	}

	unknown := CardContent{Type: "audio"}
	if err := unknown.Validate(); err != ErrContentTypeInvalid {
		t.Errorf("Expected %v, got %v", ErrContentTypeInvalid, err)
	}
}

func TestCardContentJSONRejectsMalformedRows(t *testing.T) {
	t.Parallel()

	// A row with a type tag but no payload must not deserialize into a
	// half-populated union.
	var content CardContent
	err := json.Unmarshal([]byte(`{"type":"front_back"}`), &content)
	if err != ErrContentVariantMixed {
		t.Errorf("Expected %v, got %v", ErrContentVariantMixed, err)
	}
}

func TestCardContentJSONRoundTrip(t *testing.T) {
	t.Parallel()

	original, err := NewClozeContent("The {{1::heart}} pumps {{2::blood}}")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var decoded CardContent
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if decoded.Type != ContentTypeCloze || decoded.Cloze == nil {
		t.Fatalf("Expected cloze variant, got %+v", decoded)
	}
	if decoded.Cloze.Text != original.Cloze.Text {
		t.Errorf("Expected text %q, got %q", original.Cloze.Text, decoded.Cloze.Text)
	}
}
