package landingzone

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/controltower/document"
	smithydocument "github.com/aws/smithy-go/document"
	"github.com/mitchellh/copystructure"
)

// GovernedRegionsKey is the manifest key listing the governed regions.
const GovernedRegionsKey = "governedRegions"

// Manifest is a decoded landing zone manifest document.
type Manifest map[string]any

// DecodeManifest decodes a manifest document returned by GetLandingZone.
func DecodeManifest(doc document.Interface) (Manifest, error) {
	if doc == nil {
		return Manifest{}, nil
	}
	var m map[string]any
	if err := doc.UnmarshalSmithyDocument(&m); err != nil {
		return nil, fmt.Errorf("failed to decode landing zone manifest: %w", err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return Manifest(m), nil
}

// GovernedRegions returns the regions listed under governedRegions.
func (m Manifest) GovernedRegions() []string {
	raw, ok := m[GovernedRegionsKey].([]any)
	if !ok {
		if regions, ok := m[GovernedRegionsKey].([]string); ok {
			return append([]string(nil), regions...)
		}
		return nil
	}
	regions := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			regions = append(regions, s)
		}
	}
	return regions
}

// WithGovernedRegions returns a deep copy of m whose governedRegions is
// exactly regions. m itself is left untouched.
func (m Manifest) WithGovernedRegions(regions []string) (Manifest, error) {
	if m == nil {
		m = Manifest{}
	}
	copied, err := copystructure.Copy(map[string]any(m))
	if err != nil {
		return nil, fmt.Errorf("failed to copy landing zone manifest: %w", err)
	}
	out := Manifest(copied.(map[string]any))

	governed := make([]any, 0, len(regions))
	for _, r := range regions {
		governed = append(governed, r)
	}
	out[GovernedRegionsKey] = governed
	return out, nil
}

// Document encodes m for UpdateLandingZone.
func (m Manifest) Document() document.Interface {
	return document.NewLazyDocument(map[string]any(m))
}

// Plain returns a copy of m for printing. Decoded document numbers are
// strings underneath, so they become json.Number to encode as numbers.
func (m Manifest) Plain() map[string]any {
	out, _ := plainValue(map[string]any(m)).(map[string]any)
	return out
}

func plainValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, e := range tv {
			out[k] = plainValue(e)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = plainValue(e)
		}
		return out
	case smithydocument.Number:
		return json.Number(tv)
	}
	return v
}
