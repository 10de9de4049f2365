package variant

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/pusoy/poker"
)

// FileConfig is the HCL layout of a variants file:
//
//	variant "short-deck" {
//	  ordinals = { high_card = 1, pair = 2, ... }
//	  area "front" {
//	    size   = 3
//	    points = { high_card = 1, pair = 1, straight = 1, three_of_a_kind = 3 }
//	  }
//	  special "dragon" { score = 13 }
//	}
type FileConfig struct {
	Variants []VariantConfig `hcl:"variant,block"`
}

// VariantConfig is one variant block.
type VariantConfig struct {
	Name     string          `hcl:"name,label"`
	HandSize int             `hcl:"hand_size,optional"`
	Ordinals map[string]int  `hcl:"ordinals,optional"`
	Areas    []AreaConfig    `hcl:"area,block"`
	Specials []SpecialConfig `hcl:"special,block"`
}

// AreaConfig is an area block; areas are listed weakest first.
type AreaConfig struct {
	Name   string         `hcl:"name,label"`
	Size   int            `hcl:"size"`
	Points map[string]int `hcl:"points"`
}

// SpecialConfig enables a special pattern.
type SpecialConfig struct {
	Pattern string `hcl:"pattern,label"`
	Score   int    `hcl:"score"`
}

// LoadFile parses and validates every variant in an HCL file.
func LoadFile(filename string) ([]*Variant, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read variants file: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source into validated variants.
func Parse(src []byte, filename string) ([]*Variant, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config FileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	variants := make([]*Variant, 0, len(config.Variants))
	for _, vc := range config.Variants {
		v, err := vc.Build()
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, nil
}

// Build applies defaults, converts names to categories and validates.
func (vc VariantConfig) Build() (*Variant, error) {
	v := &Variant{
		Name:     vc.Name,
		HandSize: vc.HandSize,
	}

	// Apply defaults for missing values
	if len(vc.Ordinals) == 0 {
		v.Ordinals = poker.StandardOrdinals()
	} else {
		v.Ordinals = make(poker.Ordinals, len(vc.Ordinals))
		for key, ord := range vc.Ordinals {
			c, err := poker.ParseCategory(key)
			if err != nil {
				return nil, fmt.Errorf("%w: variant %s ordinals: %v", ErrConfiguration, vc.Name, err)
			}
			v.Ordinals[c] = ord
		}
	}

	for _, ac := range vc.Areas {
		area := Area{Name: ac.Name, Size: ac.Size, Points: make(map[poker.Category]int, len(ac.Points))}
		for key, pts := range ac.Points {
			c, err := poker.ParseCategory(key)
			if err != nil {
				return nil, fmt.Errorf("%w: variant %s area %s points: %v", ErrConfiguration, vc.Name, ac.Name, err)
			}
			area.Points[c] = pts
		}
		v.Areas = append(v.Areas, area)
		if vc.HandSize == 0 {
			v.HandSize += ac.Size
		}
	}

	for _, sc := range vc.Specials {
		v.Specials = append(v.Specials, SpecialRule{Pattern: Pattern(sc.Pattern), Score: sc.Score})
	}

	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// LoadFile adds the variants from an HCL file. A missing file leaves the
// registry with its built-ins.
func (r *Registry) LoadFile(filename string) error {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil
	}
	variants, err := LoadFile(filename)
	if err != nil {
		return err
	}
	for _, v := range variants {
		r.variants[v.Name] = v
	}
	return nil
}
