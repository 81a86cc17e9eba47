// Package knowledge loads the values/principles/SOPs corpus from YAML
// into an immutable in-memory knowledge base and answers corpus queries.
// The corpus is small (tens of entries) and fully resident; there is no
// persistence or indexing behind it.
package knowledge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"praxis/internal/domain"
)

// Base is the loaded corpus. All slices are read-only after Load.
type Base struct {
	Values     domain.ValueSet
	Principles []domain.Principle
	SOPs       []domain.SOP
}

type valuesFile struct {
	CoreValues     []domain.Value `yaml:"core_values"`
	OptionalValues []domain.Value `yaml:"optional_values"`
}

type principlesFile struct {
	Principles []domain.Principle `yaml:"principles"`
}

type sopsFile struct {
	SOPs []domain.SOP `yaml:"sops"`
}

// Load reads values.yaml, principles.yaml, and sops.yaml from dataDir.
// Missing files leave the corresponding collection empty; a malformed
// file or a duplicate integer id is a load error.
func Load(dataDir string) (*Base, error) {
	base := &Base{}

	var vf valuesFile
	if err := readYAML(filepath.Join(dataDir, "values.yaml"), &vf); err != nil {
		return nil, err
	}
	for _, v := range vf.CoreValues {
		v.IsCore = true
		base.Values.Values = append(base.Values.Values, v)
	}
	base.Values.Values = append(base.Values.Values, vf.OptionalValues...)

	var pf principlesFile
	if err := readYAML(filepath.Join(dataDir, "principles.yaml"), &pf); err != nil {
		return nil, err
	}
	seen := make(map[int]bool, len(pf.Principles))
	for _, p := range pf.Principles {
		if seen[p.ID] {
			return nil, fmt.Errorf("principles.yaml: duplicate principle id %d", p.ID)
		}
		seen[p.ID] = true
	}
	base.Principles = pf.Principles

	var sf sopsFile
	if err := readYAML(filepath.Join(dataDir, "sops.yaml"), &sf); err != nil {
		return nil, err
	}
	seenSOP := make(map[int]bool, len(sf.SOPs))
	for _, s := range sf.SOPs {
		if seenSOP[s.ID] {
			return nil, fmt.Errorf("sops.yaml: duplicate sop id %d", s.ID)
		}
		seenSOP[s.ID] = true
	}
	base.SOPs = sf.SOPs

	return base, nil
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// PrincipleByID returns the principle with the given id, or nil.
func (b *Base) PrincipleByID(id int) *domain.Principle {
	for i := range b.Principles {
		if b.Principles[i].ID == id {
			return &b.Principles[i]
		}
	}
	return nil
}

// SOPByID returns the SOP with the given id, or nil.
func (b *Base) SOPByID(id int) *domain.SOP {
	for i := range b.SOPs {
		if b.SOPs[i].ID == id {
			return &b.SOPs[i]
		}
	}
	return nil
}

// ValueByID returns the value with the given id, or false.
func (b *Base) ValueByID(id string) (domain.Value, bool) {
	return b.Values.ByID(id)
}

// PrinciplesByTag returns principles matching any of the given tags.
func (b *Base) PrinciplesByTag(tags ...string) []domain.Principle {
	var out []domain.Principle
	for _, p := range b.Principles {
		for _, tag := range tags {
			if p.HasTag(tag) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Search finds principles whose title or tags contain the query,
// case-insensitive.
func (b *Base) Search(query string) []domain.Principle {
	q := strings.ToLower(query)
	var out []domain.Principle
	for _, p := range b.Principles {
		if strings.Contains(strings.ToLower(p.Title), q) {
			out = append(out, p)
			continue
		}
		for _, tag := range p.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// SOPsTriggeredBy returns the SOPs whose trigger keywords appear in the
// text. Case-insensitive substring matching over each SOP's trigger
// keyword sets.
func (b *Base) SOPsTriggeredBy(text string) []domain.SOP {
	var out []domain.SOP
	for i := range b.SOPs {
		if b.SOPs[i].Triggered(text) {
			out = append(out, b.SOPs[i])
		}
	}
	return out
}
