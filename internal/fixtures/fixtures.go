// Package fixtures supplies organization and initiative datasets loaded from
// YAML. Callers construct a Provider and pass it to whatever needs sample data.
package fixtures

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"sim-backend/internal/sim"
)

//go:embed demo.yaml
var demoYAML []byte

// ErrNotFound is returned when an organization id is unknown.
var ErrNotFound = errors.New("fixture not found")

// Provider is a read-only source of organizations and their initiatives.
type Provider interface {
	Organizations() []sim.OrganizationProfile
	Organization(id string) (sim.OrganizationProfile, error)
	Initiatives(orgID string) []sim.Initiative
}

type document struct {
	Organizations []sim.OrganizationProfile `yaml:"organizations"`
	Initiatives   []sim.Initiative          `yaml:"initiatives"`
}

// Dataset is an immutable Provider built from a YAML document.
type Dataset struct {
	orgs        []sim.OrganizationProfile
	byID        map[string]int
	initiatives map[string][]sim.Initiative
}

// Demo returns the embedded demo dataset.
func Demo() *Dataset {
	ds, err := Load(bytes.NewReader(demoYAML))
	if err != nil {
		panic(fmt.Sprintf("fixtures: embedded demo dataset: %v", err))
	}
	return ds
}

// Load decodes and validates a dataset. Organization types are normalized;
// initiatives must reference a known organization and carry in-range scores.
func Load(r io.Reader) (*Dataset, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}

	ds := &Dataset{
		byID:        make(map[string]int, len(doc.Organizations)),
		initiatives: make(map[string][]sim.Initiative),
	}
	for _, org := range doc.Organizations {
		if org.ID == "" {
			return nil, fmt.Errorf("organization %q: id is required", org.Name)
		}
		if _, dup := ds.byID[org.ID]; dup {
			return nil, fmt.Errorf("organization %q: duplicate id", org.ID)
		}
		typ, err := sim.ParseOrganizationType(string(org.Type))
		if err != nil {
			return nil, fmt.Errorf("organization %q: %w", org.ID, err)
		}
		org.Type = typ
		if err := sim.ValidateOrganization(org); err != nil {
			return nil, fmt.Errorf("organization %q: %w", org.ID, err)
		}
		ds.byID[org.ID] = len(ds.orgs)
		ds.orgs = append(ds.orgs, org)
	}

	seen := make(map[string]struct{}, len(doc.Initiatives))
	for _, in := range doc.Initiatives {
		if _, ok := ds.byID[in.OrganizationID]; !ok {
			return nil, fmt.Errorf("initiative %q: unknown organization %q", in.ID, in.OrganizationID)
		}
		if _, dup := seen[in.ID]; dup || in.ID == "" {
			return nil, fmt.Errorf("initiative %q: id must be unique and non-empty", in.ID)
		}
		seen[in.ID] = struct{}{}
		if err := sim.ValidateInitiative(in); err != nil {
			return nil, fmt.Errorf("initiative %q: %w", in.ID, err)
		}
		ds.initiatives[in.OrganizationID] = append(ds.initiatives[in.OrganizationID], in)
	}
	return ds, nil
}

// Organizations returns every organization in file order.
func (d *Dataset) Organizations() []sim.OrganizationProfile {
	out := make([]sim.OrganizationProfile, len(d.orgs))
	copy(out, d.orgs)
	return out
}

// Organization looks up one organization by id.
func (d *Dataset) Organization(id string) (sim.OrganizationProfile, error) {
	idx, ok := d.byID[id]
	if !ok {
		return sim.OrganizationProfile{}, fmt.Errorf("organization %q: %w", id, ErrNotFound)
	}
	return d.orgs[idx], nil
}

// Initiatives returns an organization's initiatives. An empty orgID returns
// the initiatives of every organization, ordered by id.
func (d *Dataset) Initiatives(orgID string) []sim.Initiative {
	if orgID != "" {
		src := d.initiatives[orgID]
		out := make([]sim.Initiative, len(src))
		copy(out, src)
		return out
	}
	var out []sim.Initiative
	for _, org := range d.orgs {
		out = append(out, d.initiatives[org.ID]...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Initiative finds one initiative across all organizations.
func (d *Dataset) Initiative(id string) (sim.Initiative, error) {
	for _, list := range d.initiatives {
		for _, in := range list {
			if in.ID == id {
				return in, nil
			}
		}
	}
	return sim.Initiative{}, fmt.Errorf("initiative %q: %w", id, ErrNotFound)
}

var _ Provider = (*Dataset)(nil)
