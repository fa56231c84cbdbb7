package structure

import "time"

// ExperimentData holds the experiment section of a structure page.
// Every field is optional: a nil pointer means the value was not present
// on the page or could not be parsed.
type ExperimentData struct {
	Method      *string    `json:"method,omitempty"`
	Resolution  *string    `json:"resolution,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
}

// Macromolecule holds the macromolecule section of a structure page.
type Macromolecule struct {
	Name *string `json:"name,omitempty"`
	// TotalWeight is kept as the page's display text, e.g. "33.8 kDa".
	TotalWeight         *string `json:"total_weight,omitempty"`
	UniqueProteinChains *int    `json:"unique_protein_chains,omitempty"`
	Classification      *string `json:"classification,omitempty"`
	Organism            *string `json:"organism,omitempty"`
	ExpressionSystem    *string `json:"expression_system,omitempty"`
	// Mutation is nil when the page carried no mutation flag, otherwise
	// true unless the page said "no".
	Mutation *bool `json:"mutation,omitempty"`
}

// Metadata is the aggregate of everything scraped from a structure page.
// Any subset of fields may be populated; scraping is best-effort and a
// field that fails to parse is simply left absent.
type Metadata struct {
	ID         ID             `json:"id"`
	Experiment ExperimentData `json:"experiment"`
	Molecule   Macromolecule  `json:"molecule"`
	// SmallMolecules maps ligand identifiers to their display names.
	SmallMolecules map[string]string `json:"small_molecules,omitempty"`
	FetchedAt      time.Time         `json:"fetched_at"`
}

// HasExperimentData reports whether any experiment field was scraped.
func (m *Metadata) HasExperimentData() bool {
	e := m.Experiment
	return e.Method != nil || e.Resolution != nil || e.ReleaseDate != nil
}

// LigandCount returns the number of scraped small molecules.
func (m *Metadata) LigandCount() int { return len(m.SmallMolecules) }
