package rcsb

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/turtacn/dockprep/internal/domain/structure"
)

// datePattern matches a bare YYYY-MM-DD token.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParsePage extracts structure metadata from a detail page. Extraction is
// per-field and tolerant: a field whose markup node is missing or malformed
// is simply left absent, never aborting the parse. A page with none of the
// expected nodes yields a Metadata whose every leaf field is absent.
func ParsePage(id structure.ID, htmlContent string) (*structure.Metadata, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	meta := &structure.Metadata{
		ID:        id,
		FetchedAt: time.Now().UTC(),
	}
	meta.Experiment = structure.ExperimentData{
		Method:      labeledValue(doc, "li#exp_header_0_method"),
		Resolution:  labeledValue(doc, "li#exp_header_0_diffraction_resolution"),
		ReleaseDate: releaseDate(doc),
	}
	meta.Molecule = structure.Macromolecule{
		Name:                moleculeName(doc),
		TotalWeight:         colonValue(doc, "li#contentStructureWeight"),
		UniqueProteinChains: chainCount(doc),
		Classification:      firstLinkText(doc, "li#header_classification"),
		Organism:            firstLinkText(doc, "li#header_organism"),
		ExpressionSystem:    firstLinkText(doc, "li#header_expression-system"),
		Mutation:            mutationFlag(doc),
	}
	meta.SmallMolecules = smallMolecules(doc)
	return meta, nil
}

// labeledValue extracts the value part of a "<strong>Label</strong> value"
// node: the element text with the strong label removed, trimmed.
func labeledValue(doc *goquery.Document, selector string) *string {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	label := sel.Find("strong").First()
	if label.Length() == 0 {
		return nil
	}
	value := strings.TrimSpace(strings.Replace(sel.Text(), label.Text(), "", 1))
	return &value
}

// releaseDate scans the deposited/released dates container for bare
// YYYY-MM-DD tokens and returns the last one, which is the release date
// when both deposit and release dates are present.
func releaseDate(doc *goquery.Document) *time.Time {
	sel := doc.Find("li#header_deposited-released-dates").First()
	if sel.Length() == 0 {
		return nil
	}

	var last string
	for _, token := range strippedStrings(sel) {
		if datePattern.MatchString(token) {
			last = token
		}
	}
	if last == "" {
		return nil
	}

	t, err := time.Parse("2006-01-02", last)
	if err != nil {
		return nil
	}
	return &t
}

// strippedStrings walks all text nodes under sel and returns each node's
// text with surrounding whitespace (including non-breaking spaces) removed,
// skipping empty results.
func strippedStrings(sel *goquery.Selection) []string {
	var out []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				out = append(out, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, node := range sel.Nodes {
		walk(node)
	}
	return out
}

// moleculeName reads the first cell of the first macromolecule entity row.
func moleculeName(doc *goquery.Document) *string {
	cell := doc.Find("tr#macromolecule-entityId-1-rowDescription td").First()
	if cell.Length() == 0 {
		return nil
	}
	name := strings.TrimSpace(cell.Text())
	return &name
}

// colonValue extracts the text after the first colon in the node, trimmed.
func colonValue(doc *goquery.Document, selector string) *string {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	parts := strings.SplitN(sel.Text(), ":", 2)
	if len(parts) < 2 {
		return nil
	}
	value := strings.TrimSpace(parts[1])
	return &value
}

func chainCount(doc *goquery.Document) *int {
	raw := colonValue(doc, "li#contentProteinChainCount")
	if raw == nil {
		return nil
	}
	n, err := strconv.Atoi(*raw)
	if err != nil {
		return nil
	}
	return &n
}

func firstLinkText(doc *goquery.Document, selector string) *string {
	link := doc.Find(selector).First().Find("a").First()
	if link.Length() == 0 {
		return nil
	}
	text := strings.TrimSpace(link.Text())
	return &text
}

// mutationFlag derives the mutation boolean: the labeled value is false
// only when it case-insensitively equals "no", true for anything else, and
// absent when the node is missing.
func mutationFlag(doc *goquery.Document) *bool {
	value := labeledValue(doc, "li#header_mutation")
	if value == nil {
		return nil
	}
	flag := !strings.EqualFold(*value, "no")
	return &flag
}

// smallMolecules collects bound ligand rows from the small-molecules panel,
// mapping ligand identifier to display name. A row whose name cannot be
// located still appears, with a "Name not found" placeholder. Returns nil
// when the panel is absent or holds no ligand rows.
func smallMolecules(doc *goquery.Document) map[string]string {
	panel := doc.Find("div#smallMoleculespanel").First()
	if panel.Length() == 0 {
		return nil
	}

	molecules := make(map[string]string)
	panel.Find("tr[id^='ligand_row_']").Each(func(_ int, row *goquery.Selection) {
		link := row.Find("a").First()
		if link.Length() == 0 {
			return
		}
		ligandID := strings.TrimSpace(link.Text())

		name := "Name not found"
		if strong := row.Find("strong").First(); strong.Length() > 0 {
			name = strings.TrimSpace(strong.Text())
		}
		molecules[ligandID] = name
	})

	if len(molecules) == 0 {
		return nil
	}
	return molecules
}
