// Package render formats recommended recipes as a console table or JSON.
package render

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"potionforge/internal/catalog"
	"potionforge/internal/simulate"
)

// Sort returns recipes ordered by department, then main effect, then element.
// The input is not modified.
func Sort(recipes []simulate.Recipe) []simulate.Recipe {
	out := slices.Clone(recipes)
	slices.SortStableFunc(out, func(a, b simulate.Recipe) int {
		ka, kb := a.PotionKind(), b.PotionKind()
		if c := cmp.Compare(ka.Department, kb.Department); c != 0 {
			return c
		}
		if c := cmp.Compare(ka.Effect, kb.Effect); c != 0 {
			return c
		}
		return cmp.Compare(ka.Element, kb.Element)
	})
	return out
}

// ── Tags ───────────────────────────────────────────────────────────

// tag prefixes name with + or - when its appeal contribution is non-zero.
func tag(name string, contribution int) string {
	switch {
	case contribution > 0:
		return "+" + name
	case contribution < 0:
		return "-" + name
	}
	return name
}

// TasteTag describes r's taste and whether it helps or hurts its kind.
func TasteTag(r *simulate.Recipe) string {
	return tag(r.Taste.String(), simulate.TasteAppeal(r.PotionKind(), r.Taste))
}

// ToxicityTag describes r's toxicity and whether it helps or hurts its kind.
func ToxicityTag(r *simulate.Recipe) string {
	return tag(r.Toxicity.String(), simulate.ToxicityAppeal(r.PotionKind(), r.Toxicity))
}

// PurityTag describes r's purity.
func PurityTag(r *simulate.Recipe) string {
	return tag(r.Purity.String(), simulate.PurityAppeal(r.Purity))
}

// ── Rows ───────────────────────────────────────────────────────────

// Row is one recipe as presented.
type Row struct {
	Index       int      `json:"index"`
	Department  string   `json:"department"`
	Potion      string   `json:"potion"`
	Ingredients []string `json:"ingredients"`
	Purity      string   `json:"purity"`
	Toxicity    string   `json:"toxicity"`
	Taste       string   `json:"taste"`
	Appeal      int      `json:"appeal"`
	Potency     int      `json:"potency"`
}

// Rows sorts recipes and converts them for display. Indices start at 1.
func Rows(recipes []simulate.Recipe) []Row {
	sorted := Sort(recipes)
	rows := make([]Row, len(sorted))
	for i := range sorted {
		r := &sorted[i]
		kind := r.PotionKind()
		rows[i] = Row{
			Index:       i + 1,
			Department:  kind.Department.String(),
			Potion:      kind.Name,
			Ingredients: ingredientNames(r.Ingredients),
			Purity:      PurityTag(r),
			Toxicity:    ToxicityTag(r),
			Taste:       TasteTag(r),
			Appeal:      r.Appeal,
			Potency:     r.Potency,
		}
	}
	return rows
}

func ingredientNames(ings []catalog.Ingredient) []string {
	sorted := slices.Clone(ings)
	slices.SortFunc(sorted, func(a, b catalog.Ingredient) int {
		if c := cmp.Compare(a.Key, b.Key); c != 0 {
			return c
		}
		return cmp.Compare(a.Prep, b.Prep)
	})
	names := make([]string, len(sorted))
	for i, ing := range sorted {
		names[i] = ing.String()
	}
	return names
}

// ── Table ──────────────────────────────────────────────────────────

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var headers = []string{"Index", "Department", "Potion", "Ingredients", "Purity", "Toxicity", "Taste", "Appeal", "Potency"}

// Table renders recipes sorted for display, one ingredient per line.
func Table(recipes []simulate.Recipe) string {
	rows := Rows(recipes)
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{
			strconv.Itoa(r.Index),
			r.Department,
			r.Potion,
			strings.Join(r.Ingredients, "\n"),
			r.Purity,
			r.Toxicity,
			r.Taste,
			strconv.Itoa(r.Appeal),
			strconv.Itoa(r.Potency),
		}
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0 || col >= 7:
				return numberStyle
			}
			return cellStyle
		})
	return t.Render()
}

// Totals sums appeal and potency over recipes.
func Totals(recipes []simulate.Recipe) (appeal, potency int) {
	for i := range recipes {
		appeal += recipes[i].Appeal
		potency += recipes[i].Potency
	}
	return appeal, potency
}

// Summary renders the portfolio totals.
func Summary(recipes []simulate.Recipe) string {
	appeal, potency := Totals(recipes)
	return fmt.Sprintf("Total Appeal: %d\nTotal Potency: %d\n", appeal, potency)
}

// ── JSON ───────────────────────────────────────────────────────────

// Document is the machine-readable form of a recommendation.
type Document struct {
	Run          string `json:"run,omitempty"`
	Candidates   int    `json:"candidates"`
	TotalAppeal  int    `json:"total_appeal"`
	TotalPotency int    `json:"total_potency"`
	Recipes      []Row  `json:"recipes"`
}

// NewDocument builds a Document for recipes.
func NewDocument(run string, candidates int, recipes []simulate.Recipe) *Document {
	appeal, potency := Totals(recipes)
	return &Document{
		Run:          run,
		Candidates:   candidates,
		TotalAppeal:  appeal,
		TotalPotency: potency,
		Recipes:      Rows(recipes),
	}
}

// JSON encodes doc with two-space indentation.
func JSON(doc *Document) ([]byte, error) {
	if doc.Recipes == nil {
		doc.Recipes = []Row{}
	}
	out, err := sonic.ConfigStd.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode recommendation: %w", err)
	}
	return out, nil
}
