package services

import (
	"fmt"

	"event-lists-go/models"

	"github.com/elliotchance/orderedmap"
	"gorm.io/gorm"
)

// ListItem describes one filterable attribute of a list context. Categorical
// items carry the database column the predicate hits; derived items (such as
// the contribution status) leave Column empty and are resolved by the list
// service owning them. Choices maps value -> label in display order, with the
// sentinel choice first when the item offers one.
type ListItem struct {
	Key        string
	Title      string
	Column     string
	Choices    *orderedmap.OrderedMap
	HasNoValue bool
}

// ChoiceLabels returns the item's choices as ordered value/label pairs, for
// handing to the configuration UI.
func (item ListItem) ChoiceLabels() []map[string]string {
	out := make([]map[string]string, 0, item.Choices.Len())
	for el := item.Choices.Front(); el != nil; el = el.Next() {
		out = append(out, map[string]string{
			"value": el.Key.(string),
			"label": el.Value.(string),
		})
	}
	return out
}

// KnownItems is everything a list context allows a stored configuration to
// reference: its filter items (static plus dynamic) and its column keys.
type KnownItems struct {
	Items   []ListItem
	ByKey   map[string]ListItem
	Columns []string
}

func newKnownItems(items []ListItem, columns []string) KnownItems {
	byKey := make(map[string]ListItem, len(items))
	for _, item := range items {
		byKey[item.Key] = item
	}
	return KnownItems{Items: items, ByKey: byKey, Columns: columns}
}

func (k KnownItems) hasColumn(key string) bool {
	for _, col := range k.Columns {
		if col == key {
			return true
		}
	}
	return false
}

// FilterCondition is one per-key predicate in neutral form, before it is
// bound to a query: OR of "column IS NULL" (when the sentinel was selected)
// and "column IN (values)".
type FilterCondition struct {
	Column      string
	IncludeNull bool
	Values      []string
}

// buildFilterConditions turns the stored selection into per-key predicates.
// Keys with an empty selection impose no constraint; derived items (empty
// Column) are skipped here. Items are walked in declared order so the
// generated SQL is deterministic.
func buildFilterConditions(items map[string][]string, known KnownItems) []FilterCondition {
	if len(items) == 0 {
		return nil
	}
	var conditions []FilterCondition
	for _, item := range known.Items {
		if item.Column == "" {
			continue
		}
		selected := items[item.Key]
		if len(selected) == 0 {
			continue
		}
		cond := FilterCondition{Column: item.Column}
		for _, value := range selected {
			if value == models.FilterValueNone {
				cond.IncludeNull = true
				continue
			}
			cond.Values = append(cond.Values, value)
		}
		if !cond.IncludeNull && len(cond.Values) == 0 {
			continue
		}
		conditions = append(conditions, cond)
	}
	return conditions
}

// applyConditions binds the predicates to a query: OR within a key, AND
// across keys.
func applyConditions(query *gorm.DB, conditions []FilterCondition) *gorm.DB {
	for _, cond := range conditions {
		switch {
		case cond.IncludeNull && len(cond.Values) > 0:
			query = query.Where(
				fmt.Sprintf("(%s IS NULL OR %s IN ?)", cond.Column, cond.Column), cond.Values)
		case cond.IncludeNull:
			query = query.Where(fmt.Sprintf("%s IS NULL", cond.Column))
		default:
			query = query.Where(fmt.Sprintf("%s IN ?", cond.Column), cond.Values)
		}
	}
	return query
}

// parseBinarySelection interprets a derived two-choice filter (scheduled /
// unscheduled, checked-in yes/no). Selecting both choices or none imposes no
// constraint, reported as nil.
func parseBinarySelection(selected []string, positive, negative string) *bool {
	hasPositive := false
	hasNegative := false
	for _, value := range selected {
		switch value {
		case positive:
			hasPositive = true
		case negative:
			hasNegative = true
		}
	}
	if hasPositive == hasNegative {
		return nil
	}
	result := hasPositive
	return &result
}

// validateConfigAgainstItems checks a raw configuration against the known
// item and column set. Unknown filter keys and unknown columns are rejected;
// selected values are only checked for sentinel misuse, so a stored value
// whose category was deleted later keeps matching zero rows instead of
// blocking the user (stale values are not an error).
func validateConfigAgainstItems(dto models.ListConfigDto, known KnownItems) error {
	for key, values := range dto.Items {
		item, ok := known.ByKey[key]
		if !ok {
			return fmt.Errorf("unknown filter '%s'", key)
		}
		for _, value := range values {
			if value == models.FilterValueNone && !item.HasNoValue {
				return fmt.Errorf("filter '%s' has no empty choice", key)
			}
		}
	}
	for _, col := range dto.VisibleColumns {
		if !known.hasColumn(col) {
			return fmt.Errorf("unknown column '%s'", col)
		}
	}
	return nil
}

// DisplayColumns keeps the stored visible-column order for the list view,
// dropping columns that no longer exist. Exporters impose their own canonical
// order separately.
func DisplayColumns(data models.ListConfigData, known KnownItems) []string {
	columns := make([]string, 0, len(data.VisibleColumns))
	for _, col := range data.VisibleColumns {
		if known.hasColumn(col) {
			columns = append(columns, col)
		}
	}
	return columns
}

// summaryText is the pluralization-correct "showing X of Y" line.
func summaryText(shown int, total int64) string {
	if shown == 1 {
		return fmt.Sprintf("Showing 1 entry out of %d", total)
	}
	return fmt.Sprintf("Showing %d entries out of %d", shown, total)
}
