package producttype

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/shopmonkeyus/go-common/logger"
)

// types table columns
const (
	columnProductTypeName        = "name"
	columnProductTypeDescription = "description"
)

// includeMarker in a types table cell includes the attribute under its own name.
const includeMarker = "x"

// ErrUnknownAttribute is returned when a types table column does not name an attribute definition.
var ErrUnknownAttribute = errors.New("no attribute definition found")

// RowError is the reason a types table row was skipped.
type RowError struct {
	Row         int
	ProductType string
	Header      string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("no attribute definition found with name '%s'", e.Header)
}

func (e *RowError) Unwrap() error {
	return ErrUnknownAttribute
}

// AssembleOptions controls how product types are assembled.
type AssembleOptions struct {
	// Extra is appended to every assembled product type (the master SKU for retailer projects).
	Extra *AttributeDefinition

	// SharedRename renames the shared definition in place instead of a per product type copy.
	// The last rename wins for every product type that references the attribute.
	SharedRename bool

	// Logger receives a warning for every name collision. Nil disables the warnings.
	Logger logger.Logger
}

// AssembleResult is the outcome for a single types table row. Exactly one of Definition and Err is set.
type AssembleResult struct {
	Row        int
	Name       string
	Definition *ProductTypeDefinition
	Err        error
}

// AssembleProductTypes creates a product type definition for every row of the types table.
// A row that fails does not affect the others; its result carries the error.
func AssembleProductTypes(rows []Row, defs *AttributeDefinitions, opts AssembleOptions) []AssembleResult {
	results := make([]AssembleResult, 0, len(rows))
	for i, row := range rows {
		def, err := assembleProductType(i+1, row, defs, opts)
		results = append(results, AssembleResult{
			Row:        i + 1,
			Name:       value(row, columnProductTypeName),
			Definition: def,
			Err:        err,
		})
	}
	return results
}

// Successful returns the definitions of the results without an error, in row order.
func Successful(results []AssembleResult) []*ProductTypeDefinition {
	res := make([]*ProductTypeDefinition, 0, len(results))
	for _, r := range results {
		if r.Err == nil && r.Definition != nil {
			res = append(res, r.Definition)
		}
	}
	return res
}

func assembleProductType(index int, row Row, defs *AttributeDefinitions, opts AssembleOptions) (*ProductTypeDefinition, error) {
	productType := &ProductTypeDefinition{
		Name:        value(row, columnProductTypeName),
		Description: value(row, columnProductTypeDescription),
	}
	for _, header := range row.Headers() {
		if header == columnProductTypeName || header == columnProductTypeDescription {
			continue
		}
		cell := value(row, header)
		if cell == "" {
			continue
		}
		base, ok := defs.Get(header)
		if !ok {
			return nil, &RowError{Row: index, ProductType: productType.Name, Header: header}
		}
		attr := base
		if !opts.SharedRename {
			attr = base.Clone()
		}
		if strings.ToLower(cell) != includeMarker {
			attr.Name = cell
		}
		var existing *AttributeDefinition
		productType.Attributes, existing = appendAttribute(productType.Attributes, attr, opts.SharedRename)
		if existing != nil && existing != attr {
			opts.warn("product type %s: dropping column %s because an attribute named %s is already defined", productType.Name, header, attr.Name)
		}
	}
	if extra := opts.Extra; extra != nil {
		// always appended, even when the name is taken
		if _, ok := productType.Attribute(extra.Name); ok {
			opts.warn("product type %s already has an attribute named %s, both are kept", productType.Name, extra.Name)
		}
		if !containsAttribute(productType.Attributes, extra) {
			productType.Attributes = append(productType.Attributes, extra)
		}
	}
	return productType, nil
}

func (o AssembleOptions) warn(msg string, args ...interface{}) {
	if o.Logger != nil {
		o.Logger.Warn(msg, args...)
	}
}

// appendAttribute adds attr unless it is already present, by identity when
// definitions are shared and by name otherwise. It returns the attribute already present, if any.
func appendAttribute(attrs []*AttributeDefinition, attr *AttributeDefinition, byIdentity bool) ([]*AttributeDefinition, *AttributeDefinition) {
	for _, a := range attrs {
		if a == attr || (!byIdentity && a.Name == attr.Name) {
			return attrs, a
		}
	}
	return append(attrs, attr), nil
}

func containsAttribute(attrs []*AttributeDefinition, attr *AttributeDefinition) bool {
	for _, a := range attrs {
		if a == attr {
			return true
		}
	}
	return false
}
