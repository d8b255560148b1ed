package producttype

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/shopmonkeyus/go-common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDefinitions() *AttributeDefinitions {
	return buildDefinitions(
		[]string{"color", "Color", "", "enum", "None", "true", "true", "", "red", "Red", "", ""},
		[]string{"", "", "", "", "", "", "", "", "green", "Green", "", ""},
		[]string{"size", "Size", "", "text", "None", "false", "false", "SingleLine", "", "", "", ""},
		[]string{"material", "Material", "", "set:ltext", "None", "", "", "MultiLine", "", "", "", ""},
	)
}

var typeHeaders = []string{"name", "description", "color", "size", "material"}

func attributeNames(def *ProductTypeDefinition) []string {
	names := make([]string, 0, len(def.Attributes))
	for _, a := range def.Attributes {
		names = append(names, a.Name)
	}
	return names
}

func TestAssembleProductTypes(t *testing.T) {
	rows := makeRows(typeHeaders,
		[]string{"Shirt", "A shirt", "x", "X", ""},
		[]string{"Pants", "Some pants", "", "x", "x"},
	)
	results := AssembleProductTypes(rows, sampleDefinitions(), AssembleOptions{})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.NoError(t, r.Err)
	}
	shirt := results[0].Definition
	assert.Equal(t, 1, results[0].Row)
	assert.Equal(t, "Shirt", results[0].Name)
	assert.Equal(t, "Shirt", shirt.Name)
	assert.Equal(t, "A shirt", shirt.Description)
	assert.Equal(t, []string{"color", "size"}, attributeNames(shirt))
	assert.Equal(t, []string{"size", "material"}, attributeNames(results[1].Definition))
}

func TestAssembleWithoutAttributes(t *testing.T) {
	rows := makeRows(typeHeaders, []string{"Empty", "Nothing", "", "", ""})
	results := AssembleProductTypes(rows, sampleDefinitions(), AssembleOptions{})
	require.NoError(t, results[0].Err)
	assert.Nil(t, results[0].Definition.Attributes)
}

func TestAssembleRenameUsesCopies(t *testing.T) {
	defs := sampleDefinitions()
	rows := makeRows(typeHeaders,
		[]string{"Shirt", "", "shirtColor", "", ""},
		[]string{"Pants", "", "x", "", ""},
		[]string{"Socks", "", "sockColor", "", ""},
	)
	products := Successful(AssembleProductTypes(rows, defs, AssembleOptions{}))
	require.Len(t, products, 3)
	assert.Equal(t, []string{"shirtColor"}, attributeNames(products[0]))
	assert.Equal(t, []string{"color"}, attributeNames(products[1]))
	assert.Equal(t, []string{"sockColor"}, attributeNames(products[2]))

	// the shared definition is untouched
	color, _ := defs.Get("color")
	assert.Equal(t, "color", color.Name)
	assert.NotSame(t, color, products[1].Attributes[0])
	assert.Equal(t, color.Type.Values, products[0].Attributes[0].Type.Values)
}

func TestAssembleSharedRenameLastWriteWins(t *testing.T) {
	defs := sampleDefinitions()
	rows := makeRows(typeHeaders,
		[]string{"Shirt", "", "shirtColor", "", ""},
		[]string{"Pants", "", "x", "", ""},
		[]string{"Socks", "", "sockColor", "", ""},
	)
	products := Successful(AssembleProductTypes(rows, defs, AssembleOptions{SharedRename: true}))
	require.Len(t, products, 3)
	color, _ := defs.Get("color")
	assert.Equal(t, "sockColor", color.Name)
	for _, p := range products {
		assert.Same(t, color, p.Attributes[0])
		assert.Equal(t, []string{"sockColor"}, attributeNames(p))
	}
}

func TestAssembleUnknownColumnSkipsRow(t *testing.T) {
	headers := []string{"name", "description", "color", "weight"}
	rows := makeRows(headers,
		[]string{"Shirt", "", "x", ""},
		[]string{"Anvil", "", "x", "x"},
		[]string{"Hat", "", "x", ""},
	)
	results := AssembleProductTypes(rows, sampleDefinitions(), AssembleOptions{})
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.NoError(t, results[2].Err)

	err := results[1].Err
	require.Error(t, err)
	assert.Nil(t, results[1].Definition)
	assert.True(t, errors.Is(err, ErrUnknownAttribute))
	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 2, rowErr.Row)
	assert.Equal(t, "Anvil", rowErr.ProductType)
	assert.Equal(t, "weight", rowErr.Header)
	assert.Equal(t, "no attribute definition found with name 'weight'", err.Error())

	products := Successful(results)
	require.Len(t, products, 2)
	assert.Equal(t, "Shirt", products[0].Name)
	assert.Equal(t, "Hat", products[1].Name)
}

func TestAssembleExtraAttribute(t *testing.T) {
	rows := makeRows(typeHeaders,
		[]string{"Shirt", "", "x", "", ""},
		[]string{"Empty", "", "", "", ""},
	)
	defs := sampleDefinitions()
	plain := Successful(AssembleProductTypes(rows, defs, AssembleOptions{}))
	retailer := Successful(AssembleProductTypes(rows, defs, AssembleOptions{Extra: MasterSKUAttribute()}))
	require.Len(t, retailer, 2)
	assert.Equal(t, []string{"color", MasterSKUAttributeName}, attributeNames(retailer[0]))
	assert.Equal(t, []string{MasterSKUAttributeName}, attributeNames(retailer[1]))

	// identical except for the master sku
	assert.Equal(t, plain[0].Attributes, retailer[0].Attributes[:len(retailer[0].Attributes)-1])
}

func TestAssembleDeduplicatesByName(t *testing.T) {
	rows := makeRows(typeHeaders, []string{"Shirt", "", "shade", "shade", ""})
	products := Successful(AssembleProductTypes(rows, sampleDefinitions(), AssembleOptions{}))
	require.Len(t, products, 1)
	assert.Equal(t, []string{"shade"}, attributeNames(products[0]))
	assert.Equal(t, TypeEnum, products[0].Attributes[0].Type.Name)
}

type warnRecorder struct {
	logger.Logger
	warnings []string
}

func (r *warnRecorder) Warn(msg string, args ...interface{}) {
	r.warnings = append(r.warnings, fmt.Sprintf(msg, args...))
}

func newWarnRecorder() *warnRecorder {
	return &warnRecorder{Logger: logger.NewTestLogger()}
}

func TestAssembleRenameCollisionWarns(t *testing.T) {
	log := newWarnRecorder()
	rows := makeRows(typeHeaders, []string{"Shirt", "", "x", "color", ""})
	products := Successful(AssembleProductTypes(rows, sampleDefinitions(), AssembleOptions{Logger: log}))
	require.Len(t, products, 1)
	assert.Equal(t, []string{"color"}, attributeNames(products[0]))
	assert.Equal(t, TypeEnum, products[0].Attributes[0].Type.Name)
	require.Len(t, log.warnings, 1)
	assert.Equal(t, "product type Shirt: dropping column size because an attribute named color is already defined", log.warnings[0])
}

func TestAssembleExtraAttributeNameTaken(t *testing.T) {
	defs := buildDefinitions(
		[]string{MasterSKUAttributeName, "SKU", "", "text", "None", "false", "false", "", "", "", "", ""},
		[]string{"color", "Color", "", "enum", "None", "true", "true", "", "red", "Red", "", ""},
	)
	headers := []string{"name", "description", MasterSKUAttributeName, "color"}
	rows := makeRows(headers,
		[]string{"Shirt", "", "x", ""},
		[]string{"Pants", "", "", MasterSKUAttributeName},
	)
	sku := MasterSKUAttribute()
	log := newWarnRecorder()
	plain := Successful(AssembleProductTypes(rows, defs, AssembleOptions{}))
	retailer := Successful(AssembleProductTypes(rows, defs, AssembleOptions{Extra: sku, Logger: log}))
	require.Len(t, plain, 2)
	require.Len(t, retailer, 2)
	for i := range retailer {
		assert.Len(t, plain[i].Attributes, 1)
		require.Len(t, retailer[i].Attributes, 2)
		assert.Equal(t, plain[i].Attributes[0], retailer[i].Attributes[0])
		assert.Same(t, sku, retailer[i].Attributes[1])
	}
	assert.Equal(t, []string{
		"product type Shirt already has an attribute named mastersku, both are kept",
		"product type Pants already has an attribute named mastersku, both are kept",
	}, log.warnings)
}

func TestAssembleExtraAttributeSharedRename(t *testing.T) {
	rows := makeRows(typeHeaders, []string{"Shirt", "", "x", "", ""})
	sku := MasterSKUAttribute()
	products := Successful(AssembleProductTypes(rows, sampleDefinitions(), AssembleOptions{Extra: sku, SharedRename: true}))
	require.Len(t, products, 1)
	assert.Equal(t, []string{"color", MasterSKUAttributeName}, attributeNames(products[0]))
}

func TestMasterSKUAttribute(t *testing.T) {
	sku := MasterSKUAttribute()
	assert.Equal(t, "mastersku", sku.Name)
	assert.Equal(t, LocalizedString{"en": "Master SKU"}, sku.Label)
	assert.Equal(t, TypeText, sku.Type.Name)
	assert.Equal(t, "Unique", sku.AttributeConstraint)
	assert.True(t, *sku.IsRequired)
	assert.False(t, *sku.IsSearchable)
	assert.Equal(t, "SingleLine", *sku.InputHint)
}

func TestCloneIsDeep(t *testing.T) {
	defs := buildDefinitions(
		[]string{"tags", "Tags", "", "set:lenum", "", "", "", "", "a", "", "A", ""},
	)
	tags, _ := defs.Get("tags")
	c := tags.Clone()
	assert.Equal(t, tags, c)
	c.Label["en"] = "changed"
	c.Type.ElementType.Values[0].LocalizedLabel["en"] = "changed"
	assert.Equal(t, "Tags", tags.Label["en"])
	assert.Equal(t, "A", tags.Type.ElementType.Values[0].LocalizedLabel["en"])
}
