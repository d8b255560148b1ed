package producttype

import (
	"github.com/shopmonkeyus/go-common/logger"
)

// attributes table columns
const (
	columnName                = "name"
	columnLabel               = "label"
	columnType                = "type"
	columnAttributeConstraint = "attributeConstraint"
	columnIsRequired          = "isRequired"
	columnIsSearchable        = "isSearchable"
	columnTextInputHint       = "textInputHint"
	columnEnumKey             = "enumKey"
	columnEnumLabel           = "enumLabel"
)

type definitionBuilder struct {
	logger logger.Logger
}

// BuildAttributeDefinitions creates the attribute definitions from the rows of the attributes table.
//
// A row with a name starts a new definition. A row without a name continues the
// previous one, which is how enum and lenum values spanning several rows are collected.
func BuildAttributeDefinitions(log logger.Logger, rows []Row) *AttributeDefinitions {
	b := &definitionBuilder{logger: log}
	defs := newAttributeDefinitions()
	var current *AttributeDefinition
	for i, row := range rows {
		rawType := value(row, columnType)
		if name := value(row, columnName); name != "" {
			current = newAttributeDefinition(row, name, rawType)
			if defs.put(current) {
				b.logger.Warn("attribute %s is defined more than once, row %d replaces the earlier definition", name, i+1)
			}
			if !current.Type.Name.Known() {
				b.logger.Debug("attribute %s has unsupported type %q", name, rawType)
			}
		} else if current == nil {
			b.logger.Warn("skipping attribute row %d: no attribute name and no preceding attribute", i+1)
			continue
		}
		b.resolve(row, current, current.Type, rawType)
	}
	b.logger.Trace("built %d attribute definitions from %d rows", defs.Len(), len(rows))
	return defs
}

func newAttributeDefinition(row Row, name string, rawType string) *AttributeDefinition {
	return &AttributeDefinition{
		Name:                name,
		Label:               I18n(row, columnLabel),
		Type:                &AttributeType{Name: ParseTypeKind(rawType)},
		AttributeConstraint: value(row, columnAttributeConstraint),
		IsRequired:          boolPtr(value(row, columnIsRequired) == "true"),
		IsSearchable:        boolPtr(value(row, columnIsSearchable) == "true"),
	}
}

// resolve applies the row to the type node t, descending one level per set wrapper.
func (b *definitionBuilder) resolve(row Row, def *AttributeDefinition, t *AttributeType, rawType string) {
	if t == nil {
		return
	}
	switch t.Name {
	case TypeText, TypeLText:
		if hint, ok := row.Lookup(columnTextInputHint); ok {
			def.InputHint = strPtr(hint)
		}
	case TypeEnum:
		b.addValue(def, t, EnumValue{
			Key:   value(row, columnEnumKey),
			Label: value(row, columnEnumLabel),
		})
	case TypeLEnum:
		b.addValue(def, t, EnumValue{
			Key:            value(row, columnEnumKey),
			LocalizedLabel: I18n(row, columnEnumLabel),
		})
	case TypeSet:
		def.IsRequired = nil
		def.IsSearchable = nil
		element := ElementTypeName(rawType)
		if element != "" {
			kind := ParseTypeKind(element)
			if t.ElementType == nil || t.ElementType.Name != kind {
				t.ElementType = &AttributeType{Name: kind}
			}
		} else if rawType != "" && t.ElementType == nil {
			b.logger.Warn("attribute %s: set type %q has no element type", def.Name, rawType)
		}
		b.resolve(row, def, t.ElementType, element)
	}
}

func (b *definitionBuilder) addValue(def *AttributeDefinition, t *AttributeType, v EnumValue) {
	if v.Key == "" {
		b.logger.Warn("attribute %s: ignoring %s value without %s", def.Name, t.Name, columnEnumKey)
		return
	}
	if !t.addValue(v) {
		b.logger.Trace("attribute %s: %s value %s already present", def.Name, t.Name, v.Key)
	}
}
