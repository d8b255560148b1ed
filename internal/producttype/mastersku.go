package producttype

// MasterSKUAttributeName is the name of the attribute added for retailer projects.
const MasterSKUAttributeName = "mastersku"

// MasterSKUAttribute returns the attribute definition added to every product type of a master/retailer project.
func MasterSKUAttribute() *AttributeDefinition {
	return &AttributeDefinition{
		Name:                MasterSKUAttributeName,
		Label:               LocalizedString{"en": "Master SKU"},
		Type:                &AttributeType{Name: TypeText},
		AttributeConstraint: "Unique",
		IsRequired:          boolPtr(true),
		IsSearchable:        boolPtr(false),
		InputHint:           strPtr("SingleLine"),
	}
}
