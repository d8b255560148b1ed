package producttype

import (
	"github.com/shopmonkeyus/product-type-generator/internal/util"
)

// File name prefixes for the two output variants.
const (
	FilePrefix         = "product-type"
	RetailerFilePrefix = "retailer-product-type"
)

const indent = "    "

// Encode returns the pretty printed JSON document for the product type.
func Encode(def *ProductTypeDefinition) ([]byte, error) {
	return util.JSONIndent(def, indent)
}

// FileName returns the output file name of the product type, e.g. product-type-Shirt.json.
func FileName(prefix string, def *ProductTypeDefinition) string {
	return prefix + "-" + def.Name + ".json"
}
