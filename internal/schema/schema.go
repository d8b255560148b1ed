package schema

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	js "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/shopmonkeyus/product-type-generator/internal/util"
)

//go:embed product-type.schema.json
var productTypeSchema []byte

const schemaURL = "mem:///product-type.schema.json"

// Validator validates product type documents against the embedded JSON schema.
type Validator struct {
	schema *js.Schema
}

// NewValidator compiles the embedded product type schema.
func NewValidator() (*Validator, error) {
	compiler := js.NewCompiler()
	compiler.Draft = js.Draft7
	if err := compiler.AddResource(schemaURL, bytes.NewReader(productTypeSchema)); err != nil {
		return nil, fmt.Errorf("error adding schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("error compiling schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Validate returns an error if buf is not a valid product type document.
func (v *Validator) Validate(buf []byte) error {
	doc, err := util.DecodeJSON(buf)
	if err != nil {
		return fmt.Errorf("error decoding document: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return err
	}
	return nil
}

// ValidateFile validates the document stored in fn.
func (v *Validator) ValidateFile(fn string) error {
	buf, err := os.ReadFile(fn)
	if err != nil {
		return fmt.Errorf("error reading: %s. %w", fn, err)
	}
	return v.Validate(buf)
}

// ValidateDir validates every .json file below dir and returns the failures keyed by file name.
func (v *Validator) ValidateDir(dir string) (int, map[string]error, error) {
	files, err := util.ListDir(dir, ".json")
	if err != nil {
		return 0, nil, fmt.Errorf("error listing files in %s: %w", dir, err)
	}
	failures := make(map[string]error)
	for _, fn := range files {
		if err := v.ValidateFile(fn); err != nil {
			failures[fn] = err
		}
	}
	return len(files), failures, nil
}
