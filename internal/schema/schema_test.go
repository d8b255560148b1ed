package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopmonkeyus/product-type-generator/internal/producttype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *Validator {
	v, err := NewValidator()
	require.NoError(t, err)
	return v
}

func TestValidateGeneratedDocument(t *testing.T) {
	doc := &producttype.ProductTypeDefinition{
		Name:        "Shirt",
		Description: "A shirt",
		Attributes:  []*producttype.AttributeDefinition{producttype.MasterSKUAttribute()},
	}
	buf, err := producttype.Encode(doc)
	require.NoError(t, err)
	assert.NoError(t, newValidator(t).Validate(buf))
}

func TestValidateDocuments(t *testing.T) {
	v := newValidator(t)
	tests := []struct {
		name  string
		doc   string
		valid bool
	}{
		{"no attributes", `{"name":"Shirt","description":""}`, true},
		{"enum", `{"name":"Shirt","description":"","attributes":[{"name":"color","label":{"en":"Color"},"type":{"name":"enum","values":[{"key":"red","label":"Red"}]}}]}`, true},
		{"nested set of lenum", `{"name":"Shirt","description":"","attributes":[{"name":"tags","label":{},"type":{"name":"set","elementType":{"name":"set","elementType":{"name":"lenum","values":[{"key":"a","label":{"en":"A"}}]}}}}]}`, true},
		{"unsupported kind", `{"name":"Shirt","description":"","attributes":[{"name":"weight","label":{},"type":{"name":"number"}}]}`, true},
		{"missing name", `{"description":""}`, false},
		{"empty name", `{"name":"","description":""}`, false},
		{"unknown property", `{"name":"Shirt","description":"","extra":1}`, false},
		{"set without element", `{"name":"Shirt","description":"","attributes":[{"name":"tags","label":{},"type":{"name":"set"}}]}`, false},
		{"enum without values", `{"name":"Shirt","description":"","attributes":[{"name":"color","label":{},"type":{"name":"enum"}}]}`, false},
		{"text with values", `{"name":"Shirt","description":"","attributes":[{"name":"size","label":{},"type":{"name":"text","values":[{"key":"a","label":"A"}]}}]}`, false},
		{"bad language code", `{"name":"Shirt","description":"","attributes":[{"name":"size","label":{"english":"Size"},"type":{"name":"text"}}]}`, false},
		{"not json", `{"name":`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate([]byte(tt.doc))
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "product-type-Shirt.json"), []byte(`{"name":"Shirt","description":""}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "product-type-Bad.json"), []byte(`{"description":""}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`not json`), 0644))

	count, failures, err := newValidator(t).ValidateDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, failures, 1)
	assert.Contains(t, failures, filepath.Join(dir, "product-type-Bad.json"))

	_, _, err = newValidator(t).ValidateDir(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
