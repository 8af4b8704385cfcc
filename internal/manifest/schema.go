package manifest

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kaptinlin/jsonschema"
)

//go:embed package_schema.json
var packageSchema []byte

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(packageSchema)
	if err != nil {
		return nil, fmt.Errorf("compile package.json schema: %w", err)
	}
	return schema, nil
})

func validateShape(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	result := schema.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}
	details := make([]string, 0, len(result.Errors))
	for key, detail := range result.Errors {
		details = append(details, fmt.Sprintf("%s: %v", key, detail))
	}
	sort.Strings(details)
	return fmt.Errorf("package.json has an invalid shape: %s", strings.Join(details, "; "))
}
