// Package irissql builds IRIS SQL statements from structured inputs.
//
// All functions are pure and stateless. Builders assume identifiers have
// already passed ValidateName; values are always bound as parameters,
// identifiers never are.
package irissql

import (
	"strings"

	"github.com/irisworks/datadesk/pkg/apperrors"
)

// DefaultSchema is the schema IRIS assigns to unqualified user tables.
const DefaultSchema = "SQLUser"

// ValidateName checks the naming rules for a schema-qualified object and
// returns the fully qualified name.
//
// Rules: name must contain neither '.' nor '_' (IRIS uses '_' as a package
// separator in system-generated names, so an underscore in a bare name is
// ambiguous); schema must not contain '.'. An empty schema yields the bare
// name, for contexts where the caller already qualified it.
func ValidateName(name, schema string) (string, error) {
	if strings.ContainsAny(name, "._") {
		return "", &apperrors.InvalidIdentifierError{
			Name:   name,
			Reason: "table name must not contain '.' or '_'; pass the schema separately (e.g. schema \"EnsLib_Background_Workflow\", name \"ExportResponse\")",
		}
	}
	if strings.Contains(schema, ".") {
		return "", &apperrors.InvalidIdentifierError{
			Name:   schema,
			Reason: "schema must not contain '.'",
		}
	}
	if schema == "" {
		return name, nil
	}
	return schema + "." + name, nil
}

// SplitQualified splits a fully qualified name at its last '.' into
// (name, schema), defaulting the schema to DefaultSchema when unqualified.
// The parts are validated with the same rules as ValidateName.
func SplitQualified(fullName string) (name, schema string, err error) {
	idx := strings.LastIndex(fullName, ".")
	if idx < 0 {
		name, schema = fullName, DefaultSchema
	} else {
		name, schema = fullName[idx+1:], fullName[:strings.Index(fullName, ".")]
	}
	if _, err := ValidateName(name, schema); err != nil {
		return "", "", err
	}
	return name, schema, nil
}
