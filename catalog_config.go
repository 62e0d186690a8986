package accesskit

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// catalogFile mirrors the YAML catalog document.
//
//	roles:
//	  - name: BUSINESS_OWNER
//	    level: 80
//	    scope: business
//	    permissions: [MANAGE_BUSINESS, MANAGE_ALL_STAFF]
type catalogFile struct {
	Roles []catalogRole `yaml:"roles"`
}

type catalogRole struct {
	Name        string   `yaml:"name"`
	Level       int      `yaml:"level"`
	Scope       string   `yaml:"scope"`
	Permissions []string `yaml:"permissions"`
}

// ParseCatalog builds a Catalog from a YAML document. The static role
// tables can thus live in configuration instead of code; the decision
// logic never changes when the catalog does.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	if len(file.Roles) == 0 {
		return nil, fmt.Errorf("%w: no roles defined", ErrInvalidCatalog)
	}

	c := NewCatalog()
	seen := make(map[string]bool, len(file.Roles))

	for _, r := range file.Roles {
		if r.Name == "" {
			return nil, fmt.Errorf("%w: role with empty name", ErrInvalidCatalog)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("%w: duplicate role %q", ErrInvalidCatalog, r.Name)
		}
		seen[r.Name] = true

		if r.Level <= 0 {
			return nil, fmt.Errorf("%w: role %q must have a positive level", ErrInvalidCatalog, r.Name)
		}

		scope, err := parseRoleScope(r.Scope)
		if err != nil {
			return nil, fmt.Errorf("%w: role %q: %v", ErrInvalidCatalog, r.Name, err)
		}

		perms := make([]Permission, 0, len(r.Permissions))
		for _, p := range r.Permissions {
			if p == "" {
				return nil, fmt.Errorf("%w: role %q has an empty permission", ErrInvalidCatalog, r.Name)
			}
			perms = append(perms, Permission(p))
		}

		c.Role(Role(r.Name)).
			Level(r.Level).
			Scope(scope).
			Permissions(perms...)
	}

	return c, nil
}

// LoadCatalog reads a YAML catalog from r.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return ParseCatalog(data)
}

// LoadCatalogFile reads a YAML catalog from a file path.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return ParseCatalog(data)
}

func parseRoleScope(s string) (RoleScope, error) {
	switch s {
	case "platform":
		return RoleScopePlatform, nil
	case "business":
		return RoleScopeBusiness, nil
	case "location":
		return RoleScopeLocation, nil
	case "department":
		return RoleScopeDepartment, nil
	case "any", "":
		return RoleScopeAny, nil
	default:
		return "", fmt.Errorf("unknown scope %q", s)
	}
}
