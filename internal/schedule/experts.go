package schedule

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadExperts reads the expert directory from a YAML file:
//
//	experts:
//	  - email: priya@propdesk.in
//	    name: Priya
func LoadExperts(path string) ([]Expert, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading experts file: %w", err)
	}

	var doc struct {
		Experts []Expert `yaml:"experts"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing experts file: %w", err)
	}

	for i, e := range doc.Experts {
		if e.Email == "" {
			return nil, fmt.Errorf("expert %d has no email", i+1)
		}
	}

	if len(doc.Experts) == 0 {
		return nil, fmt.Errorf("experts file %s lists no experts", path)
	}

	return doc.Experts, nil
}
