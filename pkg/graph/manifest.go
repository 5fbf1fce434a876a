package graph

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadManifest reads a graph definition from a YAML file.
func LoadManifest(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var g Graph
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, err
	}

	return &g, nil
}

// Validate checks the graph definition for structural errors. An unknown
// stage mode is not an error here: the engine treats it as a non-fatal skip
// at run time, so a manifest carrying one still loads.
func (g *Graph) Validate() error {
	if g.Name == "" {
		return fmt.Errorf("graph name is required")
	}
	if len(g.Stages) == 0 {
		return fmt.Errorf("graph must define at least one stage")
	}

	seen := make(map[string]struct{})
	for _, stage := range g.Stages {
		if stage.Name == "" {
			return fmt.Errorf("stage name is required")
		}
		if _, ok := seen[stage.Name]; ok {
			return fmt.Errorf("duplicate stage name: %s", stage.Name)
		}
		seen[stage.Name] = struct{}{}

		if stage.DecisionRule != "" && stage.Mode != ModeDecision {
			return fmt.Errorf("stage %s sets decision_rule but mode is %s", stage.Name, stage.Mode)
		}

		for _, ability := range stage.Abilities {
			if ability.Name == "" {
				return fmt.Errorf("stage %s has ability with empty name", stage.Name)
			}
		}
	}

	return nil
}
