package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/verdict/pkg/domain"
)

// Overlay carries validation results to paint on the graph.
type Overlay struct {
	Statuses map[string]domain.ValidationStatus
}

// OverlayFromState builds an overlay from a form snapshot.
func OverlayFromState(state *domain.ManagerState) *Overlay {
	if state == nil {
		return nil
	}
	o := &Overlay{Statuses: make(map[string]domain.ValidationStatus)}
	for _, s := range state.ValueHosts {
		if s.Kind == domain.KindInput {
			o.Statuses[s.Name] = s.Status
		}
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart of the value hosts and their dependencies.
// Static value hosts are rectangles and input value hosts parallelograms.
// An edge points from a value host to each dependent whose conditions read it.
func GenerateMermaid(descriptors []domain.ValueHostDescriptor, dependents func(string) []string, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, desc := range descriptors {
		safeID := sanitizeMermaidID(desc.Name)

		opener, closer := "[", "]"
		if desc.EffectiveKind() == domain.KindInput {
			opener, closer = "[/", "/]"
		}

		label := desc.Name
		if types := conditionTypes(desc); len(types) > 0 {
			label += " <br/> " + strings.Join(types, ", ")
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, strings.ReplaceAll(label, "\"", "'"), closer)
	}

	if dependents != nil {
		for _, desc := range descriptors {
			for _, dep := range dependents(desc.Name) {
				fmt.Fprintf(&sb, "    %s -.-> %s\n", sanitizeMermaidID(desc.Name), sanitizeMermaidID(dep))
			}
		}
	}

	if overlay != nil && len(overlay.Statuses) > 0 {
		sb.WriteString("\n    %% Validation Status\n")
		sb.WriteString("    classDef valid fill:#e8f5e9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef invalid fill:#ffebee,stroke:#c62828,stroke-width:3px,color:#000;\n")
		sb.WriteString("    classDef pending fill:#fff8e1,stroke:#f9a825,stroke-width:2px,color:#000;\n")

		names := make([]string, 0, len(overlay.Statuses))
		for name := range overlay.Statuses {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if class := statusClass(overlay.Statuses[name]); class != "" {
				fmt.Fprintf(&sb, "    class %s %s;\n", sanitizeMermaidID(name), class)
			}
		}
	}

	return sb.String()
}

func conditionTypes(desc domain.ValueHostDescriptor) []string {
	var types []string
	for _, v := range desc.Validators {
		if t := v.Condition.Type(); t != "" {
			types = append(types, t)
		}
	}
	return types
}

func statusClass(s domain.ValidationStatus) string {
	switch s {
	case domain.StatusValid:
		return "valid"
	case domain.StatusInvalid:
		return "invalid"
	case domain.StatusAsyncProcessing, domain.StatusValueChangedButUnvalidated, domain.StatusUndetermined:
		return "pending"
	}
	return ""
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
