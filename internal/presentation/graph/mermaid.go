package graph

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/hoist/internal/config"
	"github.com/aretw0/hoist/pkg/domain"
)

// LinkKind distinguishes the edges of the fleet topology.
type LinkKind string

const (
	LinkData   LinkKind = "data"
	LinkSignal LinkKind = "signal"
	LinkSpawn  LinkKind = "spawn"
)

// Link is one directed edge between two roles.
type Link struct {
	From  domain.Role
	To    domain.Role
	Kind  LinkKind
	Label string
}

// Topology lists the roles of a fleet and how they are connected.
type Topology struct {
	Roles []domain.Role
	Links []Link
}

// GraphOverlay contains live fleet data to visualize on the graph.
type GraphOverlay struct {
	Pids   map[domain.Role]int
	Failed domain.Role
}

// FleetTopology derives the topology of the rig from its channel layout.
func FleetTopology(cfg config.Config) Topology {
	fifo := func(path string) string { return filepath.Base(path) }
	t := Topology{
		Roles: append([]domain.Role{domain.RoleSupervisor}, domain.Workers...),
	}
	for _, r := range domain.Workers {
		t.Links = append(t.Links, Link{From: domain.RoleSupervisor, To: r, Kind: LinkSpawn})
	}
	for _, axis := range []domain.Role{domain.RoleAxisX, domain.RoleAxisZ} {
		t.Links = append(t.Links,
			Link{From: domain.RoleCommand, To: axis, Kind: LinkData, Label: fifo(cfg.CommandFIFO(axis))},
			Link{From: axis, To: domain.RoleWorld, Kind: LinkData, Label: fifo(cfg.TelemetryFIFO(axis))},
			Link{From: domain.RoleInspection, To: axis, Kind: LinkSignal, Label: "STOP/RESET"},
		)
	}
	t.Links = append(t.Links, Link{From: domain.RoleWorld, To: domain.RoleInspection, Kind: LinkData, Label: fifo(cfg.TelegramFIFO())})
	return t
}

// GenerateMermaid produces a Mermaid flowchart of the topology.
// Shapes:
// - Supervisor: ((Circle))
// - Consoles: [/Parallelogram/]
// - Default: [Rectangle]
func GenerateMermaid(t Topology, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, role := range t.Roles {
		opener, closer := "[", "]"
		switch role {
		case domain.RoleSupervisor:
			opener, closer = "((", "))"
		case domain.RoleCommand, domain.RoleInspection:
			opener, closer = "[/", "/]"
		}

		label := string(role)
		if overlay != nil {
			if pid, ok := overlay.Pids[role]; ok {
				label = fmt.Sprintf("%s <br/> pid %d", role, pid)
			}
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", sanitizeMermaidID(string(role)), opener, label, closer))
	}

	for _, l := range t.Links {
		var arrow string
		switch l.Kind {
		case LinkSpawn:
			arrow = "-.->"
		case LinkSignal:
			arrow = fmt.Sprintf("-. \"%s\" .->", l.Label)
		default:
			arrow = fmt.Sprintf("-- \"%s\" -->", l.Label)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(string(l.From)), arrow, sanitizeMermaidID(string(l.To))))
	}

	if overlay != nil && overlay.Failed != "" {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#b71c1c,stroke-width:4px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s failed;\n", sanitizeMermaidID(string(overlay.Failed))))
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	return s
}
