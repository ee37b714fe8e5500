package view

import (
	"strings"

	"console/internal/entity"
)

type NavLink struct {
	Title  string
	Href   string
	Active bool
}

var fixedLinks = []NavLink{
	{Title: "Dashboard", Href: "/dashboard"},
	{Title: "Employees", Href: "/employees"},
	{Title: "Users", Href: "/users"},
}

// Navigation lists the fixed pages followed by every entity the tenant has enabled,
// in registry order. The link matching current is marked active.
func Navigation(reg *entity.Registry, perms entity.Permissions, current string) []NavLink {
	visible := entity.VisibleEntities(reg, perms)
	links := make([]NavLink, 0, len(fixedLinks)+len(visible))
	links = append(links, fixedLinks...)
	for _, d := range visible {
		links = append(links, NavLink{Title: d.Title, Href: "/manage/" + d.Slug})
	}
	for i := range links {
		links[i].Active = current == links[i].Href || strings.HasPrefix(current, links[i].Href+"/")
	}
	return links
}
