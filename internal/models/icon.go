// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Icon identifies the pictogram shown next to a section in navigation.
// The set is closed: unknown values coming from the database or from
// admin input resolve to IconDefault instead of being passed through.
type Icon string

const (
	IconDefault   Icon = "default"
	IconBook      Icon = "book"
	IconNewspaper Icon = "newspaper"
	IconDownload  Icon = "download"
	IconStar      Icon = "star"
	IconGlobe     Icon = "globe"
	IconTools     Icon = "tools"
	IconGraduate  Icon = "graduate"
)

// validIcons is the fixed lookup table for icon resolution.
var validIcons = map[Icon]bool{
	IconDefault:   true,
	IconBook:      true,
	IconNewspaper: true,
	IconDownload:  true,
	IconStar:      true,
	IconGlobe:     true,
	IconTools:     true,
	IconGraduate:  true,
}

// ResolveIcon maps an arbitrary string to a known Icon, falling back to
// IconDefault for anything outside the table.
func ResolveIcon(s string) Icon {
	ic := Icon(s)
	if validIcons[ic] {
		return ic
	}
	return IconDefault
}
