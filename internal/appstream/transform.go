package appstream

import (
	"fmt"
	"strings"
)

// IconExt returns the filename extension a rewritten icon reference uses:
// ".svg" when the original icon URL points at an SVG, ".png" otherwise.
func (c *SourceComponent) IconExt() string {
	if strings.HasSuffix(c.IconURL, ".svg") {
		return ".svg"
	}
	return ".png"
}

// IconFileName is the local filename a rewritten icon reference points at.
func (c *SourceComponent) IconFileName() string {
	return c.ID + c.IconExt()
}

// Rewrite returns a copy of the component's preserved document retargeted at
// the given registry package:
//
//   - the pkgname field is set (added if absent) to attr;
//   - the releases section is replaced with a single release of version;
//   - remote and cached icon references become cached 128x128 references
//     pointing at the component's local icon filename.
//
// The parsed original is never mutated.
func (c *SourceComponent) Rewrite(attr, version string) (*Element, error) {
	if c.doc == nil {
		return nil, fmt.Errorf("component %s has no preserved document", c.ID)
	}

	doc := c.doc.Clone()

	pkgname := doc.Child("pkgname")
	if pkgname == nil {
		pkgname = doc.AddChild("pkgname")
	}
	pkgname.Text = attr
	pkgname.Children = nil

	releases := doc.Child("releases")
	if releases == nil {
		releases = doc.AddChild("releases")
	}
	releases.Text = ""
	releases.Children = nil
	release := releases.AddChild("release")
	release.SetAttr("version", version)

	for _, icon := range doc.ChildrenNamed("icon") {
		iconType := icon.Attr("type")
		if iconType != "remote" && iconType != "cached" {
			continue
		}
		icon.SetAttr("type", "cached")
		icon.SetAttr("width", "128")
		icon.SetAttr("height", "128")
		icon.Text = c.IconFileName()
		icon.Children = nil
	}

	return doc, nil
}
