package appstream

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/open-edge-platform/appstream-mapper/internal/utils/logger"
)

// IconSizeBucket is the fixed size bucket used when composing icon URLs and
// local icon paths.
const IconSizeBucket = "128x128"

// desktopSuffix is stripped from raw feed identifiers to form the identity.
const desktopSuffix = ".desktop"

// Only desktop application entries are retained from the feed.
var desktopKinds = map[string]bool{
	"desktop":             true,
	"desktop-application": true,
}

// ParseFeed reads an AppStream catalog document and returns its desktop
// components. Entries of other kinds and entries with an empty identity are
// skipped. A malformed document is a fatal parse error for the whole run.
//
// iconsBaseURL is used to synthesize a URL for content-addressed ("cached")
// icon references.
func ParseFeed(r io.Reader, iconsBaseURL string) (*Feed, error) {
	log := logger.Logger()

	feed := NewFeed()
	dec := xml.NewDecoder(r)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("parsing feed: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "component" {
			continue
		}

		var doc Element
		if err := dec.DecodeElement(&doc, &start); err != nil {
			return nil, fmt.Errorf("parsing component entry: %w", err)
		}

		comp := buildComponent(&doc, iconsBaseURL)
		if comp == nil {
			continue
		}
		feed.Add(comp)
	}

	log.Infof("parsed %d desktop applications from feed", feed.Len())
	return feed, nil
}

// buildComponent extracts a SourceComponent from a decoded component entry,
// or returns nil when the entry is not a retained desktop application.
func buildComponent(doc *Element, iconsBaseURL string) *SourceComponent {
	if !desktopKinds[doc.Attr("type")] {
		return nil
	}

	id := strings.TrimSpace(doc.ChildText("id"))
	id = strings.TrimSuffix(id, desktopSuffix)
	if id == "" {
		return nil
	}

	doc.compactWhitespace()

	comp := &SourceComponent{
		ID:            id,
		Name:          doc.ChildText("name"),
		Summary:       doc.ChildText("summary"),
		License:       doc.ChildText("project_license"),
		DeveloperName: doc.ChildText("developer_name"),
		doc:           doc,
	}

	if desc := doc.Child("description"); desc != nil {
		comp.Description = strings.TrimSpace(desc.AllText())
	}

	for _, cat := range doc.FindAll("category") {
		if text := strings.TrimSpace(cat.Text); text != "" {
			comp.Categories = append(comp.Categories, text)
		}
	}
	for _, kw := range doc.FindAll("keyword") {
		if text := strings.TrimSpace(kw.Text); text != "" {
			comp.Keywords = append(comp.Keywords, text)
		}
	}

	for _, shot := range doc.FindAll("screenshot") {
		for _, img := range shot.ChildrenNamed("image") {
			text := strings.TrimSpace(img.Text)
			if text != "" && img.Attr("type") == "source" {
				comp.Screenshots = append(comp.Screenshots, text)
			}
		}
	}

	// First remote or cached icon in document order wins.
	for _, icon := range doc.ChildrenNamed("icon") {
		text := strings.TrimSpace(icon.Text)
		if text == "" {
			continue
		}
		if icon.Attr("type") == "remote" {
			comp.IconURL = text
			break
		}
		if icon.Attr("type") == "cached" {
			comp.IconURL = iconsBaseURL + "/" + IconSizeBucket + "/" + text
			break
		}
	}

	for _, url := range doc.ChildrenNamed("url") {
		if url.Attr("type") == "homepage" {
			comp.Homepage = strings.TrimSpace(url.Text)
			break
		}
	}

	return comp
}
