package portalapi

import (
	"coursesync-backend/internal/scrapers/portal"
	"coursesync-backend/pkg/configutil"
)

// Manifest lists the classes to scrape along with the rows of their
// announcement and assignment listings. It is read from json5.
type Manifest struct {
	Classes []ManifestClass `json:"classes"`
}

type ManifestClass struct {
	Name          string                 `json:"name"`
	Link          string                 `json:"link"`
	Announcements []ManifestAnnouncement `json:"announcements"`
	Assignments   []ManifestAssignment   `json:"assignments"`
}

type ManifestAnnouncement struct {
	Name   string `json:"name"`
	Author string `json:"author"`
	Link   string `json:"link"`
	Date   string `json:"date"`
}

type ManifestAssignment struct {
	Name   string `json:"name"`
	Link   string `json:"link"`
	Due    string `json:"due"`
	Status string `json:"status"`
}

func ReadManifest(path string) (Manifest, error) {
	return configutil.ReadConfig(path, Manifest{})
}

// Build creates a fresh, unloaded set of classes from the manifest.
func (m Manifest) Build() []*portal.Class {
	classes := make([]*portal.Class, 0, len(m.Classes))
	for _, c := range m.Classes {
		class := &portal.Class{Name: c.Name, Link: c.Link}
		for _, a := range c.Announcements {
			class.AddAnnouncement(portal.NewAnnouncement(a.Name, a.Author, a.Link, a.Date))
		}
		for _, a := range c.Assignments {
			class.AddAssignment(portal.NewAssignment(a.Name, a.Link, a.Due, a.Status))
		}
		classes = append(classes, class)
	}
	return classes
}
