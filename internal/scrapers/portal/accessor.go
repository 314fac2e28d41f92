package portal

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page is a fetched portal page, Raw is the markup exactly as it was served
// (the marker checks run against it) and Doc is its parsed form.
type Page struct {
	Url string
	Raw string
	Doc *goquery.Document
}

func NewPage(url, raw string) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return Page{}, err
	}
	return Page{Url: url, Raw: raw, Doc: doc}, nil
}

// DocumentAccessor retrieves pages as an already authenticated user would see them.
//
// note: fault injection point
type DocumentAccessor interface {
	Fetch(ctx context.Context, link string) (Page, error)
}
