package scrape

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/malosaaa/weerplaza-scraper/internal/domain"
)

// Section headings as published on weerplaza.nl, matched exactly.
const (
	headingWarnings = "Waarschuwingen"
	headingHourly   = "Weerbericht uur tot uur"
	headingDaily    = "Weerbericht daaglijks"
)

// parsePage extracts a Record from a location page body. Each of the five
// sections is optional; a missing section yields its zero value. Structural
// violations (a heading whose expected layout is gone) return an error, which
// the client reclassifies as a parsing failure. Pure function of its input:
// identical bytes always produce an identical record.
func parsePage(r io.Reader, baseURL string) (*domain.Record, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("build document: %w", err)
	}

	rec := &domain.Record{WarningPresence: domain.WarningSectionMissing}

	if err := parseWarnings(doc, baseURL, rec); err != nil {
		return nil, err
	}
	parseFlashMessage(doc, rec)
	rec.Hourly = parseHourly(doc)
	rec.Daily = parseDaily(doc)
	rec.CurrentTemperature = domain.CurrentTemperatureOf(rec.Hourly)

	return rec, nil
}

// findHeading returns the first h2 whose trimmed text equals label.
func findHeading(doc *goquery.Document, label string) *goquery.Selection {
	return doc.Find("h2").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == label
	}).First()
}

// sectionContainer returns the next sibling div after a section heading,
// which wraps the section's content on weerplaza pages.
func sectionContainer(heading *goquery.Selection) *goquery.Selection {
	return heading.NextAllFiltered("div").First()
}

// parseWarnings fills the warning fields. The heading may be absent (section
// missing) or present without a warning box (quiet location); a heading with
// no content container at all means the page layout changed.
func parseWarnings(doc *goquery.Document, baseURL string, rec *domain.Record) error {
	heading := findHeading(doc, headingWarnings)
	if heading.Length() == 0 {
		rec.WarningPresence = domain.WarningSectionMissing
		return nil
	}

	container := sectionContainer(heading)
	if container.Length() == 0 {
		return errors.New("warnings heading present but content container missing")
	}

	box := container.Find("div.border").First()
	if box.Length() == 0 {
		rec.WarningPresence = domain.WarningNoneActive
		return nil
	}

	warning := &domain.Warning{
		Code:        trimmedText(box.Find("h3.h3").First()),
		Description: trimmedText(box.Find("p.font-normal").First()),
	}
	if href, ok := box.Find("a.button-link").First().Attr("href"); ok {
		warning.Link = resolveLink(baseURL, href)
	}

	rec.WarningPresence = domain.WarningActive
	rec.Warning = warning
	return nil
}

// parseFlashMessage fills the flash banner: a rounded bordered div whose
// inline style carries the yellow accent. The literal word "Flash" is
// stripped from the title; a missing title element falls back to "Flash".
func parseFlashMessage(doc *goquery.Document, rec *domain.Record) {
	banner := doc.Find("div.rounded-md.border").FilterFunction(func(_ int, s *goquery.Selection) bool {
		style, _ := s.Attr("style")
		return strings.Contains(style, "yellow")
	}).First()
	if banner.Length() == 0 {
		return
	}

	title := "Flash"
	if titleSel := banner.Find("div.flex.items-center").First(); titleSel.Length() > 0 {
		title = strings.TrimSpace(strings.ReplaceAll(titleSel.Text(), "Flash", ""))
	}

	rec.FlashMessage = &domain.FlashMessage{
		Title:   title,
		Message: trimmedText(banner.Find("p.text-xs").First()),
	}
}

// parseHourly walks the hourly forecast items in document order. A missing
// heading or container yields an empty list, not an error.
func parseHourly(doc *goquery.Document) []domain.HourlyEntry {
	container := sectionContainer(findHeading(doc, headingHourly))
	if container.Length() == 0 {
		return nil
	}

	var entries []domain.HourlyEntry
	container.Find("div.flex.flex-col.items-center").Each(func(_ int, item *goquery.Selection) {
		entries = append(entries, domain.HourlyEntry{
			Time:          trimmedText(item.Find("p.text-sm").First()),
			Description:   itemDescription(item),
			Temperature:   trimmedText(item.Find("p.text-xl").First()),
			Precipitation: itemPrecipitation(item),
		})
	})
	return entries
}

// parseDaily walks the daily forecast day blocks, each holding a day label
// and an ordered run of part blocks shaped like hourly items.
func parseDaily(doc *goquery.Document) []domain.DailyEntry {
	container := sectionContainer(findHeading(doc, headingDaily))
	if container.Length() == 0 {
		return nil
	}

	var days []domain.DailyEntry
	container.Find("div.bg-gray-50").Each(func(_ int, day *goquery.Selection) {
		entry := domain.DailyEntry{
			Day: trimmedText(day.Find("h3.h3").First()),
		}
		day.Find("div.flex.flex-col.items-center").Each(func(_ int, part *goquery.Selection) {
			entry.Parts = append(entry.Parts, domain.DayPart{
				TimeOfDay:     trimmedText(part.Find("p.text-sm").First()),
				Description:   itemDescription(part),
				Temperature:   trimmedText(part.Find("p.text-xl").First()),
				Precipitation: itemPrecipitation(part),
			})
		})
		days = append(days, entry)
	})
	return days
}

// itemDescription reads the weather description from the item icon's alt
// attribute, the only place weerplaza publishes it as text.
func itemDescription(item *goquery.Selection) string {
	alt, _ := item.Find("img").First().Attr("alt")
	return alt
}

// itemPrecipitation reads the optional precipitation value nested in the
// item's icon-and-value row.
func itemPrecipitation(item *goquery.Selection) string {
	return trimmedText(item.Find("div.flex.items-center").First().Find("span").First())
}

// resolveLink resolves a scraped href against the site base address.
// Weerplaza warning links are site-relative paths.
func resolveLink(baseURL, href string) string {
	if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return strings.TrimRight(baseURL, "/") + href
}

func trimmedText(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}
