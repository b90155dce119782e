package scrape

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/malosaaa/weerplaza-scraper/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://www.weerplaza.nl/"

// fullPage mirrors the structure of a live weerplaza location page with all
// five sections present.
const fullPage = `<!DOCTYPE html>
<html><body>
<h2>Waarschuwingen</h2>
<div>
  <div class="border">
    <h3 class="h3">Code geel</h3>
    <p class="font-normal">Lokaal gladde wegen door winterse buien.</p>
    <a class="button-link" href="/waarschuwingen/code-geel">Lees meer</a>
  </div>
</div>
<div class="rounded-md border" style="background-color: yellow;">
  <div class="flex items-center">Flash Weerbericht</div>
  <p class="text-xs">Vanmiddag kans op een stevige onweersbui.</p>
</div>
<h2>Weerbericht uur tot uur</h2>
<div>
  <div class="flex flex-col items-center">
    <p class="text-sm">14:00</p>
    <img src="/icons/zon.svg" alt="Zonnig"/>
    <p class="text-xl">21°</p>
    <div class="flex items-center"><span>0.2 mm</span></div>
  </div>
  <div class="flex flex-col items-center">
    <p class="text-sm">15:00</p>
    <img src="/icons/bewolkt.svg" alt="Half bewolkt"/>
    <p class="text-xl">20°</p>
  </div>
</div>
<h2>Weerbericht daaglijks</h2>
<div>
  <div class="bg-gray-50">
    <h3 class="h3">Maandag</h3>
    <div class="flex flex-col items-center">
      <p class="text-sm">Ochtend</p>
      <img src="/icons/regen.svg" alt="Lichte regen"/>
      <p class="text-xl">16°</p>
      <div class="flex items-center"><span>2 mm</span></div>
    </div>
    <div class="flex flex-col items-center">
      <p class="text-sm">Middag</p>
      <img src="/icons/zon.svg" alt="Zonnig"/>
      <p class="text-xl">19°</p>
    </div>
  </div>
  <div class="bg-gray-50">
    <h3 class="h3">Dinsdag</h3>
    <div class="flex flex-col items-center">
      <p class="text-sm">Ochtend</p>
      <img src="/icons/onweer.svg" alt="Onweer"/>
      <p class="text-xl">15°</p>
      <div class="flex items-center"><span>5 mm</span></div>
    </div>
  </div>
</div>
</body></html>`

func parseFixture(t *testing.T, page string) *domain.Record {
	t.Helper()
	rec, err := parsePage(strings.NewReader(page), testBaseURL)
	require.NoError(t, err)
	require.NotNil(t, rec)
	return rec
}

func TestParsePage_FullPage(t *testing.T) {
	rec := parseFixture(t, fullPage)

	assert.Equal(t, domain.WarningActive, rec.WarningPresence)
	require.NotNil(t, rec.Warning)
	assert.Equal(t, "Code geel", rec.Warning.Code)
	assert.Equal(t, "Lokaal gladde wegen door winterse buien.", rec.Warning.Description)
	assert.Equal(t, "https://www.weerplaza.nl/waarschuwingen/code-geel", rec.Warning.Link)

	require.NotNil(t, rec.FlashMessage)
	assert.Equal(t, "Weerbericht", rec.FlashMessage.Title, "the literal word Flash is stripped")
	assert.Equal(t, "Vanmiddag kans op een stevige onweersbui.", rec.FlashMessage.Message)

	require.Len(t, rec.Hourly, 2)
	assert.Equal(t, domain.HourlyEntry{
		Time:          "14:00",
		Description:   "Zonnig",
		Temperature:   "21°",
		Precipitation: "0.2 mm",
	}, rec.Hourly[0])
	assert.Empty(t, rec.Hourly[1].Precipitation, "precipitation is optional per item")

	require.Len(t, rec.Daily, 2)
	assert.Equal(t, "Maandag", rec.Daily[0].Day)
	require.Len(t, rec.Daily[0].Parts, 2)
	assert.Equal(t, domain.DayPart{
		TimeOfDay:     "Ochtend",
		Description:   "Lichte regen",
		Temperature:   "16°",
		Precipitation: "2 mm",
	}, rec.Daily[0].Parts[0])
	assert.Equal(t, "Dinsdag", rec.Daily[1].Day)
	require.Len(t, rec.Daily[1].Parts, 1)

	assert.Equal(t, rec.Hourly[0].Temperature, rec.CurrentTemperature,
		"current temperature is derived from the first hourly entry")
}

func TestParsePage_Idempotent(t *testing.T) {
	first := parseFixture(t, fullPage)
	second := parseFixture(t, fullPage)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("identical input produced different records (-first +second):\n%s", diff)
	}
}

func TestParsePage_WarningSectionMissing(t *testing.T) {
	rec := parseFixture(t, `<html><body>
<h2>Weerbericht uur tot uur</h2>
<div>
  <div class="flex flex-col items-center">
    <p class="text-sm">14:00</p>
    <img alt="Zonnig"/>
    <p class="text-xl">21°</p>
  </div>
</div>
</body></html>`)

	assert.Equal(t, domain.WarningSectionMissing, rec.WarningPresence)
	assert.Nil(t, rec.Warning)
}

func TestParsePage_WarningNoneActive(t *testing.T) {
	rec := parseFixture(t, `<html><body>
<h2>Waarschuwingen</h2>
<div><p>Er zijn momenteel geen waarschuwingen.</p></div>
</body></html>`)

	assert.Equal(t, domain.WarningNoneActive, rec.WarningPresence,
		"heading present with no warning box is 'none active', not 'section missing'")
	assert.Nil(t, rec.Warning)
	assert.False(t, rec.Empty(), "a quiet warnings section still counts as content")
}

func TestParsePage_WarningHeadingWithoutContainer(t *testing.T) {
	_, err := parsePage(strings.NewReader(`<html><body>
<h2>Waarschuwingen</h2>
<p>alleen tekst</p>
</body></html>`), testBaseURL)

	require.Error(t, err, "a warnings heading without its content container violates the layout")
	assert.Contains(t, err.Error(), "container")
}

func TestParsePage_HourlyMissingDailyPresent(t *testing.T) {
	rec := parseFixture(t, `<html><body>
<h2>Weerbericht daaglijks</h2>
<div>
  <div class="bg-gray-50">
    <h3 class="h3">Maandag</h3>
    <div class="flex flex-col items-center">
      <p class="text-sm">Middag</p>
      <img alt="Bewolkt"/>
      <p class="text-xl">18°</p>
    </div>
  </div>
</div>
</body></html>`)

	assert.Empty(t, rec.Hourly)
	require.Len(t, rec.Daily, 1)
	assert.Empty(t, rec.CurrentTemperature,
		"no hourly entries means no derived current temperature")
}

func TestParsePage_FlashTitleFallback(t *testing.T) {
	rec := parseFixture(t, `<html><body>
<div class="rounded-md border" style="border-color: yellow;">
  <p class="text-xs">Korte mededeling.</p>
</div>
</body></html>`)

	require.NotNil(t, rec.FlashMessage)
	assert.Equal(t, "Flash", rec.FlashMessage.Title, "missing title element falls back to the literal")
	assert.Equal(t, "Korte mededeling.", rec.FlashMessage.Message)
}

func TestParsePage_FlashBannerRequiresYellowStyle(t *testing.T) {
	rec := parseFixture(t, `<html><body>
<h2>Waarschuwingen</h2>
<div></div>
<div class="rounded-md border" style="background-color: gray;">
  <div class="flex items-center">Flash Nieuws</div>
  <p class="text-xs">Geen flash.</p>
</div>
</body></html>`)

	assert.Nil(t, rec.FlashMessage)
}

func TestParsePage_EmptyPage(t *testing.T) {
	rec := parseFixture(t, `<html><body><h1>Weerplaza</h1></body></html>`)
	assert.True(t, rec.Empty())
}

func TestResolveLink(t *testing.T) {
	assert.Equal(t, "https://www.weerplaza.nl/a/b", resolveLink(testBaseURL, "/a/b"))
	assert.Equal(t, "https://www.weerplaza.nl/a/b", resolveLink(testBaseURL, "a/b"))
	assert.Equal(t, "https://other.example/x", resolveLink(testBaseURL, "https://other.example/x"))
	assert.Empty(t, resolveLink(testBaseURL, ""))
}
