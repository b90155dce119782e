// Command genmock generates synthetic weerplaza location pages with the
// markup structure the parser expects. The output is useful as an offline
// stand-in for the real site: write fixtures to disk for manual inspection,
// or serve them locally and point WEERPLAZA_BASE_URL at the mock server.
//
// Usage:
//
//	go run ./cmd/genmock -out testdata/page.html -hours 6 -days 3 -warning
//	go run ./cmd/genmock -serve :9090 -hours 6 -days 3 -flash
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
)

type pageSpec struct {
	warning     bool // include an active warning box
	quiet       bool // include the warnings section without a box
	flash       bool
	hourCount   int
	dayCount    int
	partsPerDay int
}

func main() {
	out := flag.String("out", "", "output path for the generated page")
	serve := flag.String("serve", "", "serve generated pages on this address instead of writing a file")
	warning := flag.Bool("warning", false, "include an active warning")
	quiet := flag.Bool("quiet-warning", false, "include the warnings section with no active warning")
	flash := flag.Bool("flash", false, "include a flash message banner")
	hours := flag.Int("hours", 6, "number of hourly forecast items (0 omits the section)")
	days := flag.Int("days", 3, "number of daily forecast days (0 omits the section)")
	parts := flag.Int("parts", 3, "day parts per daily forecast day")
	flag.Parse()

	spec := pageSpec{
		warning:     *warning,
		quiet:       *quiet,
		flash:       *flash,
		hourCount:   *hours,
		dayCount:    *days,
		partsPerDay: *parts,
	}

	if *serve != "" {
		log.Printf("serving mock weerplaza pages on %s (any location path)", *serve)
		log.Fatal(http.ListenAndServe(*serve, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, renderPage(spec))
		})))
	}

	if *out == "" {
		flag.Usage()
		os.Exit(1)
	}
	if err := os.WriteFile(*out, []byte(renderPage(spec)), 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote mock page: %s", *out)
}

var dayNames = []string{"Maandag", "Dinsdag", "Woensdag", "Donderdag", "Vrijdag", "Zaterdag", "Zondag"}

var partNames = []string{"Ochtend", "Middag", "Avond", "Nacht"}

var conditions = []string{"Zonnig", "Half bewolkt", "Bewolkt", "Lichte regen", "Buien", "Onweer"}

func renderPage(spec pageSpec) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><body>\n")

	if spec.warning || spec.quiet {
		b.WriteString("<h2>Waarschuwingen</h2>\n<div>\n")
		if spec.warning {
			b.WriteString(`  <div class="border">
    <h3 class="h3">Code geel</h3>
    <p class="font-normal">Lokaal gladde wegen door winterse buien.</p>
    <a class="button-link" href="/waarschuwingen/code-geel">Lees meer</a>
  </div>
`)
		}
		b.WriteString("</div>\n")
	}

	if spec.flash {
		b.WriteString(`<div class="rounded-md border" style="background-color: yellow;">
  <div class="flex items-center">Flash Weerbericht</div>
  <p class="text-xs">Vanmiddag kans op een stevige onweersbui.</p>
</div>
`)
	}

	if spec.hourCount > 0 {
		b.WriteString("<h2>Weerbericht uur tot uur</h2>\n<div>\n")
		for i := 0; i < spec.hourCount; i++ {
			writeItem(&b,
				fmt.Sprintf("%02d:00", (14+i)%24),
				conditions[i%len(conditions)],
				fmt.Sprintf("%d°", 21-i),
				fmt.Sprintf("%d.%d mm", i/3, i%3),
			)
		}
		b.WriteString("</div>\n")
	}

	if spec.dayCount > 0 {
		b.WriteString("<h2>Weerbericht daaglijks</h2>\n<div>\n")
		for d := 0; d < spec.dayCount; d++ {
			fmt.Fprintf(&b, "  <div class=\"bg-gray-50\">\n    <h3 class=\"h3\">%s</h3>\n", dayNames[d%len(dayNames)])
			for p := 0; p < spec.partsPerDay; p++ {
				writeItem(&b,
					partNames[p%len(partNames)],
					conditions[(d+p)%len(conditions)],
					fmt.Sprintf("%d°", 18-d+p),
					fmt.Sprintf("%d mm", (d+p)%4),
				)
			}
			b.WriteString("  </div>\n")
		}
		b.WriteString("</div>\n")
	}

	b.WriteString("</body></html>\n")
	return b.String()
}

func writeItem(b *strings.Builder, label, description, temperature, precipitation string) {
	fmt.Fprintf(b, `  <div class="flex flex-col items-center">
    <p class="text-sm">%s</p>
    <img src="/icons/weer.svg" alt="%s"/>
    <p class="text-xl">%s</p>
    <div class="flex items-center"><span>%s</span></div>
  </div>
`, label, description, temperature, precipitation)
}
