// Package kmz extracts placemark coordinates from KMZ archives into a
// semicolon-separated CSV of Name;Latitude;Longitude;Altitude rows.
package kmz

import (
	"archive/zip"
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ssargent/gsbgrid/pkg/export"
	"golang.org/x/text/encoding/charmap"
)

// UnnamedPlacemark is used for placemarks without a <name>
const UnnamedPlacemark = "Unnamed"

// ErrNoKML is returned when the archive holds no .kml entry
var ErrNoKML = errors.New("no .kml file found in archive")

// CSVHeader is the first row of every extracted file
var CSVHeader = []string{"Name", "Latitude", "Longitude", "Altitude"}

// Point is one coordinate tuple of a placemark
type Point struct {
	Name      string
	Latitude  float64
	Longitude float64
	Altitude  float64
}

// Result summarizes an extraction
type Result struct {
	Entry   string // KML entry read from the archive
	Points  int    // Rows written
	Skipped int    // Malformed coordinate tuples
}

// DefaultOutputPath replaces the extension of input with .csv
func DefaultOutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".csv"
}

// Extract reads the first .kml entry of kmzPath and writes its placemark
// coordinates to csvPath. The CSV is only created once a KML entry is found.
func Extract(kmzPath, csvPath string, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	zr, err := zip.OpenReader(kmzPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", kmzPath, err)
	}
	defer zr.Close()

	entry, err := FindKML(&zr.Reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kmzPath, err)
	}
	logger.Debug("reading kml entry", "archive", kmzPath, "entry", entry.Name)

	result := &Result{Entry: entry.Name}
	err = export.WriteAtomic(csvPath, func(w io.Writer) error {
		rc, err := entry.Open()
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", entry.Name, err)
		}
		defer rc.Close()

		cw := csv.NewWriter(w)
		cw.Comma = ';'
		if err := cw.Write(CSVHeader); err != nil {
			return err
		}

		skip := func(raw string) {
			result.Skipped++
			logger.Warn("skipping malformed point", "point", raw)
		}
		emit := func(p Point) error {
			result.Points++
			return cw.Write(p.Row())
		}
		if err := Scan(rc, emit, skip); err != nil {
			return err
		}

		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FindKML returns the first archive entry whose name ends in .kml
func FindKML(zr *zip.Reader) (*zip.File, error) {
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, ".kml") {
			return f, nil
		}
	}
	return nil, ErrNoKML
}

// Row formats p as a CSV record, latitude before longitude
func (p Point) Row() []string {
	return []string{
		p.Name,
		strconv.FormatFloat(p.Latitude, 'f', -1, 64),
		strconv.FormatFloat(p.Longitude, 'f', -1, 64),
		strconv.FormatFloat(p.Altitude, 'f', -1, 64),
	}
}

// ParsePoint parses one "lon,lat,alt" tuple. Exactly three numeric
// components are required.
func ParsePoint(raw string) (lon, lat, alt float64, err error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("expected 3 components, got %d", len(parts))
	}
	var vals [3]float64
	for i, part := range parts {
		vals[i], err = strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("component %d: %w", i+1, err)
		}
	}
	return vals[0], vals[1], vals[2], nil
}

// placemark collects the state of one open <Placemark> element
type placemark struct {
	depth  int
	name   strings.Builder
	coords []string
}

// Scan streams KML from r. For every Placemark it calls emit once per valid
// coordinate tuple found in any <coordinates> descendant, in document order,
// and skip for each malformed tuple. Element names are matched without
// regard to namespace.
func Scan(r io.Reader, emit func(Point) error, skip func(raw string)) error {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.CharsetReader = charsetReader

	var (
		stack    []*placemark
		depth    int
		inName   bool
		inCoords bool
		coordBuf strings.Builder
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to parse kml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if len(stack) == 0 && t.Name.Local != "Placemark" {
				continue
			}
			switch t.Name.Local {
			case "Placemark":
				stack = append(stack, &placemark{depth: depth})
			case "name":
				inName = depth == stack[len(stack)-1].depth+1
			case "coordinates":
				inCoords = true
				coordBuf.Reset()
			}

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			if inName {
				stack[len(stack)-1].name.Write(t)
			}
			if inCoords {
				coordBuf.Write(t)
			}

		case xml.EndElement:
			depth--
			if len(stack) == 0 {
				continue
			}
			pm := stack[len(stack)-1]
			switch t.Name.Local {
			case "name":
				inName = false
			case "coordinates":
				if inCoords {
					pm.coords = append(pm.coords, strings.Fields(coordBuf.String())...)
				}
				inCoords = false
			case "Placemark":
				if depth+1 != pm.depth {
					continue
				}
				stack = stack[:len(stack)-1]
				if err := flush(pm, emit, skip); err != nil {
					return err
				}
			}
		}
	}
}

func flush(pm *placemark, emit func(Point) error, skip func(raw string)) error {
	name := strings.TrimSpace(pm.name.String())
	if name == "" {
		name = UnnamedPlacemark
	}
	for _, raw := range pm.coords {
		lon, lat, alt, err := ParsePoint(raw)
		if err != nil {
			skip(raw)
			continue
		}
		if err := emit(Point{Name: name, Latitude: lat, Longitude: lon, Altitude: alt}); err != nil {
			return err
		}
	}
	return nil
}

// charsetReader handles the single-byte encodings KML exporters declare
// besides UTF-8
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	default:
		return nil, fmt.Errorf("unsupported kml encoding %q", label)
	}
}
