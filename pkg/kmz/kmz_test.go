package kmz

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleKML = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <name>rede</name>
    <Placemark>
      <name>  Estação A </name>
      <Point><coordinates>-46.5,-23.25,760</coordinates></Point>
    </Placemark>
    <Placemark>
      <Point><coordinates>-43.1,-22.9,10.5</coordinates></Point>
    </Placemark>
    <Placemark>
      <name>Linha</name>
      <LineString>
        <coordinates>
          -47.0,-15.8,1100
          -47.1,-15.9
          bad,-15.7,1000
          -47.2,-16.0,1105
        </coordinates>
      </LineString>
    </Placemark>
    <Folder>
      <Placemark>
        <ExtendedData><Data name="x"><value>1</value></Data></ExtendedData>
        <name>Deep</name>
        <MultiGeometry>
          <Point><coordinates>1,2,3</coordinates></Point>
          <Point><coordinates>4,5,6</coordinates></Point>
        </MultiGeometry>
      </Placemark>
    </Folder>
  </Document>
</kml>
`

func writeKMZ(t *testing.T, files map[string]string, order ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rede.kmz")
	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for _, name := range order {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func collect(t *testing.T, kml string) ([]Point, []string) {
	t.Helper()
	var (
		points  []Point
		skipped []string
	)
	err := Scan(strings.NewReader(kml), func(p Point) error {
		points = append(points, p)
		return nil
	}, func(raw string) {
		skipped = append(skipped, raw)
	})
	require.NoError(t, err)
	return points, skipped
}

func TestScan(t *testing.T) {
	points, skipped := collect(t, sampleKML)

	require.Len(t, points, 6)
	assert.Equal(t, Point{Name: "Estação A", Latitude: -23.25, Longitude: -46.5, Altitude: 760}, points[0])
	assert.Equal(t, UnnamedPlacemark, points[1].Name)
	assert.Equal(t, "Linha", points[2].Name)
	assert.Equal(t, -16.0, points[3].Latitude)
	assert.Equal(t, "Deep", points[4].Name)
	assert.Equal(t, Point{Name: "Deep", Latitude: 5, Longitude: 4, Altitude: 6}, points[5])

	assert.Equal(t, []string{"-47.1,-15.9", "bad,-15.7,1000"}, skipped)
}

func TestScan_IgnoresCoordinatesOutsidePlacemarks(t *testing.T) {
	points, _ := collect(t, `<kml><Document><coordinates>1,2,3</coordinates></Document></kml>`)
	assert.Empty(t, points)
}

func TestScan_NameAfterCoordinates(t *testing.T) {
	points, _ := collect(t, `<kml><Placemark><Point><coordinates>1,2,3</coordinates></Point><name>Late</name></Placemark></kml>`)
	require.Len(t, points, 1)
	assert.Equal(t, "Late", points[0].Name)
}

func TestScan_Latin1(t *testing.T) {
	kml := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<kml><Placemark><name>S\xe3o Paulo</name><Point><coordinates>1,2,3</coordinates></Point></Placemark></kml>"
	points, _ := collect(t, kml)
	require.Len(t, points, 1)
	assert.Equal(t, "São Paulo", points[0].Name)
}

func TestScan_MalformedXML(t *testing.T) {
	err := Scan(strings.NewReader(`<kml><Placemark>`), func(Point) error { return nil }, func(string) {})
	assert.ErrorContains(t, err, "failed to parse kml")
}

func TestParsePoint(t *testing.T) {
	testCases := []struct {
		raw     string
		wantErr bool
	}{
		{raw: "1,2,3"},
		{raw: "-46.5,-23.25,0"},
		{raw: "1,2", wantErr: true},
		{raw: "1,2,3,4", wantErr: true},
		{raw: "1,x,3", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			_, _, _, err := ParsePoint(tc.raw)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	kmzPath := writeKMZ(t, map[string]string{
		"files/icon.png": "png",
		"doc.kml":        sampleKML,
		"other.kml":      "<kml/>",
	}, "files/icon.png", "doc.kml", "other.kml")
	csvPath := filepath.Join(filepath.Dir(kmzPath), "out.csv")

	result, err := Extract(kmzPath, csvPath, nil)
	require.NoError(t, err)
	assert.Equal(t, "doc.kml", result.Entry)
	assert.Equal(t, 6, result.Points)
	assert.Equal(t, 2, result.Skipped)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "Name;Latitude;Longitude;Altitude", lines[0])
	assert.Equal(t, "Estação A;-23.25;-46.5;760", lines[1])
	assert.Equal(t, "Unnamed;-22.9;-43.1;10.5", lines[2])
}

func TestExtract_NoKML(t *testing.T) {
	kmzPath := writeKMZ(t, map[string]string{"readme.txt": "hi"}, "readme.txt")
	csvPath := filepath.Join(filepath.Dir(kmzPath), "out.csv")

	_, err := Extract(kmzPath, csvPath, nil)
	assert.ErrorIs(t, err, ErrNoKML)
	assert.NoFileExists(t, csvPath)
}

func TestExtract_NoPoints(t *testing.T) {
	kmzPath := writeKMZ(t, map[string]string{"doc.kml": "<kml><Document/></kml>"}, "doc.kml")
	csvPath := filepath.Join(filepath.Dir(kmzPath), "out.csv")

	result, err := Extract(kmzPath, csvPath, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Points)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "Name;Latitude;Longitude;Altitude\n", string(data))
}

func TestExtract_MissingArchive(t *testing.T) {
	_, err := Extract(filepath.Join(t.TempDir(), "missing.kmz"), filepath.Join(t.TempDir(), "out.csv"), nil)
	assert.ErrorContains(t, err, "failed to open archive")
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, "data/rede-airq.csv", DefaultOutputPath("data/rede-airq.kmz"))
}
