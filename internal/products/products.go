// Package products derives canonical hierarchical storage paths from
// satellite product filenames, so ingestion pipelines can place or locate
// a product deterministically without a separate catalog.
//
// Supported naming conventions: Sentinel-2, Sentinel-3 and Landsat.
// All functions are pure and stateless.
package products

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnsupportedProductType is returned by GetPrefix for unknown product
// type tags. Use errors.Is to detect it.
var ErrUnsupportedProductType = errors.New("product type not supported")

// GrammarError indicates a filename does not match the structural pattern
// of its declared product family.
type GrammarError struct {
	Family   string
	Filename string
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("filename %q does not match the %s naming convention", e.Filename, e.Family)
}

// S2Identity holds the fields extracted from a Sentinel-2 product filename.
type S2Identity struct {
	Level string // e.g. "L2A"
	Tile  string // MGRS tile, e.g. "T32TQM"
	Year  int
	Month int
	Day   int
}

// S3Identity holds the fields extracted from a Sentinel-3 product filename.
type S3Identity struct {
	Sensor string // two-letter sensor code, e.g. "OL"
	Level  string // single-digit level, e.g. "1"
	Year   int
	Month  int
	Day    int
}

// LandsatIdentity holds the fields extracted from a Landsat product filename.
// Landsat names carry no tile; the collection tag takes its place.
type LandsatIdentity struct {
	Collection string // e.g. "L1TP"
	Year       int
	Month      int
	Day        int
}

var (
	s2Pattern      = regexp.MustCompile(`S2[ABCD]_MSI(L[12][AC])_(\d{4})(\d{2})(\d{2})T\d{6}_.*_.*_(T\d{2}\D{3})_`)
	s3Pattern      = regexp.MustCompile(`S3[ABCD]_([A-Z]{2})_(\d)_[A-Z]{3}____(\d{4})(\d{2})(\d{2})T\d{6}_`)
	landsatPattern = regexp.MustCompile(`L[CE]0\d_([A-Z0-9]*)_\d{6}_(\d{4})(\d{2})(\d{2})_`)
)

// GetPrefix parses filename against the grammar selected by productType
// (case-insensitive: "s2", "s3" or "landsat") and returns the canonical
// relative storage path for the product. aoi names the area of interest
// for the families whose path shape includes one.
func GetPrefix(filename, productType, aoi string) (string, error) {
	switch strings.ToLower(productType) {
	case "s2":
		id, err := ParseS2(filename)
		if err != nil {
			return "", err
		}
		return S2Path(id), nil
	case "s3":
		id, err := ParseS3(filename)
		if err != nil {
			return "", err
		}
		return S3Path(aoi, id), nil
	case "landsat":
		id, err := ParseLandsat(filename)
		if err != nil {
			return "", err
		}
		return LandsatPath(aoi, id), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProductType, productType)
	}
}

// ParseS2 extracts the identity fields from a Sentinel-2 product filename,
// e.g. "S2A_MSIL2A_20230115T103421_N0509_R108_T32TQM_20230115T134500.SAFE".
func ParseS2(filename string) (S2Identity, error) {
	m := s2Pattern.FindStringSubmatch(filename)
	if m == nil {
		return S2Identity{}, &GrammarError{Family: "Sentinel-2", Filename: filename}
	}
	return S2Identity{
		Level: m[1],
		Tile:  m[5],
		Year:  atoi(m[2]),
		Month: atoi(m[3]),
		Day:   atoi(m[4]),
	}, nil
}

// S2Path renders the canonical storage path for a Sentinel-2 identity:
// Sentinel-2/<level>/<tile>/<year>/<month>/<day>.
func S2Path(id S2Identity) string {
	return fmt.Sprintf("Sentinel-2/%s/%s/%s", id.Level, id.Tile, datePath(id.Year, id.Month, id.Day))
}

// ParseS3 extracts the identity fields from a Sentinel-3 product filename,
// e.g. "S3B_OL_1_EFR____20230115T103421_...".
func ParseS3(filename string) (S3Identity, error) {
	m := s3Pattern.FindStringSubmatch(filename)
	if m == nil {
		return S3Identity{}, &GrammarError{Family: "Sentinel-3", Filename: filename}
	}
	return S3Identity{
		Sensor: m[1],
		Level:  m[2],
		Year:   atoi(m[3]),
		Month:  atoi(m[4]),
		Day:    atoi(m[5]),
	}, nil
}

// S3Path renders the canonical storage path for a Sentinel-3 identity:
// Sentinel-3/<sensor>/<level>/<aoi>/<year>/<month>/<day>.
// Sensor codes expand to instrument names (OL to OLCI, SL to SLSTR, SY to
// SYNERGY) and the level gains an "L" prefix if missing.
func S3Path(aoi string, id S3Identity) string {
	sensor := id.Sensor
	switch sensor {
	case "OL":
		sensor = "OLCI"
	case "SL":
		sensor = "SLSTR"
	case "SY":
		sensor = "SYNERGY"
	}

	level := id.Level
	if !strings.HasPrefix(level, "L") {
		level = "L" + level
	}

	return joinSegments("Sentinel-3", sensor, level, aoi, datePath(id.Year, id.Month, id.Day))
}

// ParseLandsat extracts the identity fields from a Landsat product
// filename, e.g. "LC08_L1TP_190027_20230115_20230124_02_T1".
func ParseLandsat(filename string) (LandsatIdentity, error) {
	m := landsatPattern.FindStringSubmatch(filename)
	if m == nil {
		return LandsatIdentity{}, &GrammarError{Family: "Landsat", Filename: filename}
	}
	return LandsatIdentity{
		Collection: m[1],
		Year:       atoi(m[2]),
		Month:      atoi(m[3]),
		Day:        atoi(m[4]),
	}, nil
}

// LandsatPath renders the canonical storage path for a Landsat identity:
// Landsat/<collection>/<aoi>/<year>/<month>/<day>.
func LandsatPath(aoi string, id LandsatIdentity) string {
	return joinSegments("Landsat", id.Collection, aoi, datePath(id.Year, id.Month, id.Day))
}

// joinSegments joins path segments, dropping empty ones (an empty aoi
// contributes no segment).
func joinSegments(segments ...string) string {
	kept := segments[:0:0]
	for _, s := range segments {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "/")
}

// datePath renders the trailing year/month/day segments with a 4-digit
// year and zero-padded month and day.
func datePath(year, month, day int) string {
	return fmt.Sprintf("%04d/%02d/%02d", year, month, day)
}

// atoi converts regex-captured digit groups; patterns guarantee digits.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
