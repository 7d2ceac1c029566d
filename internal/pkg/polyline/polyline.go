// Package polyline implements the encoded polyline algorithm format used by
// OSRM, GraphHopper and Google. Coordinates are scaled by 10^precision,
// delta-encoded, zigzag-signed and split into 5-bit chunks offset by 63.
package polyline

import (
	"errors"
	"math"
	"strings"

	"github.com/samirrijal/stopsequencer/internal/core/domain"
)

// Common precisions.
const (
	Precision5 = 5
	Precision6 = 6
)

// ErrTruncated is returned when the input ends inside a value.
var ErrTruncated = errors.New("polyline: truncated input")

// ErrInvalidChar is returned for bytes outside the encoding alphabet.
var ErrInvalidChar = errors.New("polyline: invalid character")

// Decode decodes an encoded polyline at the given precision.
func Decode(encoded string, precision int) ([]domain.GeoPoint, error) {
	factor := math.Pow10(precision)
	points := make([]domain.GeoPoint, 0, len(encoded)/4)

	var lat, lng int64
	for i := 0; i < len(encoded); {
		dlat, n, err := decodeValue(encoded, i)
		if err != nil {
			return nil, err
		}
		i = n
		dlng, n, err := decodeValue(encoded, i)
		if err != nil {
			return nil, err
		}
		i = n

		lat += dlat
		lng += dlng
		points = append(points, domain.GeoPoint{
			Lat: float64(lat) / factor,
			Lng: float64(lng) / factor,
		})
	}
	return points, nil
}

func decodeValue(s string, i int) (int64, int, error) {
	var result int64
	var shift uint
	for {
		if i >= len(s) {
			return 0, i, ErrTruncated
		}
		b := int64(s[i]) - 63
		i++
		if b < 0 || b > 0x3f {
			return 0, i, ErrInvalidChar
		}
		if shift > 60 {
			return 0, i, ErrInvalidChar
		}
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}
	if result&1 != 0 {
		return ^(result >> 1), i, nil
	}
	return result >> 1, i, nil
}

// Encode encodes points at the given precision.
func Encode(points []domain.GeoPoint, precision int) string {
	factor := math.Pow10(precision)
	var sb strings.Builder

	var prevLat, prevLng int64
	for _, p := range points {
		lat := int64(math.Round(p.Lat * factor))
		lng := int64(math.Round(p.Lng * factor))
		encodeValue(&sb, lat-prevLat)
		encodeValue(&sb, lng-prevLng)
		prevLat, prevLng = lat, lng
	}
	return sb.String()
}

func encodeValue(sb *strings.Builder, v int64) {
	u := v << 1
	if v < 0 {
		u = ^u
	}
	for u >= 0x20 {
		sb.WriteByte(byte((0x20 | (u & 0x1f)) + 63))
		u >>= 5
	}
	sb.WriteByte(byte(u + 63))
}
