package table

import (
	"strconv"
	"strings"
)

// NumberFormat controls locale-aware numeric parsing. Zero values mean
// auto-detect per cell.
type NumberFormat struct {
	DecimalSeparator   rune
	ThousandsSeparator rune // if 0, common separators (',' '.' space) are stripped
}

// ParseNumber attempts to read s as a number, handling percent signs,
// non-breaking spaces, and comma/dot decimal conventions. Detection: when
// both ',' and '.' appear, the rightmost one is the decimal separator;
// a lone ',' is treated as decimal.
func ParseNumber(s string, f NumberFormat) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	raw = strings.ReplaceAll(raw, "%", "")
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)

	dec := f.DecimalSeparator
	thou := f.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0:
			if cpos > dpos {
				dec, thou = ',', '.'
			} else {
				dec, thou = '.', ','
			}
		case cpos >= 0:
			dec = ','
		default:
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
