package normalize

import (
	"strconv"
	"strings"
)

// parseNumeric parses a numeric cell. When the decimal separator is not
// configured it is detected per value: with both ',' and '.' present the
// rightmost one is the decimal mark; a repeated separator, or a lone comma
// after a non-zero integer part and before exactly three digits, groups
// thousands.
func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimSuffix(raw, "%")
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
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
			if groupedThousands(raw, ',') {
				dec, thou = '.', ','
			} else {
				dec = ','
			}
		case dpos >= 0:
			if groupedThousands(raw, '.') {
				dec, thou = ',', '.'
			} else {
				dec = '.'
			}
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
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func groupedThousands(raw string, sep rune) bool {
	s := string(sep)
	if strings.Count(raw, s) > 1 {
		return true
	}
	if sep != ',' {
		return false
	}
	i := strings.LastIndex(raw, s)
	head := strings.TrimLeft(raw[:i], "+-")
	tail := raw[i+1:]
	if len(tail) != 3 || head == "" || head == "0" {
		return false
	}
	for _, r := range tail {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isMissing reports whether a raw cell carries no value.
func isMissing(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "NA", "NaN", "<nil>":
		return true
	}
	return false
}
