package profiles

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Profile is one scraped game account. The dataset is produced by the
// updater and treated as read only everywhere else. Cash and ES keep the
// display strings exactly as scraped ("$1,234.50"), numeric access goes
// through the parse helpers
type Profile struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Discord        string   `json:"discord"`
	Party          string   `json:"party"`
	State          string   `json:"state"`
	Position       string   `json:"position"`
	Cash           string   `json:"cash"`
	ES             string   `json:"es"`
	LastOnlineDays *float64 `json:"lastOnlineDays"`
	LastOnlineText string   `json:"lastOnlineText"`
}

// ParseAmount turns a scraped display string into a number. Everything
// that is not a digit or a dot is stripped, so "$1,234.50" becomes 1234.5.
// Empty or unparseable input becomes 0
func ParseAmount(display string) float64 {
	var builder strings.Builder
	for _, r := range display {
		if (r >= '0' && r <= '9') || r == '.' {
			builder.WriteRune(r)
		}
	}
	cleaned := builder.String()
	if cleaned == "" {
		return 0
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	result, _ := value.Float64()
	return result
}

func (p *Profile) CashValue() float64 {
	return ParseAmount(p.Cash)
}

func (p *Profile) ESValue() float64 {
	return ParseAmount(p.ES)
}

// PowerValue is the "political power" leaderboard metric: cash plus ES
func (p *Profile) PowerValue() float64 {
	return p.CashValue() + p.ESValue()
}

// Online reports whether the profile has a known last-online age
func (p *Profile) Online() bool {
	return p.LastOnlineDays != nil
}
