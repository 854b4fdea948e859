// Package levels holds the enumerated endorsement level range and display names.
package levels

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	Min uint8 = 1
	Max uint8 = 11
)

var ErrOutOfRange = errors.New("level out of range")

var userNames = [...]string{
	"",
	"Sprout",
	"Seedling",
	"Sower",
	"Gardener",
	"Tree Planter",
	"Nurturer",
	"Grovekeeper",
	"Trailblazer",
	"Earth Guardian",
	"Luminary",
	"Community Pillar",
}

var daoNames = [...]string{
	"",
	"Initiate",
	"Curator",
	"Advisor",
	"Steward",
	"Elder",
	"Visionary",
	"Strategist",
	"Shaper",
	"Guardian",
	"Beacon",
	"Council Pillar",
}

// Option is one entry of the level select.
type Option struct {
	Level   uint8  `json:"level"`
	UserTag string `json:"userName"`
	DaoTag  string `json:"daoName"`
}

// Options lists every selectable level in ascending order.
func Options() []Option {
	out := make([]Option, 0, int(Max-Min)+1)
	for l := Min; l <= Max; l++ {
		out = append(out, Option{Level: l, UserTag: userNames[l], DaoTag: daoNames[l]})
	}
	return out
}

// Parse accepts only the decimal values the select can produce.
func Parse(s string) (uint8, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.Wrap(ErrOutOfRange, "empty level")
	}
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, errors.Wrapf(ErrOutOfRange, "level %q", s)
	}
	l := uint8(v)
	if !Valid(l) {
		return 0, errors.Wrapf(ErrOutOfRange, "level %d", l)
	}
	return l, nil
}

func Valid(l uint8) bool { return l >= Min && l <= Max }

// UserName returns the user level title, or "" when the level is unknown (0 = none yet).
func UserName(l uint8) string {
	if int(l) >= len(userNames) {
		return ""
	}
	return userNames[l]
}

func DaoName(l uint8) string {
	if int(l) >= len(daoNames) {
		return ""
	}
	return daoNames[l]
}
