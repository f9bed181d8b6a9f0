package graph

import (
	"strings"

	"github.com/styx-api/styxgraph/pkg/errors"
)

// Style is the layout orientation of a rendered diagram.
// The zero value is TopDown.
type Style int

const (
	TopDown Style = iota
	LeftRight
	BottomTop
	RightLeft
)

var styleKeywords = [...]string{
	TopDown:   "TD",
	LeftRight: "LR",
	BottomTop: "BT",
	RightLeft: "RL",
}

var styleNames = [...]string{
	TopDown:   "top-down",
	LeftRight: "left-right",
	BottomTop: "bottom-top",
	RightLeft: "right-left",
}

// String returns the Mermaid orientation keyword (TD, LR, BT or RL).
func (s Style) String() string {
	if s < TopDown || s > RightLeft {
		return styleKeywords[TopDown]
	}
	return styleKeywords[s]
}

// Name returns the long form, e.g. "left-right".
func (s Style) Name() string {
	if s < TopDown || s > RightLeft {
		return styleNames[TopDown]
	}
	return styleNames[s]
}

// RankDir returns the equivalent Graphviz rankdir value.
func (s Style) RankDir() string {
	if s == TopDown {
		return "TB"
	}
	return s.String()
}

// ParseStyle accepts a Mermaid keyword (case-insensitive) or a long name.
// Unknown values return an INVALID_STYLE error.
func ParseStyle(v string) (Style, error) {
	v = strings.TrimSpace(v)
	for i := range styleKeywords {
		if strings.EqualFold(v, styleKeywords[i]) || strings.EqualFold(v, styleNames[i]) {
			return Style(i), nil
		}
	}
	if strings.EqualFold(v, "TB") {
		return TopDown, nil
	}
	return TopDown, errors.New(errors.ErrCodeInvalidStyle,
		"unknown graph style %q (must be TD, LR, BT or RL)", v)
}

// Styles lists all styles in declaration order.
func Styles() []Style {
	return []Style{TopDown, LeftRight, BottomTop, RightLeft}
}
