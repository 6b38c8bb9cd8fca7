package fontposter

import (
	"regexp"
	"strings"
)

// Appended to labels that have no Chinese characters, the documentation site
// is written in Chinese.
const LabelSuffix = "字体"

var hanPattern = regexp.MustCompile(`[\x{4e00}-\x{9fa5}]`)

var labelReplacer = strings.NewReplacer("_", " ", "-", " ")

// "My_Font-Bold" -> "My Font Bold"
func DisplayLabel(name string) string {
	return labelReplacer.Replace(name)
}

func ContainsNoHan(s string) bool {
	return !hanPattern.MatchString(s)
}

// Text shown above the sample phrase on the poster.
func PosterText(name string) string {
	label := DisplayLabel(name)
	if ContainsNoHan(label) {
		return label + LabelSuffix
	}
	return label
}
