package sentiment

import (
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

var analyzer = govader.NewSentimentIntensityAnalyzer()

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]+>`)
)

func stripLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

// PlainText flattens markdown and inline HTML so VADER only sees prose.
func PlainText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	text := tagPattern.ReplaceAllString(string(output), " ")
	text = strings.Join(strings.Fields(text), " ")
	return stripLinks(text)
}

// Intensity returns the absolute compound polarity of the text in
// [0,1]. Adapters use it as an engagement component: strongly charged
// content trends harder regardless of direction.
func Intensity(text string) float64 {
	scores := analyzer.PolarityScores(PlainText(text))
	compound := scores.Compound
	if compound < 0 {
		compound = -compound
	}
	return compound
}
