// Package classifier assigns topic and market labels to extracted text.
//
// Classification is a pure function over ordered rule tables: the first
// rule whose pattern matches the lowercase concatenation of filename and
// text wins. Unmatched inputs default to TopicMisc and MarketAll. The
// same tables classify queries at retrieval time, so a chunk and the
// question asking about it land on the same topic.
package classifier

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/sopsearch-cli/internal/core/domain"
)

// topicRule pairs a pattern with the topic it selects.
type topicRule struct {
	pattern *regexp.Regexp
	topic   domain.Topic
}

// marketRule pairs a pattern with the market it selects.
type marketRule struct {
	pattern *regexp.Regexp
	market  domain.Market
}

// Rule order matters: earlier rules win. Keep the more specific
// vocabularies (company registration, cuisine tags) ahead of the
// broader writing-style terms.
var topicRules = []topicRule{
	{regexp.MustCompile(`trade licen[cs]e|company registration|legal (?:name|entity)|commercial regist|vat number`), domain.TopicCompany},
	{regexp.MustCompile(`cuisine|tag(?:ging|s)?\b|category mapping`), domain.TopicTags},
	{regexp.MustCompile(`image|photo|hero|banner|dimension|pixel|resolution|logo size`), domain.TopicImages},
	{regexp.MustCompile(`zone|radius|delivery area|coverage|km\b`), domain.TopicZones},
	{regexp.MustCompile(`capitali[sz]|title case|spelling|grammar|naming|item name|description|writing style|tone of voice`), domain.TopicWriting},
}

var marketRules = []marketRule{
	{regexp.MustCompile(`\buae\b|dubai|abu dhabi|sharjah|ajman|emirates|\baed\b`), domain.MarketAE},
	{regexp.MustCompile(`jordan|amman|irbid|zarqa|\bjod\b`), domain.MarketJO},
	{regexp.MustCompile(`saudi|\bksa\b|riyadh|jeddah|dammam|\bsar\b`), domain.MarketSA},
}

// Classify assigns a topic and market to a piece of content.
// It is a pure function of its inputs: identical filename and text
// always yield identical labels regardless of call order.
func Classify(filename, text string) (domain.Topic, domain.Market) {
	return ClassifyTopic(filename, text), ClassifyMarket(filename, text)
}

// ClassifyTopic returns the first matching topic, or TopicMisc.
func ClassifyTopic(filename, text string) domain.Topic {
	haystack := haystack(filename, text)
	for _, r := range topicRules {
		if r.pattern.MatchString(haystack) {
			return r.topic
		}
	}
	return domain.TopicMisc
}

// ClassifyMarket returns the first matching market, or MarketAll.
func ClassifyMarket(filename, text string) domain.Market {
	haystack := haystack(filename, text)
	for _, r := range marketRules {
		if r.pattern.MatchString(haystack) {
			return r.market
		}
	}
	return domain.MarketAll
}

// haystack builds the lowercase filename+text string the rules match on.
func haystack(filename, text string) string {
	return strings.ToLower(filename + " " + text)
}
