package service

import (
	"strings"

	"golang-finance-agent/internal/entity"
	"golang-finance-agent/pkg/utils"
)

// followUpIndicators are plain substrings; short pronouns intentionally
// match inside longer words, which errs toward treating queries as
// follow-ups when prior context exists.
var followUpIndicators = []string{
	"he", "she", "it", "they", "them", "their", "his", "her", "its",
	"this", "that", "these", "those", "the company", "the stock",
	"the report", "the statement", "the financial", "the latest",
}

type contextRewrite struct {
	From string
	To   string
}

// contextRewrites substitute pronouns and generic references with the last
// entity. Replacements run in order over the whole query; patterns are
// space-delimited so only standalone words rewrite.
var contextRewrites = []contextRewrite{
	{" he ", " %s "},
	{" she ", " %s "},
	{" it ", " %s "},
	{" they ", " %s "},
	{" them ", " %s "},
	{" their ", " %s's "},
	{" his ", " %s's "},
	{" her ", " %s's "},
	{" its ", " %s's "},
	{" the company ", " %s "},
	{" the stock ", " %s "},
	{" the report ", " %s's report "},
	{" the statement ", " %s's statement "},
	{" the financial ", " %s's financial "},
	{" the latest ", " %s's latest "},
}

// IsFollowUp reports whether a query refers back to earlier conversation:
// it contains a follow-up indicator and there is a prior entity to resolve
// against.
func IsFollowUp(query string, ctx *entity.Context) bool {
	if ctx.LastEntity == "" {
		return false
	}
	return utils.ContainsAny(strings.ToLower(query), followUpIndicators)
}

// ResolveFollowUp rewrites pronouns and generic references in a follow-up
// query to the last mentioned entity.
func ResolveFollowUp(query, lastEntity string) string {
	for _, rw := range contextRewrites {
		to := strings.ReplaceAll(rw.To, "%s", lastEntity)
		query = strings.ReplaceAll(query, rw.From, to)
	}
	return query
}

// UpdateFromEntities refreshes the conversation context from whatever
// entity the (already resolved) query mentions. Context is left untouched
// when nothing is recognized.
func UpdateFromEntities(ctx *entity.Context, query string) {
	name, topic := DetectEntity(query)
	if topic == entity.TopicNone {
		return
	}
	ctx.LastEntity = name
	ctx.LastTopic = topic
}

// UpdateFromSimpleQuery tracks context for canned factual answers: ticker
// lookups pin the resolved symbol, definition lookups pin the topic.
func UpdateFromSimpleQuery(ctx *entity.Context, query string) {
	queryLower := strings.ToLower(query)

	if strings.Contains(queryLower, "ticker") {
		for _, candidate := range []struct {
			Name   string
			Ticker string
		}{
			{"apple", "AAPL"},
			{"microsoft", "MSFT"},
			{"google", "GOOGL"},
			{"amazon", "AMZN"},
			{"tesla", "TSLA"},
		} {
			if strings.Contains(queryLower, candidate.Name) {
				ctx.LastEntity = candidate.Ticker
				ctx.LastTopic = entity.TopicStock
				break
			}
		}
	}

	if strings.Contains(queryLower, "market cap") || strings.Contains(queryLower, "market capitalization") {
		ctx.LastTopic = entity.TopicFinancialTerm
	} else if strings.Contains(queryLower, "p/e ratio") {
		ctx.LastTopic = entity.TopicFinancialTerm
	}
}
