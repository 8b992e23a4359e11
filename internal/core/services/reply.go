package services

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/custodia-labs/examprep/internal/core/ports/driven"
)

// JSONTier names the strategy that located JSON inside a model reply.
type JSONTier string

// Reply parsing tiers, tried in order.
const (
	// TierFenced is a ```json fenced block.
	TierFenced JSONTier = "fenced"

	// TierWhole is the entire trimmed reply.
	TierWhole JSONTier = "whole"

	// TierBracketed is the span from the first '[' to the last ']'.
	TierBracketed JSONTier = "bracketed"
)

// JSONExtraction is a JSON value located in a model reply.
type JSONExtraction struct {
	// Payload is the raw JSON text.
	Payload json.RawMessage

	// Tier is the strategy that produced Payload.
	Tier JSONTier
}

var fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// ExtractJSON locates a JSON value in free-form model output.
// Each tier is tried independently; the first that yields valid JSON wins.
func ExtractJSON(reply string) (JSONExtraction, bool) {
	tiers := []struct {
		tier JSONTier
		fn   func(string) (string, bool)
	}{
		{TierFenced, fencedBlock},
		{TierWhole, wholeReply},
		{TierBracketed, bracketedSpan},
	}

	for _, t := range tiers {
		candidate, ok := t.fn(reply)
		if !ok || !json.Valid([]byte(candidate)) {
			continue
		}
		return JSONExtraction{Payload: json.RawMessage(candidate), Tier: t.tier}, true
	}
	return JSONExtraction{}, false
}

func fencedBlock(reply string) (string, bool) {
	m := fencedJSON.FindStringSubmatch(reply)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

func wholeReply(reply string) (string, bool) {
	s := strings.TrimSpace(reply)
	return s, s != ""
}

func bracketedSpan(reply string) (string, bool) {
	first := strings.Index(reply, "[")
	last := strings.LastIndex(reply, "]")
	if first < 0 || last <= first {
		return "", false
	}
	return reply[first : last+1], true
}

// GenerationText pulls plain text out of a reply: the direct text
// accessor first, then top-level parts, then the first candidate's parts.
func GenerationText(gen *driven.Generation) (string, bool) {
	if gen == nil {
		return "", false
	}
	if gen.Text != "" {
		return gen.Text, true
	}
	if text := strings.Join(gen.Parts, ""); text != "" {
		return text, true
	}
	if len(gen.Candidates) > 0 {
		if text := strings.Join(gen.Candidates[0].Parts, ""); text != "" {
			return text, true
		}
	}
	return "", false
}
