// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult is the outcome of matching one pattern against one text.
// Score is zero when the pattern does not match. Positions are rune
// offsets into the text.
type FuzzyResult struct {
	Score     int
	Positions []int
}

var fuzzyInitOnce sync.Once

// FuzzyMatch matches pattern against text with fzf's V2 algorithm,
// ignoring case. An empty pattern never matches. slab may be nil; pass
// one (util.MakeSlab) when matching many texts in a loop to avoid
// per-call allocation.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 || text == "" {
		return FuzzyResult{}
	}
	fuzzyInitOnce.Do(func() {
		algo.Init("default")
	})

	chars := util.ToChars([]byte(strings.ToLower(text)))
	lowered := []rune(strings.ToLower(string(pattern)))
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, lowered, true, slab)
	if result.Start < 0 || result.Score <= 0 {
		return FuzzyResult{}
	}

	match := FuzzyResult{Score: result.Score}
	if positions != nil {
		match.Positions = append([]int(nil), (*positions)...)
	}
	return match
}

// NewSlab returns a scratch buffer sized for board filtering.
func NewSlab() *util.Slab {
	return util.MakeSlab(100*1024, 2048)
}
