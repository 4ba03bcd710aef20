// Package pipeline implements the per-command record loop (C9): the
// driver that pulls records through a seqio reader, evaluates a command
// body against an EvalContext, and pushes kept/diverted records back out
// through a seqio writer, tallying a Report along the way.
package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/seqtoolkit/st/internal/meta"
	"github.com/seqtoolkit/st/internal/record"
	"github.com/seqtoolkit/st/internal/search"
	"github.com/seqtoolkit/st/internal/sequtil"
	"github.com/seqtoolkit/st/internal/vars"
)

// EvalContext is the concrete vars.Context the driver resets once per
// record. It carries the standard file/index slots plus whatever a
// command body (C7's search hits, C8's dedup key) populates as
// command-local slots before evaluating a template against the record.
type EvalContext struct {
	rec *record.Record

	af         record.AttrFormat
	defaultExt string
	seqType    sequtil.SeqType

	joiner *meta.Joiner

	globalSeqNum int64 // running count across every file in this invocation
	fileSeqNum   int64 // running count within the current file only

	// command-local slots, set by the command body before evaluating a
	// template for a given match/dedup result
	match        *search.Match
	matchPattern []byte
	patternNames []string
	dedupKey     string
	nDuplicates  int64
	duplicateIDs []string
}

// NewEvalContext creates an EvalContext for one command invocation. af and
// defaultExt stay fixed for the run; joiner may be nil if no metadata file
// was supplied.
func NewEvalContext(af record.AttrFormat, defaultExt string, seqType sequtil.SeqType, joiner *meta.Joiner) *EvalContext {
	return &EvalContext{af: af, defaultExt: defaultExt, seqType: seqType, joiner: joiner}
}

// Reset points the context at rec ahead of evaluating templates for it,
// bumping the global and per-file sequence counters, and clearing any
// command-local slots left over from the previous record.
func (c *EvalContext) Reset(rec *record.Record, newFile bool) {
	c.rec = rec
	c.globalSeqNum++
	if newFile {
		c.fileSeqNum = 0
	}
	c.fileSeqNum++
	c.match = nil
	c.patternNames = nil
	c.dedupKey = ""
	c.nDuplicates = 0
	c.duplicateIDs = nil
}

// SetMatch points match-family variables at m for the duration of one
// evaluation (find/replace emit one output per hit). names is the full
// pattern-name list so pattern_name(idx) and friends resolve.
func (c *EvalContext) SetMatch(m *search.Match, pattern []byte, patternNames []string) {
	c.match = m
	c.matchPattern = pattern
	c.patternNames = patternNames
}

// SetDedup points key/n_duplicates/duplicates_list at a C8 unique/sort
// result.
func (c *EvalContext) SetDedup(key string, n int64, ids []string) {
	c.dedupKey = key
	c.nDuplicates = n
	c.duplicateIDs = ids
}

func (c *EvalContext) Rec() *record.Record          { return c.rec }
func (c *EvalContext) AttrFormat() record.AttrFormat { return c.af }
func (c *EvalContext) Path() string                 { return c.rec.Path }
func (c *EvalContext) DefaultExt() string           { return c.defaultExt }
func (c *EvalContext) SeqType() sequtil.SeqType     { return c.seqType }

func (c *EvalContext) SeqNum(reset bool) int64 {
	if reset {
		c.globalSeqNum = 0
	}
	return c.globalSeqNum
}

func (c *EvalContext) SeqIdx(reset bool) int64 {
	if reset {
		c.fileSeqNum = 0
	}
	return c.fileSeqNum
}

func (c *EvalContext) HasMeta() bool { return c.joiner != nil }

// Meta looks up column col for the current record's ID via the joiner,
// returning an error the caller should treat as fatal (per spec.md §7,
// meta() without the opt_ prefix is required-data) when no joiner is
// configured or the row has no such column.
func (c *EvalContext) Meta(col string) (vars.Value, bool, error) {
	v, ok := c.OptMeta(col)
	if !ok {
		return vars.Undefined, false, fmt.Errorf("meta(%q): no metadata row for id %q", col, string(c.rec.ID))
	}
	return v, true, nil
}

// OptMeta is the same lookup as Meta but never errors, per the opt_
// variant's contract of returning Undefined on any miss.
func (c *EvalContext) OptMeta(col string) (vars.Value, bool) {
	if c.joiner == nil {
		return vars.Undefined, false
	}
	row, ok, err := c.joiner.Lookup(string(c.rec.ID))
	if err != nil || !ok {
		return vars.Undefined, false
	}
	idx, err := strconv.Atoi(col)
	if err != nil {
		idx, ok = c.joiner.ColumnIndex(col)
		if !ok {
			return vars.Undefined, false
		}
	}
	s, ok := row.Get(idx)
	if !ok {
		return vars.Undefined, false
	}
	return vars.NewText([]byte(s)), true
}

// Local resolves every command-local HandleKind: the C7 match-family
// variables and the C8 dedup-family variables.
func (c *EvalContext) Local(kind vars.HandleKind, arg string) (vars.Value, bool) {
	switch kind {
	case vars.HKey:
		if c.dedupKey == "" {
			return vars.Undefined, false
		}
		return vars.NewText([]byte(c.dedupKey)), true
	case vars.HNDuplicates:
		return vars.NewInt(c.nDuplicates), true
	case vars.HDuplicatesList:
		return vars.NewText([]byte(strings.Join(c.duplicateIDs, ","))), true
	}

	if c.match == nil {
		return vars.Undefined, false
	}
	m := c.match
	switch kind {
	case vars.HMatch:
		return vars.NewText(matchSlice(c.rec.Seq, m.Start, m.End)), true
	case vars.HMatchStart:
		return vars.NewInt(int64(m.Start)), true
	case vars.HMatchEnd:
		return vars.NewInt(int64(m.End)), true
	case vars.HMatchRange:
		return vars.NewText([]byte(fmt.Sprintf("%d:%d", m.Start, m.End))), true
	case vars.HMatchDiffs:
		return vars.NewInt(int64(m.Diffs)), true
	case vars.HMatchIns:
		return vars.NewInt(int64(m.Ins)), true
	case vars.HMatchDel:
		return vars.NewInt(int64(m.Del)), true
	case vars.HMatchSubst:
		return vars.NewInt(int64(m.Subst)), true
	case vars.HMatchDiffRate:
		if len(c.matchPattern) == 0 {
			return vars.NewFloat(0), true
		}
		return vars.NewFloat(float64(m.Diffs) / float64(len(c.matchPattern))), true
	case vars.HAlignedMatch:
		return vars.NewText(m.AlignedMatch), true
	case vars.HAlignedPattern:
		return vars.NewText(m.AlignedPattern), true
	case vars.HPattern:
		return vars.NewText(c.matchPattern), true
	case vars.HPatternName:
		if m.PatternIdx < len(c.patternNames) {
			return vars.NewText([]byte(c.patternNames[m.PatternIdx])), true
		}
		return vars.NewText([]byte(strconv.Itoa(m.PatternIdx))), true
	case vars.HPatternLen:
		return vars.NewInt(int64(len(c.matchPattern))), true
	case vars.HMatchGroup:
		return groupValue(m, arg), true
	case vars.HMatchGrpStart, vars.HMatchGrpEnd, vars.HMatchGrpRange:
		return groupRangeValue(c.rec.Seq, m, arg, kind), true
	case vars.HMatchNegStart:
		return vars.NewInt(int64(len(c.rec.Seq) - m.End)), true
	case vars.HMatchNegEnd:
		return vars.NewInt(int64(len(c.rec.Seq) - m.Start + 1)), true
	case vars.HMatchNegRange:
		return vars.NewText([]byte(fmt.Sprintf("%d:%d", len(c.rec.Seq)-m.End, len(c.rec.Seq)-m.Start+1))), true
	}
	return vars.Undefined, false
}

func matchSlice(seq []byte, start, end int) []byte {
	if start < 1 || end > len(seq) || start > end {
		return nil
	}
	return seq[start-1 : end]
}

func groupValue(m *search.Match, arg string) vars.Value {
	idx, err := strconv.Atoi(arg)
	if err != nil || idx < 1 || idx > len(m.RegexGroups) {
		return vars.Undefined
	}
	return vars.NewText([]byte(m.RegexGroups[idx-1]))
}

// groupRangeValue resolves match_grp_start/end/range(g): since RegexGroups
// only carries the group's matched text, not its own offsets, position it
// by finding the group text's first occurrence within the match's
// sequence window (best-effort; exact when groups don't repeat a
// substring within the hit).
func groupRangeValue(seq []byte, m *search.Match, arg string, kind vars.HandleKind) vars.Value {
	idx, err := strconv.Atoi(arg)
	if err != nil || idx < 1 || idx > len(m.RegexGroups) {
		return vars.Undefined
	}
	grp := []byte(m.RegexGroups[idx-1])
	window := matchSlice(seq, m.Start, m.End)
	rel := strings.Index(string(window), string(grp))
	if rel < 0 {
		return vars.Undefined
	}
	start := m.Start + rel
	end := start + len(grp) - 1
	switch kind {
	case vars.HMatchGrpStart:
		return vars.NewInt(int64(start))
	case vars.HMatchGrpEnd:
		return vars.NewInt(int64(end))
	default:
		return vars.NewText([]byte(fmt.Sprintf("%d:%d", start, end)))
	}
}
