package vars

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/seqtoolkit/st/internal/record"
	"github.com/seqtoolkit/st/internal/sequtil"
)

// Context is the narrow per-record interface the registry's Get needs.
// The pipeline driver's evaluation context (C9) implements this;
// vars deliberately doesn't import internal/pipeline to avoid a cycle
// (pipeline imports vars, not the other way around).
type Context interface {
	Rec() *record.Record
	AttrFormat() record.AttrFormat
	Path() string
	DefaultExt() string
	SeqType() sequtil.SeqType
	SeqNum(reset bool) int64
	SeqIdx(reset bool) int64
	Meta(col string) (Value, bool, error)
	OptMeta(col string) (Value, bool)
	HasMeta() bool
	// Local resolves a command-local slot (C7/C8 output) by kind and, for
	// match_group/match_range-family variables, its numeric argument.
	Local(kind HandleKind, arg string) (Value, bool)
}

// names maps every bare-variable name in spec.md §4.2 to its Handle
// kind, resolved once at template compile time.
var names = map[string]HandleKind{
	"id": HID, "desc": HDesc, "seq": HSeq,
	"upper_seq": HUpperSeq, "lower_seq": HLowerSeq,
	"seqlen": HSeqLen, "ungapped_seqlen": HUngappedSeqLen,
	"gc": HGC, "gc_percent": HGCPercent, "charcount": HCharCount,
	"exp_err": HExpErr, "seq_revcomp": HSeqRevComp,
	"seqhash": HSeqHash, "seqhash_rev": HSeqHashRev, "seqhash_min": HSeqHashMin,

	"path": HPath, "filename": HFilename, "filestem": HFilestem,
	"extension": HExtension, "dirname": HDirname, "default_ext": HDefaultExt,
	"seq_num": HSeqNum, "seq_idx": HSeqIdx,

	"attr": HAttr, "opt_attr": HOptAttr, "attr_del": HAttrDel,
	"opt_attr_del": HOptAttrDel, "has_attr": HHasAttr,

	"meta": HMeta, "opt_meta": HOptMeta, "has_meta": HHasMeta,

	"num": HNum, "bin": HBin,

	"match": HMatch, "match_start": HMatchStart, "match_end": HMatchEnd,
	"match_range": HMatchRange, "match_diffs": HMatchDiffs,
	"match_ins": HMatchIns, "match_del": HMatchDel, "match_subst": HMatchSubst,
	"match_diff_rate": HMatchDiffRate,
	"aligned_match":   HAlignedMatch, "aligned_pattern": HAlignedPattern,
	"pattern": HPattern, "pattern_name": HPatternName, "pattern_len": HPatternLen,
	"match_group": HMatchGroup,
	"match_grp_start": HMatchGrpStart, "match_grp_end": HMatchGrpEnd,
	"match_grp_range": HMatchGrpRange,
	"match_neg_start": HMatchNegStart, "match_neg_end": HMatchNegEnd,
	"match_neg_range": HMatchNegRange,

	"key": HKey, "n_duplicates": HNDuplicates, "duplicates_list": HDuplicatesList,
}

// oneArgHandles records which handles take exactly one argument, for Resolve's arity
// check at compile time.
var oneArgHandles = map[HandleKind]bool{
	HCharCount: true, HAttr: true, HOptAttr: true, HAttrDel: true,
	HOptAttrDel: true, HHasAttr: true, HMeta: true, HOptMeta: true,
	HNum: true, HMatchGroup: true, HMatchGrpStart: true, HMatchGrpEnd: true,
	HMatchGrpRange: true,
}

// Resolve looks up name and validates its argument count, returning a
// Handle for repeated per-record use. args are the literal/ident tokens
// parsed from a bare-variable call such as attr(name) or bin(gc_percent, 10).
func Resolve(name string, args []string) (Handle, error) {
	kind, ok := names[name]
	if !ok {
		return Handle{}, fmt.Errorf("unknown variable %q", name)
	}
	switch kind {
	case HBin:
		if len(args) != 2 {
			return Handle{}, fmt.Errorf("bin() takes 2 arguments, got %d", len(args))
		}
		return Handle{Kind: kind, Arg: args[0], Arg2: args[1]}, nil
	case HMeta, HOptMeta:
		if len(args) < 1 || len(args) > 2 {
			return Handle{}, fmt.Errorf("%s() takes 1 or 2 arguments, got %d", name, len(args))
		}
		h := Handle{Kind: kind, Arg: args[0]}
		if len(args) == 2 {
			h.Arg2 = args[1]
		}
		return h, nil
	case HHasMeta:
		if len(args) > 1 {
			return Handle{}, fmt.Errorf("has_meta() takes at most 1 argument, got %d", len(args))
		}
		h := Handle{Kind: kind}
		if len(args) == 1 {
			h.Arg = args[0]
		}
		return h, nil
	case HSeqNum, HSeqIdx:
		h := Handle{Kind: kind}
		if len(args) == 1 {
			h.Arg = args[0]
		} else if len(args) > 1 {
			return Handle{}, fmt.Errorf("%s() takes at most 1 argument, got %d", name, len(args))
		}
		return h, nil
	default:
		if oneArgHandles[kind] {
			if len(args) != 1 {
				return Handle{}, fmt.Errorf("%s() takes 1 argument, got %d", name, len(args))
			}
			return Handle{Kind: kind, Arg: args[0]}, nil
		}
		if len(args) != 0 {
			return Handle{}, fmt.Errorf("%s takes no arguments, got %d", name, len(args))
		}
		return Handle{Kind: kind}, nil
	}
}

// Get evaluates a resolved Handle against ctx, implementing the
// per-record dispatch spec.md §9 mandates as a switch on a small
// integer discriminant.
func Get(h Handle, ctx Context) Value {
	rec := ctx.Rec()
	switch h.Kind {
	case HID:
		return NewText(rec.ID)
	case HDesc:
		if rec.Desc == nil {
			return Undefined
		}
		return NewText(rec.Desc)
	case HSeq:
		return NewText(rec.Seq)
	case HUpperSeq:
		return NewText(toCase(rec.Seq, true))
	case HLowerSeq:
		return NewText(toCase(rec.Seq, false))
	case HSeqLen:
		return NewInt(int64(len(rec.Seq)))
	case HUngappedSeqLen:
		return NewInt(int64(sequtil.UngappedLen(rec.Seq)))
	case HGC:
		gc, _ := sequtil.GCCount(rec.Seq)
		return NewInt(gc)
	case HGCPercent:
		return NewFloat(sequtil.GCPercent(rec.Seq))
	case HCharCount:
		return NewInt(sequtil.CharCount(rec.Seq, []byte(h.Arg)))
	case HExpErr:
		return NewFloat(sequtil.ExpErr(rec.Qual))
	case HSeqRevComp:
		return NewText(sequtil.RevComp(rec.Seq, ctx.SeqType()))
	case HSeqHash:
		return NewInt(int64(sequtil.SeqHash(rec.Seq)))
	case HSeqHashRev:
		return NewInt(int64(sequtil.SeqHashRev(rec.Seq, ctx.SeqType())))
	case HSeqHashMin:
		return NewInt(int64(sequtil.SeqHashMin(rec.Seq, ctx.SeqType())))

	case HPath:
		return NewText([]byte(ctx.Path()))
	case HFilename:
		return NewText([]byte(filepath.Base(ctx.Path())))
	case HFilestem:
		base := filepath.Base(ctx.Path())
		return NewText([]byte(strings.TrimSuffix(base, filepath.Ext(base))))
	case HExtension:
		return NewText([]byte(strings.TrimPrefix(filepath.Ext(ctx.Path()), ".")))
	case HDirname:
		return NewText([]byte(filepath.Dir(ctx.Path())))
	case HDefaultExt:
		return NewText([]byte(ctx.DefaultExt()))
	case HSeqNum:
		return NewInt(ctx.SeqNum(h.Arg == "true"))
	case HSeqIdx:
		return NewInt(ctx.SeqIdx(h.Arg == "true"))

	case HAttr:
		v, ok := getAttr(rec, ctx.AttrFormat(), h.Arg)
		if !ok {
			return Undefined
		}
		return v
	case HOptAttr:
		v, ok := getAttr(rec, ctx.AttrFormat(), h.Arg)
		if !ok {
			return Undefined
		}
		return v
	case HHasAttr:
		_, ok := getAttr(rec, ctx.AttrFormat(), h.Arg)
		if ok {
			return NewInt(1)
		}
		return NewInt(0)
	case HAttrDel, HOptAttrDel:
		return deleteAttr(rec, ctx.AttrFormat(), h.Arg)

	case HMeta:
		v, _, _ := ctx.Meta(h.Arg)
		return v
	case HOptMeta:
		v, _ := ctx.OptMeta(h.Arg)
		return v
	case HHasMeta:
		if ctx.HasMeta() {
			return NewInt(1)
		}
		return NewInt(0)

	case HNum:
		return NewFloat(resolveArgValue(h.Arg, ctx).Num())
	case HBin:
		x := resolveArgValue(h.Arg, ctx).Num()
		w := resolveArgValue(h.Arg2, ctx).Num()
		return NewText([]byte(sequtil.Bin(x, w)))

	default:
		v, _ := ctx.Local(h.Kind, h.Arg)
		return v
	}
}

// resolveArgValue resolves a bare-variable argument token, which is
// either a literal number or the name of another zero-argument
// variable (num(seqlen), bin(gc_percent, 10)).
func resolveArgValue(arg string, ctx Context) Value {
	if f, err := strconv.ParseFloat(arg, 64); err == nil {
		return NewFloat(f)
	}
	h, err := Resolve(arg, nil)
	if err != nil {
		return Undefined
	}
	return Get(h, ctx)
}

func toCase(seq []byte, upper bool) []byte {
	out := make([]byte, len(seq))
	for i, b := range seq {
		if upper && b >= 'a' && b <= 'z' {
			out[i] = b - 32
		} else if !upper && b >= 'A' && b <= 'Z' {
			out[i] = b + 32
		} else {
			out[i] = b
		}
	}
	return out
}

func getAttr(rec *record.Record, af record.AttrFormat, name string) (Value, bool) {
	segment := rec.Desc
	if !af.InDescription() {
		segment = rec.ID
	}
	v, err := record.Get(segment, af, name)
	if err != nil {
		return Undefined, false
	}
	return NewText([]byte(v)), true
}

// deleteAttr implements attr_del/opt_attr_del: unlike every other
// standard variable, this one mutates the record it reads from (spec.md
// §4.2 lists it among the ordinary variables, but §4.3 defines
// "attr_del removes matched attribute in place"). It returns the value
// the attribute held before deletion, or Undefined if it was absent.
func deleteAttr(rec *record.Record, af record.AttrFormat, name string) Value {
	v, ok := getAttr(rec, af, name)
	if af.InDescription() {
		rec.Desc = record.Delete(rec.Desc, af, name)
	} else {
		rec.ID = record.Delete(rec.ID, af, name)
	}
	if !ok {
		return Undefined
	}
	return v
}
