package moeidiom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormSpace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "collapse runs", in: "  a b\t c  ", want: "a b c"},
		{name: "zero width space", in: "a​b", want: "a b"},
		{name: "space before newline", in: "a  \nb", want: "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormSpace(tt.in))
		})
	}
}

func TestRemoveBlankLines(t *testing.T) {
	assert.Equal(t, "a\nb", RemoveBlankLines("a\n\n\nb"))
	assert.Equal(t, "", RemoveBlankLines(""))
}

func TestStripNewlines(t *testing.T) {
	assert.Equal(t, "ab", StripNewlines("a\nb\n"))
}

func TestCondenseZhuyin(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "single gap", in: "ㄊㄧㄢ ㄒㄧㄚˋ", want: "ㄊㄧㄢㄒㄧㄚˋ"},
		// 相邻匹配互相消耗，必须迭代到不动点
		{name: "chained gaps", in: "ㄅ ㄆ ㄇ ㄈ", want: "ㄅㄆㄇㄈ"},
		{name: "tone mark boundary", in: "ㄧˋ ㄑㄧˊ", want: "ㄧˋㄑㄧˊ"},
		{name: "cjk untouched", in: "天 下", want: "天 下"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CondenseZhuyin(tt.in))
		})
	}
}

func TestStripBopomofoNewlines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "after bpmf", in: "ㄅ \n 天", want: "ㄅ天"},
		{name: "before bpmf", in: "天 \nㄅ", want: "天ㄅ"},
		{name: "plain cjk kept", in: "天\n地", want: "天\n地"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripBopomofoNewlines(tt.in))
		})
	}
}

func TestReplaceArrowNotes(t *testing.T) {
	assert.Equal(t, "語出[1]孟子", ReplaceArrowNotes("語出\n1>孟子"))
	assert.Equal(t, "曰[2]見下", ReplaceArrowNotes("曰\n 2 〉見下"))
}

func TestNewlineToCJKComma(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "cjk wrap", in: "天下\n太平", want: "天下，太平"},
		// 连续多行同样要迭代到不动点
		{name: "chained lines", in: "壹\n貳\n參", want: "壹，貳，參"},
		{name: "note marker before quote", in: "[1]\n「注」", want: "[1]，「注」"},
		{name: "ascii newline dropped", in: "abc\ndef", want: "abcdef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewlineToCJKComma(tt.in))
		})
	}
}

func TestFixInlineMarkers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "marker after newline", in: "a\n＃ x", want: "a＃x"},
		{name: "marker then quote", in: "＃\n「天」", want: "＃「天」"},
		{name: "open quote wrap", in: "「\n天」", want: "「天」"},
		{name: "close quote wrap", in: "「天\n」", want: "「天」"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FixInlineMarkers(tt.in))
		})
	}
}

func TestEnumerateSourceNotes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{
			name: "two notes",
			in:   "盜跖：人名。\n趨：快走",
			want: "[1]盜跖：人名。[2]趨：快走。",
		},
		{
			name: "leading junk skipped",
			in:   "前言\n甲：乙",
			want: "[1]甲：乙。",
		},
		{
			name: "multiline note folded",
			in:   "甲：乙\n丙\n丁：戊",
			want: "[1]甲：乙丙。[2]丁：戊。",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EnumerateSourceNotes(tt.in))
		})
	}
}

func TestFormatReferences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{
			name: "two headwords",
			in:   "一心一意\n義同本條。\n萬眾一心\n義近。",
			want: "一心一意義同本條。；萬眾一心義近。",
		},
		{
			name: "no headword",
			in:   "abc def\nxyz",
			want: "abc def；xyz",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatReferences(tt.in))
		})
	}
}

func TestSafeSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "cjk kept", in: "一心一意", want: "一心一意"},
		{name: "punct replaced", in: "天 下/無:雙", want: "天_下_無_雙"},
		{name: "empty", in: "  ", want: "NA"},
		{name: "all punct", in: "！？", want: "NA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeSlug(tt.in))
		})
	}
}
