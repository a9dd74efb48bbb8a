package moeidiom

// 针对成語典进阶版页面排版的文本清洗规则：注音符号被空白拆散、
// CJK正文被换行截断、典源注解需要重新编号等。Go的RE2不支持
// 环视，原本依赖lookaround的规则改写成捕获组替换并迭代到不动点。

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// 注音符号＋扩充＋声调；CJK基本区＋扩展A区
const (
	bpmfClass = `\x{3105}-\x{3129}\x{31A0}-\x{31BA}\x{02D9}\x{02CA}\x{02C7}\x{02CB}`
	cjkClass  = `\x{4E00}-\x{9FFF}\x{3400}-\x{4DBF}`
)

var (
	spaceRunRe      = regexp.MustCompile("[ \t ​]+")
	spaceBeforeNLRe = regexp.MustCompile(`\s+\n`)
	blankLinesRe    = regexp.MustCompile(`\n{2,}`)
	newlineRunRe    = regexp.MustCompile(`\n+`)

	zhuyinGapRe    = regexp.MustCompile(`([` + bpmfClass + `])\s+([` + bpmfClass + `])`)
	bpmfBeforeNLRe = regexp.MustCompile(`([` + bpmfClass + `])\s*\n+\s*`)
	bpmfAfterNLRe  = regexp.MustCompile(`\s*\n+\s*([` + bpmfClass + `])`)

	arrowNoteRe = regexp.MustCompile(`\n\s*(\d+)\s*[>〉]`)

	cjkJoinRe  = regexp.MustCompile(`([` + cjkClass + `\]])\s*\n+\s*([` + cjkClass + `“「『（(])`)
	commaRunRe = regexp.MustCompile(`，{2,}`)

	markerAfterNLRe = regexp.MustCompile(`\n\s*([＃△])\s*`)
	markerQuoteNLRe = regexp.MustCompile(`([＃△])\s*\n\s*([「『（(《])`)
	openQuoteNLRe   = regexp.MustCompile(`([「『（(《])\s*\n\s*`)
	closeQuoteNLRe  = regexp.MustCompile(`\s*\n\s*([」』）)》])`)

	noteHeadRe = regexp.MustCompile(`^[ \t]*[` + cjkClass + `]+：`)
	noteEndRe  = regexp.MustCompile(`[。！？」』)]$`)

	cjkOnlyRe = regexp.MustCompile(`^[` + cjkClass + `]+$`)

	slugBadRe   = regexp.MustCompile(`[^\pL\pN_\-]+`)
	slugUnderRe = regexp.MustCompile(`_{2,}`)
	titleJunkRe = regexp.MustCompile(`[^\pL\pN_]`)
)

// 反复执行替换直到文本不再变化，补偿RE2缺少环视导致的相邻匹配消耗
func replaceUntilStable(re *regexp.Regexp, s, repl string) string {
	for {
		next := re.ReplaceAllString(s, repl)
		if next == s {
			return s
		}
		s = next
	}
}

// 收敛空格/制表符/不换行空格/零宽空格，去掉换行前的空白并修剪首尾
func NormSpace(s string) string {
	if s == "" {
		return s
	}
	s = spaceRunRe.ReplaceAllString(s, " ")
	s = spaceBeforeNLRe.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

// 连续空行收敛为单个换行
func RemoveBlankLines(s string) string {
	if s == "" {
		return s
	}
	return blankLinesRe.ReplaceAllString(strings.TrimSpace(s), "\n")
}

// 删除全部换行
func StripNewlines(s string) string {
	if s == "" {
		return s
	}
	return strings.ReplaceAll(s, "\n", "")
}

// 删除相邻注音符号之间的空白，"ㄅㄨˋ ㄑㄧˊ"→"ㄅㄨˋㄑㄧˊ"
func CondenseZhuyin(s string) string {
	if s == "" {
		return s
	}
	return replaceUntilStable(zhuyinGapRe, s, "${1}${2}")
}

// 删除紧邻注音符号的换行（连同两侧空白）
func StripBopomofoNewlines(s string) string {
	if s == "" {
		return s
	}
	s = bpmfBeforeNLRe.ReplaceAllString(s, "${1}")
	s = bpmfAfterNLRe.ReplaceAllString(s, "${1}")
	return s
}

// 行首的"1>"式注脚标记改写为"[1]"
func ReplaceArrowNotes(s string) string {
	if s == "" {
		return s
	}
	return arrowNoteRe.ReplaceAllString(s, "[${1}]")
}

// CJK正文被换行截断处补全形逗号，其余换行删除，逗号串收敛
func NewlineToCJKComma(s string) string {
	if s == "" {
		return s
	}
	s = replaceUntilStable(cjkJoinRe, s, "${1}，${2}")
	s = strings.ReplaceAll(s, "\n", "")
	s = commaRunRe.ReplaceAllString(s, "，")
	return s
}

// 把被换行拆开的＃/△标记和引号括号重新粘合
func FixInlineMarkers(s string) string {
	if s == "" {
		return s
	}
	s = markerAfterNLRe.ReplaceAllString(s, "${1}")
	s = markerQuoteNLRe.ReplaceAllString(s, "${1}${2}")
	s = openQuoteNLRe.ReplaceAllString(s, "${1}")
	s = closeQuoteNLRe.ReplaceAllString(s, "${1}")
	return s
}

// 典源注解按"词：解释"切分成条目，逐条补终止标点并编号为[1][2]…
func EnumerateSourceNotes(s string) string {
	if s == "" {
		return ""
	}
	s = CondenseZhuyin(s)
	s = StripBopomofoNewlines(s)
	s = RemoveBlankLines(s)

	var items []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			items = append(items, strings.Join(cur, "\n"))
			cur = nil
		}
	}
	started := false
	for _, line := range strings.Split(s, "\n") {
		if noteHeadRe.MatchString(line) {
			flush()
			started = true
		}
		if started {
			cur = append(cur, line)
		}
	}
	flush()

	var b strings.Builder
	for i, item := range items {
		item = StripNewlines(NormSpace(item))
		if !noteEndRe.MatchString(item) {
			item += "。"
		}
		fmt.Fprintf(&b, "[%d]%s", i+1, item)
	}
	return b.String()
}

// 参考词语的简化组版：6个字以内的纯CJK行视为词目起始行，
// 后续行并入该词目，各词目以；连接
func FormatReferences(s string) string {
	if s == "" {
		return ""
	}
	s = CondenseZhuyin(s)
	s = StripBopomofoNewlines(s)
	s = RemoveBlankLines(s)

	var out []string
	cur := ""
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) <= 6 && cjkOnlyRe.MatchString(line) {
			if cur != "" {
				out = append(out, strings.TrimSpace(cur))
			}
			cur = line
			continue
		}
		if cur != "" {
			cur += line
		} else {
			out = append(out, line)
		}
	}
	if cur != "" {
		out = append(out, strings.TrimSpace(cur))
	}
	return strings.Join(out, "；")
}

// 把标题转成可以安全用作文件名的片段
func SafeSlug(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	s = slugBadRe.ReplaceAllString(s, "_")
	s = slugUnderRe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "NA"
	}
	return s
}
