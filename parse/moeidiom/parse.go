package moeidiom

// 教育部成語典进阶版（webMd=2）页面的字段抽取。页面主体是
// #idiomTab表格，各字段由<th>标签文本定位到所在行的<td>。

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	BaseURL  = "https://dict.idioms.moe.edu.tw"
	viewPath = "/idiomView.jsp"
)

// 页面不存在、非进阶版页面或内容无效
var ErrNotFound = errors.New("idiom entry not found")

var (
	// 标签字间可能夹半角空白或全形空格
	thTitleRe       = regexp.MustCompile(`^(成|詞)[\s　]*語$`)
	thBopomofoRe    = regexp.MustCompile(`^注[\s　]*音$`)
	thPinyinRe      = regexp.MustCompile(`^漢語拼音$`)
	thDefinitionRe  = regexp.MustCompile(`^釋[\s　]*義$`)
	thSourceRe      = regexp.MustCompile(`^典[\s　]*源$`)
	thStoryRe       = regexp.MustCompile(`^典故說明$`)
	thCitationRe    = regexp.MustCompile(`^書[\s　]*證$`)
	thUsageRe       = regexp.MustCompile(`^用法說明$`)
	thDistinguishRe = regexp.MustCompile(`^辨[\s　]*識$`)
	thReferenceRe   = regexp.MustCompile(`參考詞語`)

	noteSplitRe = regexp.MustCompile(`\n?\s*〔?注解〕?\s*\n?`)
	termSplitRe = regexp.MustCompile(`[、,，]\s*`)
)

// 反义栏里混在词条间的比较说明、示例口癖，出现即整段跳过
var antonymNoise = []string{"及", "都有", "側重於", "例句", "我們已下", "希望大家", "∼"}

// 构造进阶版词条页URL，webMd=2进阶版、la=0国语。
// 参数顺序与既有语料保持一致，不走Values.Encode的按键排序
func ViewURL(base, id string) string {
	return base + viewPath + "?ID=" + url.QueryEscape(id) + "&webMd=2&la=0"
}

// Parse从进阶版页面抽取一条完整词条。页面缺少#idiomTab表格、
// 标题为空或无实质内容时返回包裹了ErrNotFound的错误。
func Parse(id, pageURL string, body []byte) (*Entry, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html failed: %w", err)
	}

	art := articleScope(doc)
	table := art.Find("#idiomTab").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("id %s: advanced view table missing: %w", id, ErrNotFound)
	}

	title := textInTd(table, thTitleRe)
	bopomofo := textInTd(table, thBopomofoRe)
	pinyin := textInTd(table, thPinyinRe)

	bopomofo = StripNewlines(CondenseZhuyin(bopomofo))

	definition := textInTd(table, thDefinitionRe)
	definition = ReplaceArrowNotes(definition)
	definition = CondenseZhuyin(definition)
	definition = StripBopomofoNewlines(definition)
	definition = FixInlineMarkers(definition)

	sourceAll := textInTd(table, thSourceRe)
	sourceText, sourceNotesRaw := splitAtNotes(sourceAll)
	sourceTitle, sourceBodyRaw := splitSourceTitleBody(sourceText)
	sourceBody := formatSourceBody(sourceBodyRaw)
	sourceNotes := EnumerateSourceNotes(sourceNotesRaw)

	story := textInTd(table, thStoryRe)
	story = CondenseZhuyin(story)
	story = StripBopomofoNewlines(story)
	story = FixInlineMarkers(story)

	citations := parseCitations(tdByTh(table, thCitationRe))
	citations = CondenseZhuyin(citations)
	citations = StripBopomofoNewlines(citations)

	usageMeaning, usageCategory, usageExamples := parseUsage(tdByTh(table, thUsageRe))

	// 例句里成语可能被排版空白包围，用标题本身收敛
	if title != "" {
		pat := regexp.MustCompile(`\s*` + regexp.QuoteMeta(title) + `\s*`)
		for i, ex := range usageExamples {
			usageExamples[i] = pat.ReplaceAllString(ex, title)
		}
	}

	synonyms, synonymLinks, antonyms, antonymLinks, comparison := parseDistinguish(tdByTh(table, thDistinguishRe))

	references := textInTd(table, thReferenceRe)

	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("id %s: title is empty: %w", id, ErrNotFound)
	}
	titleClean := titleJunkRe.ReplaceAllString(strings.TrimSpace(title), "")
	if utf8.RuneCountInString(titleClean) < 2 {
		return nil, fmt.Errorf("id %s: title too short or meaningless: %q: %w", id, title, ErrNotFound)
	}
	if strings.TrimSpace(bopomofo) == "" && strings.TrimSpace(definition) == "" {
		return nil, fmt.Errorf("id %s: both bopomofo and definition are empty: %w", id, ErrNotFound)
	}

	// 列表字段统一JSON序列化为[]而非null，页面缺栏时也一样
	usageExamples = orEmpty(usageExamples)
	synonyms = orEmpty(synonyms)
	synonymLinks = orEmpty(synonymLinks)
	antonyms = orEmpty(antonyms)
	antonymLinks = orEmpty(antonymLinks)

	entry := &Entry{
		ID:            id,
		URL:           pageURL,
		Title:         title,
		Bopomofo:      bopomofo,
		Pinyin:        pinyin,
		Definition:    definition,
		SourceTitle:   sourceTitle,
		Source:        sourceBody,
		SourceNotes:   sourceNotes,
		Story:         story,
		Citations:     citations,
		UsageMeaning:  usageMeaning,
		UsageCategory: usageCategory,
		UsageExamples: usageExamples,
		Synonyms:      synonyms,
		SynonymLinks:  synonymLinks,
		Antonyms:      antonyms,
		AntonymLinks:  antonymLinks,
		Comparison:    comparison,
		References:    references,
	}
	entry.Fulltext = entry.ComposeFulltext()

	return entry, nil
}

// 正文范围收敛到article#idiomPage（退而求其次#mainContent），
// 并剔除脚本、面板、导航等噪音节点
func articleScope(doc *goquery.Document) *goquery.Selection {
	art := doc.Find("article#idiomPage").First()
	if art.Length() == 0 {
		art = doc.Find("#mainContent").First()
	}
	if art.Length() == 0 {
		art = doc.Selection
	}
	for _, sel := range []string{"script", "style", ".panel", ".panel2", ".banner2", "#goTop", "footer nav", "header nav"} {
		art.Find(sel).Remove()
	}
	return art
}

// 遍历表格行，th标签文本匹配正则的行返回其td
func tdByTh(table *goquery.Selection, thRe *regexp.Regexp) *goquery.Selection {
	var found *goquery.Selection
	table.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		th := tr.Find("th").First()
		td := tr.Find("td").First()
		if th.Length() > 0 && td.Length() > 0 && thRe.MatchString(nodeText(th, " ")) {
			found = td
			return false
		}
		return true
	})
	return found
}

func textInTd(table *goquery.Selection, thRe *regexp.Regexp) string {
	td := tdByTh(table, thRe)
	if td == nil {
		return ""
	}
	return NormSpace(nodeText(td, "\n"))
}

// 逐个文本节点取值、修剪、丢弃空串后以sep连接，
// 与bs4的get_text(sep, strip=True)行为一致
func textOf(n *html.Node, sep string) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(m *html.Node) {
		if m.Type == html.TextNode {
			if t := strings.TrimSpace(m.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := m.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, sep)
}

func nodeText(s *goquery.Selection, sep string) string {
	if s == nil || s.Length() == 0 {
		return ""
	}
	var parts []string
	for _, n := range s.Nodes {
		if t := textOf(n, sep); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, sep)
}

func isHeadingNode(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.Data == "h4" || n.Data == "strong")
}

// 从heading节点起沿兄弟节点遍历元素，直到下一个heading
func eachSectionNode(h *goquery.Selection, visit func(n *html.Node)) {
	if len(h.Nodes) == 0 {
		return
	}
	for n := h.Nodes[0].NextSibling; n != nil; n = n.NextSibling {
		if isHeadingNode(n) {
			break
		}
		if n.Type != html.ElementNode {
			continue
		}
		visit(n)
	}
}

// 用法說明栏按h4/strong小节拆出語義說明、使用類別与例句，
// 例句优先取ol>li，否则按行拆分小节正文
func parseUsage(td *goquery.Selection) (meaning, category string, examples []string) {
	if td == nil {
		return "", "", nil
	}
	td.Find("h4,strong").Each(func(_ int, h *goquery.Selection) {
		title := nodeText(h, " ")
		var chunks []string
		eachSectionNode(h, func(n *html.Node) {
			if n.Data == "ol" {
				goquery.NewDocumentFromNode(n).Find("li").Each(func(_ int, li *goquery.Selection) {
					examples = append(examples, StripNewlines(NormSpace(nodeText(li, " "))))
				})
				return
			}
			if t := NormSpace(textOf(n, " ")); t != "" {
				chunks = append(chunks, t)
			}
		})
		txt := NormSpace(strings.Join(chunks, "\n"))
		switch {
		case strings.Contains(title, "語義說明"):
			meaning = txt
		case strings.Contains(title, "使用類別"):
			category = txt
		case strings.Contains(title, "例句"):
			if txt != "" {
				for _, line := range newlineRunRe.Split(txt, -1) {
					if line = StripNewlines(line); line != "" {
						examples = append(examples, line)
					}
				}
			}
		}
	})
	for i, ex := range examples {
		examples[i] = NormSpace(StripNewlines(ex))
	}
	return meaning, category, examples
}

// 辨識栏：近義/反義成語取链接文本与/idiomView.jsp链接，
// 纯文本按顿号逗号拆词；同異比較取div.lab与table.compTab
func parseDistinguish(td *goquery.Selection) (synonyms, synonymLinks, antonyms, antonymLinks []string, comparison string) {
	if td == nil {
		return nil, nil, nil, nil, ""
	}

	collectLinks := func(n *html.Node, terms *[]string, links *[]string) {
		goquery.NewDocumentFromNode(n).Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			txt := StripNewlines(NormSpace(nodeText(a, " ")))
			href, _ := a.Attr("href")
			if txt != "" {
				*terms = append(*terms, txt)
			}
			if strings.HasPrefix(href, viewPath) {
				*links = append(*links, BaseURL+href)
			}
		})
	}

	eachHeading := func(keyword string, visit func(n *html.Node)) {
		td.Find("h4,strong").Each(func(_ int, h *goquery.Selection) {
			if !strings.Contains(nodeText(h, " "), keyword) {
				return
			}
			eachSectionNode(h, visit)
		})
	}

	eachHeading("近義成語", func(n *html.Node) {
		collectLinks(n, &synonyms, &synonymLinks)
		raw := NormSpace(textOf(n, " "))
		for _, term := range termSplitRe.Split(raw, -1) {
			term = strings.TrimSpace(StripNewlines(term))
			if term != "" && !containsString(synonyms, term) &&
				!strings.Contains(term, "近義成語") && utf8.RuneCountInString(term) <= 8 {
				synonyms = append(synonyms, term)
			}
		}
	})

	eachHeading("反義成語", func(n *html.Node) {
		// 比较说明混排在p标签里，整节跳过
		if n.Data == "p" {
			return
		}
		collectLinks(n, &antonyms, &antonymLinks)
		raw := NormSpace(textOf(n, " "))
		for _, phrase := range antonymNoise {
			if strings.Contains(raw, phrase) {
				return
			}
		}
		for _, term := range termSplitRe.Split(raw, -1) {
			term = strings.TrimSpace(StripNewlines(term))
			if term != "" && !containsString(antonyms, term) &&
				!strings.Contains(term, "反義成語") && utf8.RuneCountInString(term) <= 8 {
				antonyms = append(antonyms, term)
			}
		}
	})

	var comparisonParts []string
	td.Find("div.lab").Each(func(_ int, div *goquery.Selection) {
		if t := StripNewlines(NormSpace(nodeText(div, " "))); t != "" {
			comparisonParts = append(comparisonParts, t)
		}
	})
	td.Find("table.compTab").Each(func(_ int, tab *goquery.Selection) {
		if t := StripNewlines(NormSpace(nodeText(tab, " "))); t != "" {
			comparisonParts = append(comparisonParts, t)
		}
	})

	synonyms = dedupe(synonyms)
	synonymLinks = dedupe(synonymLinks)
	antonyms = dedupe(antonyms)
	antonymLinks = dedupe(antonymLinks)
	comparison = strings.Join(comparisonParts, "；")

	return synonyms, synonymLinks, antonyms, antonymLinks, comparison
}

// 書證栏优先取列表项逐行组版，没有列表时退回整格文本
func parseCitations(td *goquery.Selection) string {
	if td == nil {
		return ""
	}
	var items []string
	td.Find("ol > li, ul > li").Each(func(_ int, li *goquery.Selection) {
		items = append(items, NormSpace(nodeText(li, " ")))
	})
	if len(items) > 0 {
		return strings.Join(items, "\n")
	}
	return NormSpace(nodeText(td, "\n"))
}

// 典源整格文本从〔注解〕处一分为二
func splitAtNotes(sourceAll string) (text, notes string) {
	if sourceAll == "" {
		return "", ""
	}
	parts := noteSplitRe.Split(sourceAll, 2)
	text = parts[0]
	if len(parts) > 1 {
		notes = parts[1]
	}
	return text, notes
}

// 典源首个非空行是出处名，其余为正文
func splitSourceTitleBody(sourceText string) (title, body string) {
	if sourceText == "" {
		return "", ""
	}
	var lines []string
	for _, ln := range strings.Split(sourceText, "\n") {
		if strings.TrimSpace(ln) != "" {
			lines = append(lines, ln)
		}
	}
	if len(lines) == 0 {
		return "", ""
	}
	title = lines[0]
	if len(lines) > 1 {
		body = strings.Join(lines[1:], "\n")
	}
	return title, body
}

func formatSourceBody(body string) string {
	body = ReplaceArrowNotes(body)
	body = CondenseZhuyin(body)
	body = StripBopomofoNewlines(body)
	body = NewlineToCJKComma(body)
	return body
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// 顺序保持去重
func dedupe(list []string) []string {
	if len(list) == 0 {
		return list
	}
	seen := make(map[string]struct{}, len(list))
	out := list[:0]
	for _, v := range list {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
