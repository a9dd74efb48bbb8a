package moeidiom

import "strings"

// 成语典进阶版页面的一条完整词条
type Entry struct {
	ID            string   `json:"id"`
	URL           string   `json:"url"`
	Title         string   `json:"title"`          // 成語
	Bopomofo      string   `json:"bopomofo"`       // 注音
	Pinyin        string   `json:"pinyin"`         // 漢語拼音
	Definition    string   `json:"definition"`     // 釋義
	SourceTitle   string   `json:"source_title"`   // 典源出处（首行）
	Source        string   `json:"source"`         // 典源正文
	SourceNotes   string   `json:"source_notes"`   // 典源注解，[1][2]…编号
	Story         string   `json:"story"`          // 典故說明
	Citations     string   `json:"citations"`      // 書證
	UsageMeaning  string   `json:"usage_meaning"`  // 用法說明·語義說明
	UsageCategory string   `json:"usage_category"` // 用法說明·使用類別
	UsageExamples []string `json:"usage_examples"` // 用法說明·例句
	Synonyms      []string `json:"synonyms"`       // 近義成語
	SynonymLinks  []string `json:"synonym_links"`
	Antonyms      []string `json:"antonyms"` // 反義成語
	AntonymLinks  []string `json:"antonym_links"`
	Comparison    string   `json:"comparison"` // 辨識·同異比較
	References    string   `json:"references"` // 參考詞語原文
	Fulltext      string   `json:"fulltext"`
}

// 把词条组版成逐行的纯文本，空字段的行省略。
// 典源出处为＃时表示此据推测，出处名不落入正文。
func (e *Entry) ComposeFulltext() string {
	lines := make([]string, 0, 16)
	lines = append(lines, "成語："+e.Title)
	lines = append(lines, "注音："+e.Bopomofo)
	lines = append(lines, "漢語拼音："+e.Pinyin)
	lines = append(lines, "釋義："+e.Definition)
	if e.SourceTitle != "" && e.Source != "" {
		if e.SourceTitle == "＃" {
			lines = append(lines, "典源："+e.Source)
		} else {
			lines = append(lines, "典源："+e.SourceTitle+e.Source)
		}
	}
	if e.SourceNotes != "" {
		lines = append(lines, "注解："+e.SourceNotes)
	}
	if e.Story != "" {
		lines = append(lines, "典故說明："+e.Story)
	}
	if e.Citations != "" {
		lines = append(lines, "書證："+e.Citations)
	}
	if len(e.UsageExamples) > 0 {
		lines = append(lines, "例句："+strings.Join(e.UsageExamples, "；"))
	}
	if len(e.Synonyms) > 0 {
		lines = append(lines, "近義成語："+strings.Join(e.Synonyms, "、"))
	}
	if len(e.Antonyms) > 0 {
		lines = append(lines, "反義成語："+strings.Join(e.Antonyms, "、"))
	}
	if e.Comparison != "" {
		lines = append(lines, "比較說明："+e.Comparison)
	}
	if refs := FormatReferences(e.References); refs != "" {
		lines = append(lines, "參考詞語："+refs)
	}
	return RemoveBlankLines(strings.Join(lines, "\n"))
}
