package sqlstorage

// 词条的MySQL镜像存储：先缓冲再批量插入，列结构固定由词条模型导出

import (
	"encoding/json"
	"time"

	"github.com/moeidioms/crawler/parse/moeidiom"
	"github.com/moeidioms/crawler/sqldb"
	"go.uber.org/zap"
)

// references是MySQL保留字，对应列改名为reference_words
var entryColumns = []sqldb.Field{
	{Title: "idiom_id", Type: "VARCHAR(32)"},
	{Title: "url", Type: "VARCHAR(255)"},
	{Title: "title", Type: "VARCHAR(64)"},
	{Title: "bopomofo", Type: "VARCHAR(255)"},
	{Title: "pinyin", Type: "VARCHAR(255)"},
	{Title: "definition", Type: "MEDIUMTEXT"},
	{Title: "source_title", Type: "VARCHAR(255)"},
	{Title: "source", Type: "MEDIUMTEXT"},
	{Title: "source_notes", Type: "MEDIUMTEXT"},
	{Title: "story", Type: "MEDIUMTEXT"},
	{Title: "citations", Type: "MEDIUMTEXT"},
	{Title: "usage_meaning", Type: "MEDIUMTEXT"},
	{Title: "usage_category", Type: "VARCHAR(255)"},
	{Title: "usage_examples", Type: "MEDIUMTEXT"},
	{Title: "synonyms", Type: "MEDIUMTEXT"},
	{Title: "synonym_links", Type: "MEDIUMTEXT"},
	{Title: "antonyms", Type: "MEDIUMTEXT"},
	{Title: "antonym_links", Type: "MEDIUMTEXT"},
	{Title: "comparison", Type: "MEDIUMTEXT"},
	{Title: "reference_words", Type: "MEDIUMTEXT"},
	{Title: "fulltext_body", Type: "MEDIUMTEXT"},
	{Title: "fetched_at", Type: "VARCHAR(32)"},
}

type SQLStore struct {
	dataDocker []*moeidiom.Entry // 缓冲待插入的词条
	db         sqldb.DBer
	tableReady bool
	options
}

// 构造SQL存储并建立数据库连接
func New(opts ...Option) (*SQLStore, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	s := &SQLStore{}
	s.options = options
	var err error
	s.db, err = sqldb.New(
		sqldb.WithConnURL(s.sqlURL),
		sqldb.WithLogger(s.logger),
	)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// 缓冲词条，首次写入时建表，缓冲满BatchCount后批量落库
func (s *SQLStore) Save(entries ...*moeidiom.Entry) error {
	for _, entry := range entries {
		if !s.tableReady {
			err := s.db.CreateTable(sqldb.TableData{
				TableName:   s.tableName,
				ColumnNames: entryColumns,
				AutoKey:     true,
			})
			if err != nil {
				s.logger.Error("create table failed", zap.Error(err))
				return err
			}
			s.tableReady = true
		}
		if len(s.dataDocker) >= s.BatchCount {
			if err := s.Flush(); err != nil {
				s.logger.Error("insert data failed", zap.Error(err))
			}
		}
		s.dataDocker = append(s.dataDocker, entry)
	}
	return nil
}

// 把缓冲的词条一次性插入数据库并清空缓冲
func (s *SQLStore) Flush() error {
	if len(s.dataDocker) == 0 {
		return nil
	}
	defer func() {
		s.dataDocker = nil
	}()

	now := time.Now().Format("2006-01-02 15:04:05")
	args := make([]interface{}, 0, len(s.dataDocker)*len(entryColumns))
	for _, entry := range s.dataDocker {
		args = append(args,
			entry.ID,
			entry.URL,
			entry.Title,
			entry.Bopomofo,
			entry.Pinyin,
			entry.Definition,
			entry.SourceTitle,
			entry.Source,
			entry.SourceNotes,
			entry.Story,
			entry.Citations,
			entry.UsageMeaning,
			entry.UsageCategory,
			marshalList(entry.UsageExamples),
			marshalList(entry.Synonyms),
			marshalList(entry.SynonymLinks),
			marshalList(entry.Antonyms),
			marshalList(entry.AntonymLinks),
			entry.Comparison,
			entry.References,
			entry.Fulltext,
			now,
		)
	}

	return s.db.Insert(sqldb.TableData{
		TableName:   s.tableName,
		ColumnNames: entryColumns,
		Args:        args,
		DataCount:   len(s.dataDocker),
	})
}

// 列表字段以JSON数组形式入库
func marshalList(list []string) string {
	if len(list) == 0 {
		return "[]"
	}
	j, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(j)
}
