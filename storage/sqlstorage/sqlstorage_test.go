package sqlstorage

import (
	"testing"

	"github.com/moeidioms/crawler/parse/moeidiom"
	"github.com/moeidioms/crawler/sqldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDB struct {
	created  []sqldb.TableData
	inserted []sqldb.TableData
}

func (f *fakeDB) CreateTable(t sqldb.TableData) error {
	f.created = append(f.created, t)
	return nil
}

func (f *fakeDB) Insert(t sqldb.TableData) error {
	f.inserted = append(f.inserted, t)
	return nil
}

func newTestStore(db sqldb.DBer, batchCount int) *SQLStore {
	s := &SQLStore{db: db}
	s.options = defaultOptions
	s.logger = zap.NewNop()
	s.BatchCount = batchCount
	return s
}

func entry(id, title string) *moeidiom.Entry {
	return &moeidiom.Entry{
		ID:            id,
		Title:         title,
		Bopomofo:      "ㄕㄡˇ",
		UsageExamples: []string{"例一", "例二"},
	}
}

// 测试SQL存储的批量落库
func TestSQLStoreFlush(t *testing.T) {
	tests := []struct {
		name       string
		dataDocker []*moeidiom.Entry
		wantInsert bool
	}{
		{name: "empty", wantInsert: false},
		{name: "one entry", dataDocker: []*moeidiom.Entry{entry("1", "守株待兔")}, wantInsert: true},
		{name: "two entries", dataDocker: []*moeidiom.Entry{
			entry("1", "守株待兔"),
			entry("2", "一心一意"),
		}, wantInsert: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeDB{}
			s := newTestStore(db, 10)
			s.dataDocker = tt.dataDocker

			require.NoError(t, s.Flush())
			assert.Nil(t, s.dataDocker)

			if !tt.wantInsert {
				assert.Empty(t, db.inserted)
				return
			}
			require.Len(t, db.inserted, 1)
			got := db.inserted[0]
			assert.Equal(t, "moe_idioms", got.TableName)
			assert.Equal(t, len(tt.dataDocker), got.DataCount)
			assert.Len(t, got.Args, len(tt.dataDocker)*len(entryColumns))
		})
	}
}

func TestSQLStoreSaveBatches(t *testing.T) {
	db := &fakeDB{}
	s := newTestStore(db, 2)

	require.NoError(t, s.Save(entry("1", "守株待兔")))
	require.NoError(t, s.Save(entry("2", "一心一意")))
	require.NoError(t, s.Save(entry("3", "三心二意")))

	// 首条写入时建表一次
	require.Len(t, db.created, 1)
	assert.True(t, db.created[0].AutoKey)

	// 第三条触发批量插入前两条，自身留在缓冲里
	require.Len(t, db.inserted, 1)
	assert.Equal(t, 2, db.inserted[0].DataCount)
	assert.Len(t, s.dataDocker, 1)

	require.NoError(t, s.Flush())
	require.Len(t, db.inserted, 2)
	assert.Equal(t, 1, db.inserted[1].DataCount)
}

// 列表字段以JSON数组入库
func TestMarshalList(t *testing.T) {
	assert.Equal(t, "[]", marshalList(nil))
	assert.Equal(t, `["例一","例二"]`, marshalList([]string{"例一", "例二"}))
}
