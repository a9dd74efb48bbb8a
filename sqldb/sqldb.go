package sqldb

// MySQL访问的薄封装：建表、删表、批量插入

import (
	"database/sql"
	"errors"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// 统一数据库操作规范，便于在测试中替换
type DBer interface {
	CreateTable(t TableData) error
	Insert(t TableData) error
}

type Sqldb struct {
	options
	db *sql.DB
}

// 打开MySQL连接并用ping验证可用性
func (d *Sqldb) OpenDB() error {
	db, err := sql.Open("mysql", d.sqlURL)
	if err != nil {
		return err
	}
	db.SetMaxOpenConns(64)
	db.SetMaxIdleConns(16)
	if err = db.Ping(); err != nil {
		return err
	}
	d.db = db
	return nil
}

// 按TableData的列定义建表。词条文本落在4字节平面之外也能存，
// 所以字符集必须是utf8mb4
func (d *Sqldb) CreateTable(t TableData) error {
	if len(t.ColumnNames) == 0 {
		return errors.New("column can not be empty")
	}
	sql := `CREATE TABLE IF NOT EXISTS ` + t.TableName + " ("
	if t.AutoKey {
		sql += `id INT(12) NOT NULL PRIMARY KEY AUTO_INCREMENT,`
	}
	for _, c := range t.ColumnNames {
		sql += c.Title + ` ` + c.Type + `,`
	}
	sql = sql[:len(sql)-1] + `) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

	d.logger.Debug("create table", zap.String("sql", sql))

	_, err := d.db.Exec(sql)
	return err
}

func (d *Sqldb) DropTable(t TableData) error {
	sql := `DROP TABLE ` + t.TableName

	d.logger.Debug("drop table", zap.String("sql", sql))

	_, err := d.db.Exec(sql)

	return err
}

// 构造形如INSERT INTO t(a,b) VALUES (?,?),(?,?)的批量插入语句，
// 占位符组数由DataCount决定
func (d *Sqldb) Insert(t TableData) error {
	if len(t.ColumnNames) == 0 {
		return errors.New("empty column")
	}
	sql := `INSERT INTO ` + t.TableName + `(`

	for _, v := range t.ColumnNames {
		sql += v.Title + ","
	}

	sql = sql[:len(sql)-1] + `) VALUES `

	blank := ",(" + strings.Repeat(",?", len(t.ColumnNames))[1:] + ")"
	sql += strings.Repeat(blank, t.DataCount)[1:] + `;`
	d.logger.Debug("insert table", zap.String("sql", sql))
	_, err := d.db.Exec(sql, t.Args...)
	return err
}

// 表中的一列
type Field struct {
	Title string
	Type  string
}

// 一次表操作携带的全部数据
type TableData struct {
	TableName   string
	ColumnNames []Field
	Args        []interface{} // 扁平化的行数据
	DataCount   int           // 行数
	AutoKey     bool
}

// 构造Sqldb实例并立即建立连接
func New(opts ...Option) (*Sqldb, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	d := &Sqldb{}
	d.options = options
	if err := d.OpenDB(); err != nil {
		return nil, err
	}
	return d, nil
}
