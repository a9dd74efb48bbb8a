package storage

import (
	"github.com/moeidioms/crawler/parse/moeidiom"
)

// 存储引擎的统一规范。Save可以缓冲，Flush必须把缓冲落盘
type Storage interface {
	Save(entries ...*moeidiom.Entry) error
	Flush() error
}

// Multi把一条词条同时写入多个后端，任一后端出错即返回
func Multi(stores ...Storage) Storage {
	return &multiStorage{stores: stores}
}

type multiStorage struct {
	stores []Storage
}

func (m *multiStorage) Save(entries ...*moeidiom.Entry) error {
	for _, s := range m.stores {
		if err := s.Save(entries...); err != nil {
			return err
		}
	}
	return nil
}

func (m *multiStorage) Flush() error {
	for _, s := range m.stores {
		if err := s.Flush(); err != nil {
			return err
		}
	}
	return nil
}
