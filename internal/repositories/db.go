package repositories

import "gorm.io/gorm"

// conn 返回本次操作使用的连接，tx 不为空时在事务内执行
func conn(db *gorm.DB, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
