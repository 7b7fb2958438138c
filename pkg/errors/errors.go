// Package errors 存放跨层共享的哨兵错误
package errors

import "errors"

// ErrOptimisticLock 带版本号的更新未命中任何行：
// 记录已被并发修改，或在读取后被删除
var ErrOptimisticLock = errors.New("记录已被并发修改，请刷新后重试")
