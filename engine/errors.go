package engine

import "errors"

var (
	// ErrValidation 请求缺字段或字段不合法
	ErrValidation = errors.New("invalid request")
	// ErrNotFound article/system/borrow id 查无此项
	ErrNotFound = errors.New("not found")
	// ErrInsufficientAvailability 库存不够借
	ErrInsufficientAvailability = errors.New("not enough units available")
)
