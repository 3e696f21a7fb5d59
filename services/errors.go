package services

import "errors"

var (
	// ErrLookupMiss 图鉴中找不到名字，或该语言没有数据
	ErrLookupMiss = errors.New("lookup miss")
	// ErrFitFailure 任何句子组合都放不进字数限制
	ErrFitFailure = errors.New("fit failure")
	// ErrNoCandidateFound 搜索完所有批次仍没有合适的帖子
	ErrNoCandidateFound = errors.New("no candidate found")
)
