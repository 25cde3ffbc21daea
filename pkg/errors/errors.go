package errors

import "errors"

// ErrSubmissionFinalized 提交状态冲突：该 (用户, 评审周期) 已定稿
// 由存储层的条件更新（ON CONFLICT ... WHERE finalized = false）检出，
// 并发提交竞争中的败者收到此错误
var ErrSubmissionFinalized = errors.New("评审提交已定稿，不能重复提交")
