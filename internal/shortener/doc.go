// Package shortener 实现短链接业务：调用上游别名接口生成短链，
// 并通过 cache.Provider 维护有上限、按时间倒序的历史记录。
package shortener
