package service

import "time"

// Clock 回傳目前時間；正式環境使用 time.Now，測試可固定時間
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}
