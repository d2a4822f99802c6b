package server

import (
	"sync/atomic"
)

// RoomMetrics 房间中继的运行指标
type RoomMetrics struct {
	Joins       int64 // 加入次数
	Leaves      int64 // 离开次数
	Relayed     int64 // 被中继的消息数
	Rejected    int64 // 入口校验失败被拒绝的消息数
	SendDropped int64 // 因发送队列满被丢弃的消息数
}

func (m *RoomMetrics) IncJoins()       { atomic.AddInt64(&m.Joins, 1) }
func (m *RoomMetrics) IncLeaves()      { atomic.AddInt64(&m.Leaves, 1) }
func (m *RoomMetrics) IncRelayed()     { atomic.AddInt64(&m.Relayed, 1) }
func (m *RoomMetrics) IncRejected()    { atomic.AddInt64(&m.Rejected, 1) }
func (m *RoomMetrics) IncSendDropped() { atomic.AddInt64(&m.SendDropped, 1) }

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *RoomMetrics) Snapshot() map[string]any {
	return map[string]any{
		"joins":        atomic.LoadInt64(&m.Joins),
		"leaves":       atomic.LoadInt64(&m.Leaves),
		"relayed":      atomic.LoadInt64(&m.Relayed),
		"rejected":     atomic.LoadInt64(&m.Rejected),
		"send_dropped": atomic.LoadInt64(&m.SendDropped),
	}
}
