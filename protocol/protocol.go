package protocol

import (
	"encoding/json"

	"github.com/alkief/pacmen/game"
)

// 消息类型
const (
	MsgWelcome         = "welcome"
	MsgPeerJoined      = "peer-joined"
	MsgPeerLeft        = "peer-left"
	MsgState           = "state"
	MsgItemConsumed    = "item-consumed"
	MsgActorEliminated = "actor-eliminated"
)

// Envelope 所有 WebSocket 文本消息的外层结构；From 由中继服务填写
type Envelope struct {
	T    string          `json:"t"`
	From string          `json:"from,omitempty"`
	P    json.RawMessage `json:"p"`
}

// Welcome 连接建立后服务端发给新参与者
type Welcome struct {
	ID    string   `json:"id"`
	Room  string   `json:"room"`
	Peers []string `json:"peers"`
}

// Peer 参与者加入/离开通知
type Peer struct {
	ID string `json:"id"`
}

// 与核心事件共用的负载
type (
	State           = game.State
	ItemConsumed    = game.ItemConsumed
	ActorEliminated = game.ActorEliminated
)

// Relayed 需要中继给同房间其他成员的消息类型
func Relayed(t string) bool {
	switch t {
	case MsgState, MsgItemConsumed, MsgActorEliminated:
		return true
	}
	return false
}
