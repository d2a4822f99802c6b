package server

import (
	"encoding/json"
	"net/http"
)

// HandleAdminConfig 提供中继配置的读取与更新
// GET /admin/config  返回当前配置
// POST /admin/config 以 JSON 载荷更新部分字段（只影响之后新建的房间/连接）
func (h *Hub) HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	type cfg struct {
		Capacity  *int `json:"capacity,omitempty"`
		SendQueue *int `json:"sendQueue,omitempty"`
	}

	switch r.Method {
	case http.MethodGet:
		capacity, queue := h.reg.Capacity(), h.SendQueue()
		writeJSON(w, cfg{Capacity: &capacity, SendQueue: &queue})
	case http.MethodPost:
		var body cfg
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.Capacity != nil {
			if *body.Capacity <= 0 {
				http.Error(w, "capacity must be positive", http.StatusBadRequest)
				return
			}
			h.reg.SetCapacity(*body.Capacity)
		}
		if body.SendQueue != nil {
			h.SetSendQueue(*body.SendQueue)
		}
		writeJSON(w, map[string]any{"ok": true})
		Log.Infow("config updated", "capacity", h.reg.Capacity(), "sendQueue", h.SendQueue())
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// RoomInfo 房间列表中的一项
type RoomInfo struct {
	ID       string         `json:"id"`
	Members  int            `json:"members"`
	Capacity int            `json:"capacity"`
	Metrics  map[string]any `json:"metrics"`
}

// HandleMetrics 输出所有房间的人数与运行指标
// GET /metrics
func (h *Hub) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	rooms := h.reg.Rooms()
	out := make([]RoomInfo, 0, len(rooms))
	for _, rm := range rooms {
		out = append(out, RoomInfo{
			ID:       rm.ID,
			Members:  rm.Len(),
			Capacity: rm.Capacity(),
			Metrics:  rm.Metrics().Snapshot(),
		})
	}
	writeJSON(w, map[string]any{"rooms": out})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
